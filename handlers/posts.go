package handlers

import (
	"net/http"
	"strconv"

	"linkup/apperr"

	"github.com/gin-gonic/gin"
)

type postRequest struct {
	Content string `json:"content"`
	Image   string `json:"image"`
}

func (h *Handler) CreatePost(c *gin.Context) {
	var in postRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, h.Logger, apperr.Validation("malformed request body"))
		return
	}
	post, err := h.Posts.Create(c.Request.Context(), principal(c), in.Content, in.Image)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"post": post})
}

func (h *Handler) ListPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	list, err := h.Posts.List(c.Request.Context(), limit)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"posts": list})
}

func (h *Handler) GetPost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondErr(c, h.Logger, apperr.Validation("invalid post id"))
		return
	}
	detail, err := h.Posts.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"post": detail})
}

func (h *Handler) UpdatePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondErr(c, h.Logger, apperr.Validation("invalid post id"))
		return
	}
	var in postRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, h.Logger, apperr.Validation("malformed request body"))
		return
	}
	detail, err := h.Posts.Update(c.Request.Context(), principal(c), id, in.Content, in.Image)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"post": detail})
}

func (h *Handler) DeletePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondErr(c, h.Logger, apperr.Validation("invalid post id"))
		return
	}
	if err := h.Posts.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) LikePost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondErr(c, h.Logger, apperr.Validation("invalid post id"))
		return
	}
	detail, err := h.Posts.ToggleLike(c.Request.Context(), id, principal(c))
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"post": detail})
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *Handler) CommentPost(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondErr(c, h.Logger, apperr.Validation("invalid post id"))
		return
	}
	var in commentRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, h.Logger, apperr.Validation("malformed request body"))
		return
	}
	detail, err := h.Posts.AddComment(c.Request.Context(), id, principal(c), in.Text)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"post": detail})
}
