package handlers

import (
	"fmt"
	"net/http"

	"linkup/apperr"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetMe(c *gin.Context) {
	user, err := h.Store.GetUser(c.Request.Context(), principal(c))
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user})
}

type updateMeRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (h *Handler) UpdateMe(c *gin.Context) {
	var in updateMeRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, h.Logger, apperr.Validation("malformed request body"))
		return
	}
	user, err := h.Store.UpdateProfile(c.Request.Context(), principal(c), in.Name, in.Avatar)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"user": user})
}

func (h *Handler) DeleteMe(c *gin.Context) {
	if err := h.Store.DeactivateUser(c.Request.Context(), principal(c)); err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		respondErr(c, h.Logger, apperr.Validation("invalid user id"))
		return
	}
	user, err := h.Store.GetUser(c.Request.Context(), id)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	followers, following, err := h.Social.Relations(c.Request.Context(), id)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"user":      user,
		"followers": followers,
		"following": following,
	})
}

func (h *Handler) Follow(c *gin.Context) {
	targetID, ok := idParam(c, "id")
	if !ok {
		respondErr(c, h.Logger, apperr.Validation("invalid user id"))
		return
	}
	name, err := h.Social.Follow(c.Request.Context(), principal(c), targetID)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": fmt.Sprintf("you are now following %s", name)})
}

func (h *Handler) Unfollow(c *gin.Context) {
	targetID, ok := idParam(c, "id")
	if !ok {
		respondErr(c, h.Logger, apperr.Validation("invalid user id"))
		return
	}
	name, err := h.Social.Unfollow(c.Request.Context(), principal(c), targetID)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"message": fmt.Sprintf("you have unfollowed %s", name)})
}
