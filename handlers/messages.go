package handlers

import (
	"net/http"
	"strconv"

	"linkup/apperr"

	"github.com/gin-gonic/gin"
)

type sendMessageRequest struct {
	Recipient uint   `json:"recipient"`
	Content   string `json:"content"`
	Image     string `json:"image"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	var in sendMessageRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondErr(c, h.Logger, apperr.Validation("malformed request body"))
		return
	}
	payload, err := h.Chat.SendMessage(c.Request.Context(), principal(c), in.Recipient, in.Content, in.Image)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"message": payload})
}

// GetMessages pages through the conversation with the user in the
// path. Unparsable page/limit values come out of Atoi as zero and the
// service coerces them to the defaults.
func (h *Handler) GetMessages(c *gin.Context) {
	otherID, ok := idParam(c, "userId")
	if !ok {
		respondErr(c, h.Logger, apperr.Validation("invalid user id"))
		return
	}
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	history, err := h.Chat.GetHistory(c.Request.Context(), principal(c), otherID, page, limit)
	if err != nil {
		respondErr(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":      "success",
		"results":     history.Results,
		"total":       history.Total,
		"totalPages":  history.TotalPages,
		"currentPage": history.CurrentPage,
		"messages":    history.Messages,
	})
}
