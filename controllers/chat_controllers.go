package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-booking/services"
	"github.com/yeremiapane/restaurant-booking/utils"
)

type ChatController struct {
	Chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{Chat: chat}
}

func (cc *ChatController) Contacts(c *gin.Context) {
	contacts, err := cc.Chat.Contacts(c.Request.Context(), session(c).UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Contacts", contacts)
}

// Unread returns unread counts keyed by sender id.
func (cc *ChatController) Unread(c *gin.Context) {
	counts, err := cc.Chat.UnreadCounts(c.Request.Context(), session(c).UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Unread messages", counts)
}

// OpenThread returns the conversation and marks what peer sent as read.
func (cc *ChatController) OpenThread(c *gin.Context) {
	view, err := cc.Chat.OpenThread(c.Request.Context(), session(c).UserID, c.Param("peer"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Thread", view)
}

func (cc *ChatController) Send(c *gin.Context) {
	var input struct {
		Content string `json:"content"`
	}
	if !bindJSON(c, &input) {
		return
	}

	msg, err := cc.Chat.Send(c.Request.Context(), session(c).UserID, c.Param("peer"), input.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Message sent", msg)
}
