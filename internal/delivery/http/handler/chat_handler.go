package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lwindle/MeetMoment/internal/domain"
	"github.com/lwindle/MeetMoment/internal/usecase/chat"
)

type ChatHandler struct {
	chatUseCase *chat.UseCase
}

func NewChatHandler(chatUseCase *chat.UseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

// GetPersonas handles GET /chat/personas
func (h *ChatHandler) GetPersonas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"personas": h.chatUseCase.Personas(),
		"active":   h.chatUseCase.ActivePersona(userID(c)),
	})
}

type setPersonaRequest struct {
	PersonaID uint `json:"persona_id" binding:"required"`
}

// SetPersona handles POST /chat/persona
func (h *ChatHandler) SetPersona(c *gin.Context) {
	var req setPersonaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingError(err)})
		return
	}

	intro, err := h.chatUseCase.SetPersona(userID(c), req.PersonaID)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownPersona) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "persona not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to switch persona"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"introduction": intro})
}

type sendRequest struct {
	Content string `json:"content" binding:"required"`
}

// Send handles POST /chat/send
func (h *ChatHandler) Send(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingError(err)})
		return
	}

	result, err := h.chatUseCase.Send(c.Request.Context(), userID(c), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAuthExpired):
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "登录已过期，请重新登录"})
		case errors.Is(err, domain.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to send message"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetMessages handles GET /chat/messages
func (h *ChatHandler) GetMessages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"messages": h.chatUseCase.Messages(userID(c)),
	})
}

// CloseSession handles POST /chat/close
func (h *ChatHandler) CloseSession(c *gin.Context) {
	h.chatUseCase.EndSession(userID(c))
	c.JSON(http.StatusOK, SuccessResponse{Message: "chat session closed"})
}
