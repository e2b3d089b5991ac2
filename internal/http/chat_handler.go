package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"careerbot/internal/domain"
	"careerbot/internal/service"
)

// ChatHandler mantiene dependencias para los endpoints de conversación.
type ChatHandler struct {
	logger   *zap.Logger
	chatServ *service.ChatService
	jwtServ  *service.JWTService
}

func NewChatHandler(logger *zap.Logger, chatServ *service.ChatService, jwtServ *service.JWTService) *ChatHandler {
	return &ChatHandler{
		logger:   logger,
		chatServ: chatServ,
		jwtServ:  jwtServ,
	}
}

// Chat maneja POST /chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req struct {
		Message   string `json:"message" binding:"required"`
		SessionID string `json:"session_id"`
		Title     string `json:"title"`
		UserID    string `json:"user_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID := h.resolveUserID(c, req.UserID)

	result, err := h.chatServ.Chat(c.Request.Context(), service.ChatInput{
		Message:   req.Message,
		SessionID: req.SessionID,
		Title:     req.Title,
		UserID:    userID,
	})
	if err != nil {
		h.logger.Error("chat failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong on the server"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":     result.Reply,
		"session_id":   result.SessionID,
		"bot_response": result.Reply,
	})
}

// ListSessions maneja GET /chat-sessions con filtro opcional por user_id.
func (h *ChatHandler) ListSessions(c *gin.Context) {
	var userID *string
	if raw := strings.TrimSpace(c.Query("user_id")); raw != "" {
		userID = &raw
	}

	summaries, err := h.chatServ.ListSessions(c.Request.Context(), userID)
	if err != nil {
		h.logger.Error("list sessions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching sessions"})
		return
	}
	if summaries == nil {
		summaries = []domain.SessionSummary{}
	}
	c.JSON(http.StatusOK, summaries)
}

// History maneja GET /chat-history/:session_id.
// El dueño se acredita con ?user_id o con un access token; mismatch responde 403.
func (h *ChatHandler) History(c *gin.Context) {
	sessionID := c.Param("session_id")

	requesterID := strings.TrimSpace(c.Query("user_id"))
	if requesterID == "" {
		if claims, ok := bearerClaims(c, h.jwtServ); ok {
			requesterID = claims.UserID
		}
	}

	messages, err := h.chatServ.History(c.Request.Context(), sessionID, requesterID)
	if err != nil {
		if errors.Is(err, service.ErrSessionForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		h.logger.Error("chat history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching history"})
		return
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	c.JSON(http.StatusOK, messages)
}

// resolveUserID prefiere el user_id explícito del request y cae al access token.
func (h *ChatHandler) resolveUserID(c *gin.Context, explicit string) *string {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		return &explicit
	}
	if claims, ok := bearerClaims(c, h.jwtServ); ok {
		id := claims.UserID
		return &id
	}
	return nil
}
