package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gmviana11/fornecedor-conecta/internal/middleware"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/service"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type authResponse struct {
	AccessToken string      `json:"accessToken"`
	SessionID   string      `json:"sessionId"`
	User        models.User `json:"user"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.sessions.Login(c.Request.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{
		AccessToken: result.AccessToken,
		SessionID:   result.SessionID,
		User:        result.User,
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	session, ok := middleware.Session(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := session.Logout(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}
