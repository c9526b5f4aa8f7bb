package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
	"github.com/gmviana11/fornecedor-conecta/internal/middleware"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/service"
)

func (h HandlerSet) currentUser(c *gin.Context) (models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	return user, ok
}

func (h HandlerSet) ListRequests(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var items []models.ServiceRequest
	if status := models.ServiceStatus(c.Query("status")); status != "" {
		if !status.Valid() {
			h.respondError(c, apperrors.NewValidation("unknown service status %q", status))
			return
		}
		for _, r := range h.requests.ListFor(user) {
			if r.Status == status {
				items = append(items, r)
			}
		}
	} else {
		items = h.requests.ListFor(user)
	}
	if items == nil {
		items = []models.ServiceRequest{}
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
	})
}

func (h HandlerSet) GetRequest(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	req, err := h.requests.Get(user, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

func (h HandlerSet) CreateRequest(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req service.CreateRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.requests.Create(c.Request.Context(), user, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h HandlerSet) RespondRequest(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req models.ResponseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.requests.Respond(c.Request.Context(), user, c.Param("id"), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h HandlerSet) AcceptRequest(c *gin.Context) {
	h.requestTransition(c, h.requests.Accept)
}

func (h HandlerSet) RejectRequest(c *gin.Context) {
	h.requestTransition(c, h.requests.Reject)
}

func (h HandlerSet) CompleteRequest(c *gin.Context) {
	h.requestTransition(c, h.requests.Complete)
}

func (h HandlerSet) requestTransition(c *gin.Context, apply func(context.Context, models.User, string) (models.ServiceRequest, error)) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	updated, err := apply(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

type rateRequest struct {
	Stars   int    `json:"stars" binding:"required"`
	Comment string `json:"comment"`
}

func (h HandlerSet) RateRequest(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req rateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.requests.Rate(c.Request.Context(), user, c.Param("id"), models.RatingInput{
		Stars:   req.Stars,
		Comment: req.Comment,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h HandlerSet) SupplierProfile(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if user.SupplierID == nil {
		h.respondError(c, apperrors.NewNotFound("no supplier linked to user %s", user.ID))
		return
	}
	supplier, err := h.suppliers.Get(*user.SupplierID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h HandlerSet) SupplierStats(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	if user.SupplierID == nil {
		c.JSON(http.StatusOK, service.SupplierStats{})
		return
	}
	c.JSON(http.StatusOK, h.stats.Supplier(*user.SupplierID))
}

func (h HandlerSet) UserStats(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.stats.User(user.ID))
}
