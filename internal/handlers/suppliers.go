package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/service"
)

func (h HandlerSet) BrowseSuppliers(c *gin.Context) {
	items, err := h.suppliers.Browse(c.Request.Context(), service.BrowseInput{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
	})
}

func (h HandlerSet) Categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"items": h.suppliers.Categories(),
	})
}

func (h HandlerSet) GetSupplier(c *gin.Context) {
	supplier, err := h.suppliers.GetPublic(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h HandlerSet) RegisterSupplier(c *gin.Context) {
	var req models.SupplierInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	supplier, err := h.suppliers.Register(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

type leadRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Company    string `json:"company"`
	Message    string `json:"message"`
	SupplierID string `json:"supplierId"`
}

func (h HandlerSet) CaptureLead(c *gin.Context) {
	var req leadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	lead, err := h.leads.Capture(c.Request.Context(), models.Lead{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Company:    req.Company,
		Message:    req.Message,
		SupplierID: req.SupplierID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, lead)
}
