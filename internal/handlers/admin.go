package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gmviana11/fornecedor-conecta/internal/apperrors"
	"github.com/gmviana11/fornecedor-conecta/internal/middleware"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/repository"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminListSuppliers accepts status (comma separated), category and q.
func (h HandlerSet) AdminListSuppliers(c *gin.Context) {
	filter := repository.SupplierFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}
	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := models.SupplierStatus(strings.TrimSpace(part))
			if !status.Valid() {
				h.respondError(c, apperrors.NewValidation("unknown supplier status %q", status))
				return
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"items": h.suppliers.List(filter),
	})
}

func (h HandlerSet) AdminGetSupplier(c *gin.Context) {
	supplier, err := h.suppliers.Get(c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h HandlerSet) AdminUpdateSupplier(c *gin.Context) {
	var patch models.SupplierPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err)
		return
	}

	supplier, err := h.suppliers.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h HandlerSet) AdminApproveSupplier(c *gin.Context) {
	h.supplierTransition(c, h.suppliers.Approve)
}

func (h HandlerSet) AdminRejectSupplier(c *gin.Context) {
	h.supplierTransition(c, h.suppliers.Reject)
}

func (h HandlerSet) AdminHideSupplier(c *gin.Context) {
	h.supplierTransition(c, h.suppliers.Hide)
}

func (h HandlerSet) supplierTransition(c *gin.Context, apply func(context.Context, string) (models.Supplier, error)) {
	supplier, err := apply(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h HandlerSet) AdminDeleteSupplier(c *gin.Context) {
	if err := h.suppliers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h HandlerSet) AdminAddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	author := "Admin"
	if user, ok := middleware.CurrentUser(c); ok && user.Name != "" {
		author = user.Name
	}

	comment, err := h.suppliers.AddComment(c.Request.Context(), c.Param("id"), models.CommentInput{
		Text:   req.Text,
		Author: author,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h HandlerSet) AdminStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Admin())
}

func (h HandlerSet) AdminExport(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exports.WriteWorkbook(&buf); err != nil {
		h.respondError(c, apperrors.NewInternal("export workbook", err))
		return
	}

	filename := fmt.Sprintf("fornecedores_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
