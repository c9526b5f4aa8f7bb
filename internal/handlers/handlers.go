package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gmviana11/fornecedor-conecta/internal/config"
	"github.com/gmviana11/fornecedor-conecta/internal/middleware"
	"github.com/gmviana11/fornecedor-conecta/internal/models"
	"github.com/gmviana11/fornecedor-conecta/internal/service"
	"github.com/gmviana11/fornecedor-conecta/internal/store"
)

// Deps are the services the HTTP layer is built on. Cache may be nil.
type Deps struct {
	Log       zerolog.Logger
	Config    *config.AppConfig
	Store     store.Store
	Cache     redis.UniversalClient
	Sessions  *service.SessionManager
	Suppliers *service.SupplierService
	Requests  *service.RequestService
	Leads     *service.LeadService
	Stats     *service.StatsService
	Exports   *service.ExportService
}

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	store     store.Store
	cache     redis.UniversalClient
	sessions  *service.SessionManager
	suppliers *service.SupplierService
	requests  *service.RequestService
	leads     *service.LeadService
	stats     *service.StatsService
	exports   *service.ExportService
}

func NewHandlerSet(d Deps) HandlerSet {
	return HandlerSet{
		log:       d.Log,
		cfg:       d.Config,
		store:     d.Store,
		cache:     d.Cache,
		sessions:  d.Sessions,
		suppliers: d.Suppliers,
		requests:  d.Requests,
		leads:     d.Leads,
		stats:     d.Stats,
		exports:   d.Exports,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")
	authenticated := middleware.Auth(h.sessions)

	auth := v1.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/logout", authenticated, h.Logout)
	auth.GET("/me", authenticated, h.Me)

	v1.GET("/suppliers", h.BrowseSuppliers)
	v1.GET("/suppliers/categories", h.Categories)
	v1.GET("/suppliers/:id", h.GetSupplier)
	v1.POST("/suppliers", h.RegisterSupplier)
	v1.POST("/leads", h.CaptureLead)

	admin := v1.Group("/admin")
	admin.Use(authenticated, middleware.RequireRoles(models.UserTypeSuperAdmin))
	admin.GET("/suppliers", h.AdminListSuppliers)
	admin.GET("/suppliers/:id", h.AdminGetSupplier)
	admin.PATCH("/suppliers/:id", h.AdminUpdateSupplier)
	admin.POST("/suppliers/:id/approve", h.AdminApproveSupplier)
	admin.POST("/suppliers/:id/reject", h.AdminRejectSupplier)
	admin.POST("/suppliers/:id/hide", h.AdminHideSupplier)
	admin.DELETE("/suppliers/:id", h.AdminDeleteSupplier)
	admin.POST("/suppliers/:id/comments", h.AdminAddComment)
	admin.GET("/requests", h.ListRequests)
	admin.GET("/stats", h.AdminStats)
	admin.GET("/export", h.AdminExport)

	supplier := v1.Group("/supplier")
	supplier.Use(authenticated, middleware.RequireRoles(models.UserTypeSupplier))
	supplier.GET("/profile", h.SupplierProfile)
	supplier.GET("/requests", h.ListRequests)
	supplier.GET("/requests/:id", h.GetRequest)
	supplier.POST("/requests/:id/respond", h.RespondRequest)
	supplier.POST("/requests/:id/reject", h.RejectRequest)
	supplier.POST("/requests/:id/complete", h.CompleteRequest)
	supplier.GET("/stats", h.SupplierStats)

	user := v1.Group("/user")
	user.Use(authenticated, middleware.RequireRoles(models.UserTypeUser))
	user.GET("/requests", h.ListRequests)
	user.POST("/requests", h.CreateRequest)
	user.GET("/requests/:id", h.GetRequest)
	user.POST("/requests/:id/accept", h.AcceptRequest)
	user.POST("/requests/:id/reject", h.RejectRequest)
	user.POST("/requests/:id/complete", h.CompleteRequest)
	user.POST("/requests/:id/rate", h.RateRequest)
	user.GET("/stats", h.UserStats)
}
