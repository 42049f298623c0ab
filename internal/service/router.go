package service

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/evelane/tabsplit/internal/auth"
	"github.com/evelane/tabsplit/internal/metrics"
	"github.com/evelane/tabsplit/internal/middleware"
	"github.com/evelane/tabsplit/internal/storage"
)

// NewRouter builds the HTTP router: public auth routes, the
// authenticated API, and the health and metrics endpoints.
func NewRouter(store storage.Store, jwtManager *auth.JWTManager, logger *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS())

	authenticator := auth.NewPasswordAuthenticator(store)
	authSvc := NewAuthService(authenticator, jwtManager, store, logger)
	friendSvc := NewFriendService(store)
	groupSvc := NewGroupService(store)
	receiptSvc := NewReceiptService(store)
	splitSvc := NewSplitService(store)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/api/v1")
	v1.POST("/auth/register", authSvc.Register)
	v1.POST("/auth/login", authSvc.Login)

	authed := v1.Group("", middleware.RequireAuth(jwtManager))
	authed.GET("/auth/me", authSvc.Me)

	authed.GET("/friends", friendSvc.List)
	authed.POST("/friends", friendSvc.Create)
	authed.DELETE("/friends/:id", friendSvc.Delete)

	authed.GET("/groups", groupSvc.List)
	authed.POST("/groups", groupSvc.Create)
	authed.DELETE("/groups/:id", groupSvc.Delete)

	authed.POST("/receipts", receiptSvc.Create)
	authed.POST("/receipts/import", receiptSvc.Import)
	authed.GET("/receipts", receiptSvc.List)
	authed.GET("/receipts/:id", receiptSvc.Get)
	authed.PUT("/receipts/:id", receiptSvc.Update)
	authed.DELETE("/receipts/:id", receiptSvc.Delete)

	authed.POST("/receipts/:id/split", splitSvc.Compute)
	authed.GET("/receipts/:id/split", splitSvc.Get)
	authed.DELETE("/receipts/:id/split", splitSvc.Clear)
	authed.POST("/split/preview", splitSvc.Preview)

	return r
}
