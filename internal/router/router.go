package router

import (
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"cloudquote/internal/handler"
	"cloudquote/internal/middleware"
	"cloudquote/internal/service"
)

// New assembles the HTTP router. db may be nil when persistence is off.
func New(mode string, svc service.QuotationService, db *sqlx.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS())

	health := handler.NewHealthHandler(db)
	r.GET("/healthz", health.Live)
	r.GET("/readyz", health.Ready)

	quotations := handler.NewQuotationHandler(svc, logger)
	regions := handler.NewRegionHandler()

	v1 := r.Group("/api/v1")
	{
		v1.POST("/quotations", quotations.Create)
		v1.GET("/quotations", quotations.List)
		v1.GET("/quotations/:id", quotations.Get)
		v1.GET("/quotations/:id/export", quotations.Export)
		v1.GET("/regions", regions.List)
	}
	return r
}
