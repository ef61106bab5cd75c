// Package router wires the HTTP API surface.
package router

import (
	"net/http"

	"github.com/cloudbroker/backend/internal/infrastructure/logger"
	"github.com/cloudbroker/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Router assembles the gin engine with all routes and middleware
type Router struct {
	engine         *gin.Engine
	invoiceHandler *handler.InvoiceHandler
}

// New creates a router around the given handlers
func New(log *zap.Logger, invoiceHandler *handler.InvoiceHandler) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(log))

	return &Router{
		engine:         engine,
		invoiceHandler: invoiceHandler,
	}
}

// Setup registers all routes and returns the engine
func (r *Router) Setup() *gin.Engine {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.engine.Group("/api/v1")
	{
		invoices := v1.Group("/invoices")
		{
			invoices.GET("", r.invoiceHandler.List)
			invoices.GET("/:id", r.invoiceHandler.Get)
		}
	}

	return r.engine
}
