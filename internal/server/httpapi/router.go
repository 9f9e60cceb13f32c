// Package httpapi is the HTTP side of the ParkDesk server: a health probe
// and CSV report downloads authenticated with a bearer token.
package httpapi

import (
	"database/sql"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/logging"
	"github.com/dmitrijs2005/parkdesk/internal/server/services"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Handler holds shared dependencies for the HTTP handlers.
type Handler struct {
	db     *sql.DB
	svc    *services.Set
	logger logging.Logger
}

func NewHandler(db *sql.DB, svc *services.Set, l logging.Logger) *Handler {
	return &Handler{db: db, svc: svc, logger: l}
}

// NewRouter wires the routes. rps and burst bound every client IP.
func NewRouter(h *Handler, rps float64, burst int) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), h.requestLogger())

	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.Use(RateLimiter(rate.Limit(rps), burst), h.bearerAuth())
	{
		// GET /api/reports/transactions.csv?from=2025-01-01&to=2025-01-31
		api.GET("/reports/:file", h.ReportCSV)
	}

	return r
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Debug(c.Request.Context(), "http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
