package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/server/auth"
	"github.com/dmitrijs2005/parkdesk/internal/server/migrations"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/services"
	"github.com/gin-gonic/gin"
)

const dayLayout = "2006-01-02"

// Health reports liveness and the applied schema version.
func (h *Handler) Health(c *gin.Context) {
	v, err := migrations.Version(c.Request.Context(), h.db)
	if err != nil {
		h.logger.Error(c.Request.Context(), "health check failed", "error", err.Error())
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "schemaVersion": v})
}

// bearerAuth resolves "Authorization: Bearer <token>" to a Session.
func (h *Handler) bearerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		session, err := h.svc.Identity.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			h.abort(c, err)
			return
		}
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// ReportCSV streams one report as CSV. Query: from, to (YYYY-MM-DD),
// columns (comma separated keys), method, vehicleType.
func (h *Handler) ReportCSV(c *gin.Context) {
	name, ok := strings.CutSuffix(c.Param("file"), ".csv")
	if !ok || name == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown report"})
		return
	}

	var f models.ReportFilter
	var err error
	if f.DateFrom, err = parseDay(c.Query("from")); err != nil {
		h.abort(c, err)
		return
	}
	if f.DateTo, err = parseDay(c.Query("to")); err != nil {
		h.abort(c, err)
		return
	}
	f.PaymentMethod = models.PaymentMethod(c.Query("method"))
	f.VehicleType = models.VehicleType(c.Query("vehicleType"))

	var columns []string
	if raw := c.Query("columns"); raw != "" {
		for _, k := range strings.Split(raw, ",") {
			if k = strings.TrimSpace(k); k != "" {
				columns = append(columns, k)
			}
		}
	}

	ctx := c.Request.Context()
	data, err := h.svc.Reports.Fetch(ctx, models.ReportType(name), columns, f)
	if err != nil {
		h.abort(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.csv"`, name))
	c.Status(http.StatusOK)
	if err := services.WriteCSV(c.Writer, data); err != nil {
		h.logger.Error(ctx, "csv write failed", "report", name, "error", err.Error())
	}
}

// parseDay accepts an empty string as the zero day.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", common.ErrorValidation, s)
	}
	return t, nil
}

// abort writes err as a JSON error with the matching HTTP status.
func (h *Handler) abort(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, common.ErrorNotFound):
		code, msg = http.StatusNotFound, common.Message(err)
	case errors.Is(err, common.ErrorValidation):
		code, msg = http.StatusBadRequest, common.Message(err)
	case errors.Is(err, common.ErrorConflict):
		code, msg = http.StatusConflict, common.Message(err)
	case errors.Is(err, common.ErrorPermissionDenied):
		code, msg = http.StatusForbidden, common.Message(err)
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		code, msg = http.StatusUnauthorized, common.Message(err)
	default:
		h.logger.Error(c.Request.Context(), "request failed", "path", c.Request.URL.Path, "error", err.Error())
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}
