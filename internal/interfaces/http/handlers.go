package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fieldsales/visitform/internal/domain/entity"
	"github.com/fieldsales/visitform/internal/domain/failure"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers contains all HTTP request handlers
type Handlers struct {
	services Services
	location *time.Location
	logger   Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(services Services, location *time.Location, logger Logger) *Handlers {
	return &Handlers{
		services: services,
		location: location,
		logger:   logger,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// sendMailRequest mirrors entity.Submission with presence tracking
type sendMailRequest struct {
	ClientNumber     *string  `json:"client_number" binding:"required"`
	ClientName       *string  `json:"client_name" binding:"required"`
	Latitude         *float64 `json:"latitude" binding:"required"`
	Longitude        *float64 `json:"longitude" binding:"required"`
	SalespersonName  *string  `json:"salesperson_name" binding:"required"`
	SalespersonPhone *string  `json:"salesperson_phone" binding:"required"`
}

func (r sendMailRequest) submission() entity.Submission {
	return entity.Submission{
		ClientNumber:     *r.ClientNumber,
		ClientName:       *r.ClientName,
		Latitude:         *r.Latitude,
		Longitude:        *r.Longitude,
		SalespersonName:  *r.SalespersonName,
		SalespersonPhone: *r.SalespersonPhone,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// VerifyUser handles POST /api/verify-user
func (h *Handlers) VerifyUser(c *gin.Context) {
	var req entity.VerifyUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: failure.MsgInvalidNumber})
		return
	}

	sp, err := h.services.Salespeople.Verify(c.Request.Context(), req.UserPhoneNumber)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, entity.VerifyUserResponse{User: sp})
}

// SendMail handles POST /api/send-mail
func (h *Handlers) SendMail(c *gin.Context) {
	var req sendMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{
			Error: fmt.Sprintf(failure.MsgInvalidSubmissionFmt, "faltan campos"),
		})
		return
	}

	if _, err := h.services.Visits.Register(c.Request.Context(), req.submission()); err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{})
}

// ExportVisits handles GET /api/visits/export?from=YYYY-MM-DD&to=YYYY-MM-DD.
// Both days are inclusive; to defaults to from.
func (h *Handlers) ExportVisits(c *gin.Context) {
	from, err := time.ParseInLocation(time.DateOnly, c.Query("from"), h.location)
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: failure.MsgInvalidDateRange})
		return
	}

	to := from
	if raw := c.Query("to"); raw != "" {
		to, err = time.ParseInLocation(time.DateOnly, raw, h.location)
		if err != nil {
			c.JSON(http.StatusBadRequest, entity.ErrorResponse{Error: failure.MsgInvalidDateRange})
			return
		}
	}

	data, err := h.services.Reports.Export(c.Request.Context(), from, to.AddDate(0, 0, 1))
	if err != nil {
		h.writeError(c, err)
		return
	}

	filename := fmt.Sprintf("visitas-%s-%s.xlsx", from.Format(time.DateOnly), to.Format(time.DateOnly))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// writeError answers {"error": ...} with the status of the failure kind
func (h *Handlers) writeError(c *gin.Context, err error) {
	status := statusFor(failure.KindOf(err))
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.Request.URL.Path, "status", status, "error", err)
	}
	c.JSON(status, entity.ErrorResponse{Error: failure.MessageOf(err, failure.MsgServerError)})
}

func statusFor(kind failure.Kind) int {
	switch kind {
	case failure.KindValidation:
		return http.StatusBadRequest
	case failure.KindUnauthorized:
		return http.StatusForbidden
	case failure.KindNotFound:
		return http.StatusNotFound
	case failure.KindRateLimited:
		return http.StatusTooManyRequests
	case failure.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
