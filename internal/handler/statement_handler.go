package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"statement-engine/internal/domain"
	"statement-engine/internal/service"
	"statement-engine/pkg/logger"
	"statement-engine/pkg/response"
)

type StatementHandler struct {
	service     service.StatementService
	defaultMode domain.BalanceMode
	maxUploadMB int64
}

func NewStatementHandler(svc service.StatementService, defaultMode domain.BalanceMode, maxUploadMB int64) *StatementHandler {
	return &StatementHandler{
		service:     svc,
		defaultMode: defaultMode,
		maxUploadMB: maxUploadMB,
	}
}

// Upload godoc
// @Summary Upload a bank statement
// @Description Upload a CSV or XLSX statement export. Each client keeps exactly one current statement; re-uploading replaces it.
// @Tags statement
// @Accept multipart/form-data
// @Produce json
// @Param statement formData file true "Statement file (CSV or XLSX)"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 500 {object} response.Response
// @Router /api/v1/statement/upload [post]
func (h *StatementHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("statement")
	if err != nil {
		response.BadRequest(c, "Missing statement file", "Provide a multipart field named 'statement'")
		return
	}

	if fileHeader.Size > h.maxUploadMB*1024*1024 {
		response.BadRequest(c, "Statement file too large", "Reduce the file size or raise MAX_UPLOAD_MB")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, "Failed to read upload", err.Error())
		return
	}
	defer src.Close()

	upload, err := h.service.SaveUpload(c.ClientIP(), fileHeader.Filename, src)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to save upload")
		response.InternalError(c, "Failed to save upload", err.Error())
		return
	}

	response.Success(c, http.StatusCreated, "Statement uploaded successfully", upload)
}

// GetTable godoc
// @Summary Get the enriched transaction table
// @Description Returns every statement row with its classified payment method and decoded fields, plus any row-level errors.
// @Tags statement
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/statement/table [get]
func (h *StatementHandler) GetTable(c *gin.Context) {
	report, err := h.service.GetTable(c.ClientIP())
	if !h.handleReportErr(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Statement table retrieved", report)
}

// GetMethodSummary godoc
// @Summary Get payment-method share
// @Description Returns the transaction count per payment method, suitable for a proportion chart.
// @Tags statement
// @Produce json
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/statement/methods [get]
func (h *StatementHandler) GetMethodSummary(c *gin.Context) {
	report, err := h.service.GetMethodSummary(c.ClientIP())
	if !h.handleReportErr(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Method summary retrieved", report)
}

// GetMonthlySeries godoc
// @Summary Get the monthly series
// @Description Returns chronologically ordered month buckets with credit/debit totals and an end balance, suitable for a time-series chart.
// @Tags statement
// @Produce json
// @Param balance_mode query string false "End-balance derivation" Enums(reported, reconstructed)
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/statement/monthly [get]
func (h *StatementHandler) GetMonthlySeries(c *gin.Context) {
	mode := h.defaultMode
	if raw, exists := c.GetQuery("balance_mode"); exists {
		switch domain.BalanceMode(raw) {
		case domain.BalanceReported, domain.BalanceReconstructed:
			mode = domain.BalanceMode(raw)
		default:
			response.BadRequest(c, "Invalid balance_mode", "Use 'reported' or 'reconstructed'")
			return
		}
	}

	report, err := h.service.GetMonthlySeries(c.ClientIP(), mode)
	if !h.handleReportErr(c, err) {
		return
	}
	response.Success(c, http.StatusOK, "Monthly series retrieved", report)
}

// handleReportErr writes the error response for a failed report call and
// reports whether processing may continue.
func (h *StatementHandler) handleReportErr(c *gin.Context, err error) bool {
	if err == nil {
		return true
	}

	var formatErr *domain.InputFormatError
	switch {
	case errors.Is(err, service.ErrNoUpload):
		response.NotFound(c, "No statement uploaded yet")
	case errors.As(err, &formatErr):
		response.UnprocessableInput(c, formatErr.Reason)
	default:
		logger.GetLogger().WithError(err).Error("Failed to process statement")
		response.InternalError(c, "Failed to process statement", err.Error())
	}
	return false
}
