package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"civitrack-service/internal/http/middleware"
	"civitrack-service/internal/model"
	"civitrack-service/internal/service"
)

type Handler struct {
	violationService *service.ViolationService
	appealService    *service.AppealService
	reportService    *service.ReportService
	log              zerolog.Logger
}

func NewHandler(
	violationService *service.ViolationService,
	appealService *service.AppealService,
	reportService *service.ReportService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		violationService: violationService,
		appealService:    appealService,
		reportService:    reportService,
		log:              log,
	}
}

func (h *Handler) listViolations(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	opts, err := parseViolationQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	records, err := h.violationService.List(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": records}))
}

func (h *Handler) getViolation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid violation id"))
		return
	}

	details, err := h.violationService.GetDetails(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(details))
}

func (h *Handler) createViolation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		OwnerID      string `json:"owner_id" binding:"required"`
		Type         string `json:"type" binding:"required"`
		OccurredAt   string `json:"occurred_at"`
		Location     string `json:"location"`
		FineAmount   int64  `json:"fine_amount" binding:"required"`
		LawReference string `json:"law_reference"`
		EvidenceURL  string `json:"evidence_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	ownerID, err := uuid.Parse(strings.TrimSpace(req.OwnerID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid owner_id"))
		return
	}

	input := service.CreateViolationInput{
		OwnerID:      ownerID,
		Type:         model.ViolationType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Location:     req.Location,
		FineAmount:   req.FineAmount,
		LawReference: req.LawReference,
		EvidenceURL:  req.EvidenceURL,
	}
	if req.OccurredAt != "" {
		ts, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid occurred_at"))
			return
		}
		input.OccurredAt = ts
	}

	violation, err := h.violationService.Create(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(violation))
}

func (h *Handler) payViolation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid violation id"))
		return
	}

	violation, err := h.violationService.Pay(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(violation))
}

func (h *Handler) createAppeal(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	violationID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid violation id"))
		return
	}

	var req struct {
		Reason      string              `json:"reason" binding:"required"`
		Attachments []AttachmentPayload `json:"attachments"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	appeal, err := h.appealService.Submit(c.Request.Context(), principal, violationID, req.Reason, convertAttachmentPayloads(req.Attachments))
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(appealRecord(appeal)))
}

func (h *Handler) listAppeals(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	opts, err := parseAppealQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	appeals, err := h.appealService.List(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	records := make([]model.AppealRecord, 0, len(appeals))
	for i := range appeals {
		records = append(records, appealRecord(&appeals[i]))
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": records}))
}

func (h *Handler) getAppeal(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid appeal id"))
		return
	}

	appeal, err := h.appealService.Get(c.Request.Context(), principal, id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(appealRecord(appeal)))
}

func (h *Handler) addAppealComment(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	appealID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid appeal id"))
		return
	}

	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	if err := h.appealService.AddComment(c.Request.Context(), principal, appealID, req.Message); err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"status": "commented"}))
}

func (h *Handler) createReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	var req struct {
		Type       string `json:"type" binding:"required"`
		Location   string `json:"location"`
		MediaURL   string `json:"media_url" binding:"required"`
		OccurredAt string `json:"occurred_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.SubmitReportInput{
		Type:     model.ViolationType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Location: req.Location,
		MediaURL: req.MediaURL,
	}
	if req.OccurredAt != "" {
		ts, err := time.Parse(time.RFC3339, req.OccurredAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid occurred_at"))
			return
		}
		input.OccurredAt = ts
	}

	report, err := h.reportService.Submit(c.Request.Context(), principal, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(report))
}

func (h *Handler) listReports(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	opts := service.ListReportsOptions{}
	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			opts.Statuses = append(opts.Statuses, model.ReportStatus(strings.ToUpper(val)))
		}
	}
	opts.Limit, opts.Offset = parsePagination(c)

	reports, err := h.reportService.List(c.Request.Context(), principal, opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(gin.H{"items": reports}))
}

func (h *Handler) decideReport(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	reportID, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid report id"))
		return
	}

	var req struct {
		Action       string `json:"action" binding:"required"`
		OffenderID   string `json:"offender_id"`
		FineAmount   int64  `json:"fine_amount"`
		LawReference string `json:"law_reference"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.ReportDecisionInput{
		FineAmount:   req.FineAmount,
		LawReference: req.LawReference,
	}
	switch strings.ToUpper(strings.TrimSpace(req.Action)) {
	case "APPROVE":
		input.Approve = true
		offenderID, err := uuid.Parse(strings.TrimSpace(req.OffenderID))
		if err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("invalid offender_id"))
			return
		}
		input.OffenderID = offenderID
	case "REJECT":
	default:
		c.JSON(http.StatusBadRequest, errorResponse("invalid action"))
		return
	}

	report, err := h.reportService.Decide(c.Request.Context(), principal, reportID, input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(report))
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch err {
	case service.ErrPermissionDenied:
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case service.ErrInvalidInput:
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	case service.ErrNotFound:
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case service.ErrConflict:
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	case service.ErrInvalidStatus:
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

func parseViolationQuery(c *gin.Context) (service.ListViolationsOptions, error) {
	var opts service.ListViolationsOptions

	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			opts.Statuses = append(opts.Statuses, model.ViolationStatus(strings.ToUpper(val)))
		}
	}
	if typeParam := c.Query("type"); typeParam != "" {
		for _, val := range splitCSV(typeParam) {
			opts.Types = append(opts.Types, model.ViolationType(strings.ToUpper(val)))
		}
	}
	if ownerID := strings.TrimSpace(c.Query("owner_id")); ownerID != "" {
		id, err := uuid.Parse(ownerID)
		if err != nil {
			return opts, err
		}
		opts.OwnerID = &id
	}
	if dateFrom := strings.TrimSpace(c.Query("date_from")); dateFrom != "" {
		ts, err := time.Parse(time.RFC3339, dateFrom)
		if err != nil {
			return opts, err
		}
		opts.DateFrom = &ts
	}
	if dateTo := strings.TrimSpace(c.Query("date_to")); dateTo != "" {
		ts, err := time.Parse(time.RFC3339, dateTo)
		if err != nil {
			return opts, err
		}
		opts.DateTo = &ts
	}
	opts.Limit, opts.Offset = parsePagination(c)

	return opts, nil
}

func parseAppealQuery(c *gin.Context) (service.AppealListOptions, error) {
	var opts service.AppealListOptions

	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			opts.Statuses = append(opts.Statuses, model.AppealStatus(strings.ToUpper(val)))
		}
	}
	if violationID := strings.TrimSpace(c.Query("violation_id")); violationID != "" {
		id, err := uuid.Parse(violationID)
		if err != nil {
			return opts, err
		}
		opts.ViolationID = &id
	}
	opts.Limit, opts.Offset = parsePagination(c)

	return opts, nil
}

func parsePagination(c *gin.Context) (limit, offset int) {
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}
	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			offset = v
		}
	}
	return limit, offset
}

type AttachmentPayload struct {
	FileURL string `json:"file_url" binding:"required"`
}

func convertAttachmentPayloads(payloads []AttachmentPayload) []service.AttachmentInput {
	result := make([]service.AttachmentInput, 0, len(payloads))
	for _, p := range payloads {
		result = append(result, service.AttachmentInput{FileURL: p.FileURL})
	}
	return result
}

func appealRecord(appeal *model.Appeal) model.AppealRecord {
	return model.AppealRecord{
		Appeal:       *appeal,
		FinalVerdict: appeal.FinalVerdict(),
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
