package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	mw "github.com/andre-sptr/sitiket-sub000/internal/adapters/primary/http/middleware"
	"github.com/andre-sptr/sitiket-sub000/internal/adapters/primary/validation"
	"github.com/andre-sptr/sitiket-sub000/internal/auth"
	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

const (
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	defaultReportDays = 7
	maxReportDays     = 90
)

// ReportHandler handles HTTP requests for aggregates and spreadsheet exports.
type ReportHandler struct {
	reportService ports.ReportService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(
	reportService ports.ReportService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "report"),
	}
}

// RegisterRoutes sets up the routing for report endpoints.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/overview", h.HandleOverview)
	r.Get("/export/raw", h.HandleExportRaw)
	r.Get("/export/summary", h.HandleExportSummary)
}

// StatusCountDTO defines the per-status slice of the overview response.
type StatusCountDTO struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// CategoryPerformanceDTO defines per-category closed-ticket performance.
type CategoryPerformanceDTO struct {
	Category     string  `json:"category"`
	Total        int64   `json:"total"`
	Closed       int64   `json:"closed"`
	AvgRealHours float64 `json:"avgRealHours"`
	ComplyRate   float64 `json:"complyRate"`
}

// TrafficPointDTO defines a single day of the opened-tickets chart.
type TrafficPointDTO struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// OverviewResponse defines the JSON response for the overview endpoint.
type OverviewResponse struct {
	TotalTickets int64                    `json:"totalTickets"`
	StatusCounts []StatusCountDTO         `json:"statusCounts"`
	Categories   []CategoryPerformanceDTO `json:"categories"`
	Traffic      []TrafficPointDTO        `json:"traffic"`
}

func toOverviewResponse(overview *domain.ReportOverview) OverviewResponse {
	response := OverviewResponse{
		TotalTickets: overview.TotalTickets,
		StatusCounts: make([]StatusCountDTO, 0, len(overview.StatusCounts)),
		Categories:   make([]CategoryPerformanceDTO, 0, len(overview.Categories)),
		Traffic:      make([]TrafficPointDTO, 0, len(overview.Traffic)),
	}

	for _, sc := range overview.StatusCounts {
		response.StatusCounts = append(response.StatusCounts, StatusCountDTO{
			Status: string(sc.Status),
			Count:  sc.Count,
		})
	}
	for _, cp := range overview.Categories {
		response.Categories = append(response.Categories, CategoryPerformanceDTO{
			Category:     cp.Category,
			Total:        cp.Total,
			Closed:       cp.Closed,
			AvgRealHours: cp.AvgRealHours,
			ComplyRate:   cp.ComplyRate,
		})
	}
	for _, tp := range overview.Traffic {
		response.Traffic = append(response.Traffic, TrafficPointDTO{
			Day:   tp.Day.Format("2006-01-02"),
			Count: tp.Count,
		})
	}

	return response
}

// HandleOverview handles GET /reports/overview
func (h *ReportHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	days, err := h.parseDays(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	overview, err := h.reportService.Overview(r.Context(), claims.UserID, days)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toOverviewResponse(overview))
}

// HandleExportRaw handles GET /reports/export/raw. It accepts the same
// filter query parameters as the ticket list.
func (h *ReportHandler) HandleExportRaw(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	filter, _, err := parseTicketListQuery(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	file, err := h.reportService.BuildRawExport(r.Context(), claims.UserID, filter)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.writeWorkbook(w, r, file, fmt.Sprintf("tickets-%s.xlsx", time.Now().Format("20060102-150405")))
}

// HandleExportSummary handles GET /reports/export/summary
func (h *ReportHandler) HandleExportSummary(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	days, err := h.parseDays(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	file, err := h.reportService.BuildSummaryExport(r.Context(), claims.UserID, days)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.writeWorkbook(w, r, file, fmt.Sprintf("summary-%s.xlsx", time.Now().Format("20060102-150405")))
}

// writeWorkbook streams the workbook to the client. Headers must be set
// before the first write, so any serialization failure after that point can
// only be logged.
func (h *ReportHandler) writeWorkbook(w http.ResponseWriter, r *http.Request, file *excelize.File, filename string) {
	defer func() {
		if err := file.Close(); err != nil {
			h.logger.Warn("failed to close workbook", "error", err)
		}
	}()

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := file.Write(w); err != nil {
		h.logger.Error("failed to stream workbook",
			"error", err,
			"path", r.URL.Path,
		)
	}
}

func (h *ReportHandler) parseDays(r *http.Request) (int, error) {
	daysStr := r.URL.Query().Get("days")
	if daysStr == "" {
		return defaultReportDays, nil
	}

	days, err := strconv.Atoi(daysStr)
	if err != nil || days < 1 || days > maxReportDays {
		v := validation.NewValidator()
		v.Custom("days", false, fmt.Sprintf("Must be a number between 1 and %d", maxReportDays))
		return 0, v.Errors()
	}
	return days, nil
}

// getClaims extracts and validates user claims from the request context.
func (h *ReportHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}
