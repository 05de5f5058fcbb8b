package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/andre-sptr/sitiket-sub000/internal/core/domain"
	apperrors "github.com/andre-sptr/sitiket-sub000/internal/core/errors"
	"github.com/andre-sptr/sitiket-sub000/internal/core/ports"
)

const exportTimeLayout = "2006-01-02 15:04"

// ReportService builds the aggregate overview and the spreadsheet exports.
type ReportService struct {
	ticketRepo  ports.TicketRepository
	reportRepo  ports.ReportRepository
	authzSvc    ports.AuthorizationService
	settingsSvc ports.SettingsService
	lookupSvc   ports.UserLookupService
	now         func() time.Time
}

var _ ports.ReportService = (*ReportService)(nil)

// NewReportService creates a new report service.
func NewReportService(
	ticketRepo ports.TicketRepository,
	reportRepo ports.ReportRepository,
	authzSvc ports.AuthorizationService,
	settingsSvc ports.SettingsService,
	lookupSvc ports.UserLookupService,
) *ReportService {
	return &ReportService{
		ticketRepo:  ticketRepo,
		reportRepo:  reportRepo,
		authzSvc:    authzSvc,
		settingsSvc: settingsSvc,
		lookupSvc:   lookupSvc,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service clock. Test hook.
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// Overview returns the aggregate bundle for the statistics endpoint.
func (s *ReportService) Overview(ctx context.Context, viewerID uuid.UUID, days int) (*domain.ReportOverview, error) {
	if err := s.requirePermission(ctx, viewerID, "reports:read"); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 30
	}

	statusCounts, err := s.reportRepo.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.reportRepo.CategoryPerformance(ctx)
	if err != nil {
		return nil, err
	}
	traffic, err := s.reportRepo.DailyTraffic(ctx, days)
	if err != nil {
		return nil, err
	}
	total, err := s.reportRepo.TotalTickets(ctx)
	if err != nil {
		return nil, err
	}

	return &domain.ReportOverview{
		StatusCounts: statusCounts,
		Categories:   categories,
		Traffic:      traffic,
		TotalTickets: total,
	}, nil
}

// BuildRawExport produces a one-row-per-ticket workbook honoring the same
// filter vocabulary as the listing, with the derived fields written out as
// the user sees them on screen.
func (s *ReportService) BuildRawExport(ctx context.Context, viewerID uuid.UUID, filter domain.TicketFilter) (*excelize.File, error) {
	if err := s.requirePermission(ctx, viewerID, "reports:export"); err != nil {
		return nil, err
	}

	tickets, err := s.ticketRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	_, err = s.settingsSvc.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	fctx := domain.FilterContext{RelatedFlags: domain.RelatedIncidentFlags(tickets)}
	fctx.CreatorNames, err = s.creatorNames(ctx, tickets)
	if err != nil {
		return nil, err
	}

	filtered := domain.FilterTickets(tickets, filter, fctx)
	domain.SortTickets(filtered, domain.SortNewestFirst, s.now())

	f := excelize.NewFile()
	sheet := "Tickets"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{
		"Incident Number", "Site Code", "Site Name", "Datek Code", "Location",
		"Provider", "Category", "Distance Range", "Team", "Technicians",
		"Status", "Open Time", "TTR Target (h)", "Deadline",
		"Remaining TTR", "TTR Real (h)", "Compliance", "GAUL",
		"Cause", "Remedy", "Obstacle", "Created By",
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}
	f.SetColWidth(sheet, "A", "V", 18)

	now := s.now()
	for row, t := range filtered {
		snap := t.TTRAt(now)
		gaul := ""
		if fctx.RelatedFlags[t.ID.String()] {
			gaul = "GAUL"
		}
		realHours := ""
		if t.TTRRealHours != nil {
			realHours = fmt.Sprintf("%.2f", *t.TTRRealHours)
		}

		values := []interface{}{
			t.IncidentNumber, t.SiteCode, t.SiteName, t.DatekCode, t.Location,
			t.Provider, t.Category, t.DistanceRange, t.Team, strings.Join(t.Technicians, ", "),
			string(t.DisplayStatus()), t.JamOpen.Format(exportTimeLayout), t.TTRTargetHours,
			t.MaxJamClose.Format(exportTimeLayout),
			domain.FormatHours(snap.RemainingHours), realHours, string(snap.Compliance), gaul,
			t.Cause, t.Remedy, t.Obstacle, fctx.CreatorNames[t.CreatedBy],
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	return f, nil
}

// BuildSummaryExport produces a workbook with the status breakdown, the
// per-category performance and the daily traffic, one sheet each.
func (s *ReportService) BuildSummaryExport(ctx context.Context, viewerID uuid.UUID, days int) (*excelize.File, error) {
	if err := s.requirePermission(ctx, viewerID, "reports:export"); err != nil {
		return nil, err
	}

	overview, err := s.Overview(ctx, viewerID, days)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	sheetStatus := "Status Breakdown"
	f.SetSheetName("Sheet1", sheetStatus)
	writeHeader(f, sheetStatus, headerStyle, "Status", "Count")
	for i, sc := range overview.StatusCounts {
		f.SetCellValue(sheetStatus, fmt.Sprintf("A%d", i+2), string(sc.Status))
		f.SetCellValue(sheetStatus, fmt.Sprintf("B%d", i+2), sc.Count)
	}
	f.SetCellValue(sheetStatus, fmt.Sprintf("A%d", len(overview.StatusCounts)+3), "Total")
	f.SetCellValue(sheetStatus, fmt.Sprintf("B%d", len(overview.StatusCounts)+3), overview.TotalTickets)
	f.SetColWidth(sheetStatus, "A", "B", 24)

	sheetCategories := "Category Performance"
	f.NewSheet(sheetCategories)
	writeHeader(f, sheetCategories, headerStyle,
		"Category", "Total", "Closed", "Avg Real TTR (h)", "Comply Rate (%)")
	for i, cp := range overview.Categories {
		row := i + 2
		f.SetCellValue(sheetCategories, fmt.Sprintf("A%d", row), cp.Category)
		f.SetCellValue(sheetCategories, fmt.Sprintf("B%d", row), cp.Total)
		f.SetCellValue(sheetCategories, fmt.Sprintf("C%d", row), cp.Closed)
		f.SetCellValue(sheetCategories, fmt.Sprintf("D%d", row), fmt.Sprintf("%.2f", cp.AvgRealHours))
		f.SetCellValue(sheetCategories, fmt.Sprintf("E%d", row), fmt.Sprintf("%.1f", cp.ComplyRate*100))
	}
	f.SetColWidth(sheetCategories, "A", "E", 20)

	sheetTraffic := "Daily Traffic"
	f.NewSheet(sheetTraffic)
	writeHeader(f, sheetTraffic, headerStyle, "Day", "Tickets Opened")
	for i, tp := range overview.Traffic {
		row := i + 2
		f.SetCellValue(sheetTraffic, fmt.Sprintf("A%d", row), tp.Day.Format("2006-01-02"))
		f.SetCellValue(sheetTraffic, fmt.Sprintf("B%d", row), tp.Count)
	}
	f.SetColWidth(sheetTraffic, "A", "B", 18)

	return f, nil
}

func writeHeader(f *excelize.File, sheet string, style int, headers ...string) {
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
	}
}

func (s *ReportService) requirePermission(ctx context.Context, userID uuid.UUID, permission string) error {
	allowed, err := s.authzSvc.Can(ctx, userID, permission)
	if err != nil {
		return err
	}
	if !allowed {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *ReportService) creatorNames(ctx context.Context, tickets []*domain.Ticket) (map[uuid.UUID]string, error) {
	ids := make([]uuid.UUID, 0, len(tickets))
	for _, t := range tickets {
		ids = append(ids, t.CreatedBy)
	}
	infos, err := s.lookupSvc.GetUserInfo(ctx, ids)
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(infos))
	for id, info := range infos {
		names[id] = info.FullName
	}
	return names, nil
}
