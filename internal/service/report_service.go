package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"osas-connect/internal/dto"
	"osas-connect/internal/model"
	"osas-connect/internal/repository"
)

const upcomingInterviewDays = 7

var ErrExportGenerateFail = errors.New("failed to generate the Excel file")

// ReportService staff dashboard and spreadsheet exports.
// Exports return the workbook bytes and a suggested file name.
type ReportService interface {
	Dashboard(ctx context.Context) (*dto.DashboardResponse, error)
	ExportApplications(ctx context.Context, req *dto.ApplicationListRequest) (*bytes.Buffer, string, error)
	ExportStipends(ctx context.Context, period string) (*bytes.Buffer, string, error)
	ExportRenewals(ctx context.Context, period string) (*bytes.Buffer, string, error)
}

type reportService struct {
	repo    *repository.Repository
	periods *PeriodCalculator
	now     func() time.Time
	logger  *zap.Logger
}

// NewReportService creates a ReportService
func NewReportService(repo *repository.Repository, periods *PeriodCalculator, now func() time.Time, logger *zap.Logger) ReportService {
	return &reportService{repo: repo, periods: periods, now: now, logger: logger}
}

// ────────────────────── Dashboard ──────────────────────

func (s *reportService) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	now := s.now()
	resp := &dto.DashboardResponse{CurrentPeriod: s.periods.CurrentPeriod(now).Name}

	byStatus, err := s.repo.Application.CountGroupedByStatus(ctx)
	if err != nil {
		s.logger.Error("count applications failed", zap.Error(err))
		return nil, err
	}
	resp.ApplicationsByStatus = byStatus
	for _, n := range byStatus {
		resp.TotalApplications += n
	}

	if resp.PendingDocuments, err = s.repo.Document.CountPending(ctx); err != nil {
		return nil, err
	}
	if resp.UpcomingInterviews, err = s.repo.Interview.CountUpcoming(ctx, now, now.AddDate(0, 0, upcomingInterviewDays)); err != nil {
		return nil, err
	}
	if resp.PendingRenewals, err = s.repo.Renewal.CountByStatus(ctx, model.RenewalPending); err != nil {
		return nil, err
	}
	if resp.TotalStipendsReleased, err = s.repo.Stipend.SumReleased(ctx); err != nil {
		return nil, err
	}
	return resp, nil
}

// ────────────────────── exports ──────────────────────

func (s *reportService) ExportApplications(ctx context.Context, req *dto.ApplicationListRequest) (*bytes.Buffer, string, error) {
	apps, _, err := s.repo.Application.List(ctx, repository.ApplicationFilter{
		ScholarshipID: req.ScholarshipID,
		Status:        req.Status,
		Keyword:       req.Keyword,
	}, 0, 0)
	if err != nil {
		s.logger.Error("list applications for export failed", zap.Error(err))
		return nil, "", err
	}

	sheet := &sheetData{
		title:  "Scholarship Applications",
		header: []string{"Application ID", "Student", "Email", "Scholarship", "Type", "Status", "Submitted", "Approved", "Stipend Status", "Amount Received"},
		widths: []float64{38, 28, 32, 32, 24, 20, 14, 14, 16, 16},
	}
	for i := range apps {
		a := &apps[i]
		var email, schName, schType string
		if a.User != nil {
			email = a.User.Email
		}
		if a.Scholarship != nil {
			schName, schType = a.Scholarship.Name, a.Scholarship.Type
		}
		sheet.rows = append(sheet.rows, []interface{}{
			a.ApplicationID, fullNameOf(a.User), email, schName, schType,
			statusLabel(a.Status), dateCell(a.SubmittedAt), dateCell(a.ApprovedAt),
			a.StipendStatus, a.AmountReceived,
		})
	}

	name := "applications"
	if req.Status != "" {
		name += "_" + req.Status
	}
	return s.write(sheet, name)
}

func (s *reportService) ExportStipends(ctx context.Context, period string) (*bytes.Buffer, string, error) {
	records, err := s.repo.Stipend.List(ctx, strings.TrimSpace(period))
	if err != nil {
		s.logger.Error("list stipends for export failed", zap.Error(err))
		return nil, "", err
	}

	sheet := &sheetData{
		title:  "Stipend Releases",
		header: []string{"Stipend ID", "Student", "Scholarship", "Period", "Amount", "Released At", "Notes"},
		widths: []float64{38, 28, 32, 28, 14, 20, 40},
	}
	var total float64
	for i := range records {
		r := &records[i]
		var student, schName string
		if r.Application != nil {
			student = fullNameOf(r.Application.User)
			schName = scholarshipName(r.Application.Scholarship)
		}
		total += r.Amount
		sheet.rows = append(sheet.rows, []interface{}{
			r.StipendID, student, schName, r.Period, r.Amount,
			r.ReleasedAt.Format("2006-01-02 15:04"), r.Notes,
		})
	}
	sheet.footer = []interface{}{"", "", "", "Total", total}

	return s.write(sheet, "stipends"+fileSuffix(period))
}

func (s *reportService) ExportRenewals(ctx context.Context, period string) (*bytes.Buffer, string, error) {
	list, _, err := s.repo.Renewal.List(ctx, repository.RenewalFilter{Period: strings.TrimSpace(period)}, 0, 0)
	if err != nil {
		s.logger.Error("list renewals for export failed", zap.Error(err))
		return nil, "", err
	}

	sheet := &sheetData{
		title:  "Renewal Applications",
		header: []string{"Renewal ID", "Student", "Scholarship", "Period", "CGPA", "Status", "Submitted", "Reviewed", "Review Notes"},
		widths: []float64{38, 28, 32, 28, 10, 16, 14, 14, 40},
	}
	for i := range list {
		r := &list[i]
		sheet.rows = append(sheet.rows, []interface{}{
			r.RenewalID, fullNameOf(r.User), scholarshipName(r.Scholarship), r.RenewalPeriod,
			r.CGPA, statusLabel(r.Status), r.SubmittedAt.Format("2006-01-02"), dateCell(r.ReviewedAt), r.ReviewNotes,
		})
	}

	return s.write(sheet, "renewals"+fileSuffix(period))
}

// ── workbook ──

type sheetData struct {
	title  string
	header []string
	widths []float64
	rows   [][]interface{}
	footer []interface{}
}

const exportSheet = "Report"

// write renders a title row, a header row, the data rows and an optional footer
func (s *reportService) write(data *sheetData, baseName string) (*bytes.Buffer, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for i, w := range data.widths {
		col := colName(i)
		f.SetColWidth(exportSheet, col, col, w)
	}

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 13},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1F4E79"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	last := colName(len(data.header) - 1)
	f.SetCellValue(exportSheet, "A1", fmt.Sprintf("%s (generated %s)", data.title, s.now().Format("2006-01-02 15:04")))
	f.MergeCell(exportSheet, "A1", cell(last, 1))
	f.SetCellStyle(exportSheet, "A1", "A1", titleStyle)

	for i, h := range data.header {
		f.SetCellValue(exportSheet, cell(colName(i), 2), h)
	}
	f.SetCellStyle(exportSheet, "A2", cell(last, 2), headerStyle)

	row := 3
	for _, values := range data.rows {
		if err := f.SetSheetRow(exportSheet, cell("A", row), &values); err != nil {
			s.logger.Error("write export row failed", zap.Int("row", row), zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
		row++
	}
	if len(data.footer) > 0 {
		footer := data.footer
		f.SetSheetRow(exportSheet, cell("A", row), &footer)
		boldStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		f.SetCellStyle(exportSheet, cell("A", row), cell(last, row), boldStyle)
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write Excel failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("%s_%s.xlsx", baseName, s.now().Format("20060102"))
	return buf, filename, nil
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func dateCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func fileSuffix(period string) string {
	period = strings.TrimSpace(period)
	if period == "" {
		return ""
	}
	return "_" + strings.NewReplacer(" ", "_", "/", "-").Replace(period)
}
