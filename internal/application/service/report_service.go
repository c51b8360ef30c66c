package service

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/gleeworld/approvals/internal/application/port"
	domainwf "github.com/gleeworld/approvals/internal/domain/workflow"
)

// ReportService builds the Excel export of requests and their decisions,
// used by the board for attendance and ticket accounting
type ReportService interface {
	BuildRequestReport(ctx context.Context, filter port.RequestFilter) (*excelize.File, error)
}

type reportServiceImpl struct {
	requestRepo port.RequestRepository
	logger      Logger
}

// NewReportService creates a new ReportService
func NewReportService(requestRepo port.RequestRepository, logger Logger) ReportService {
	return &reportServiceImpl{
		requestRepo: requestRepo,
		logger:      logger,
	}
}

const reportSheet = "Requests"

var reportHeaders = []string{
	"ID", "Kind", "Requester", "Event", "Status",
	"Forwarded By", "Forwarded At", "Reviewed By", "Reviewed At",
	"Decision Notes", "Submitted At",
}

// BuildRequestReport writes one row per request plus a per-state summary
func (s *reportServiceImpl) BuildRequestReport(ctx context.Context, filter port.RequestFilter) (*excelize.File, error) {
	if filter.Limit <= 0 {
		filter.Limit = 1000
	}
	requests, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", reportSheet)

	for i, h := range reportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(reportSheet, cell, h); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	counts := map[string]int{}
	for i, req := range requests {
		row := i + 2
		counts[req.Status]++

		values := []interface{}{
			req.ID,
			string(req.Kind),
			req.RequesterID,
			req.EventID,
			req.Status,
			deref(req.ForwardedBy),
			formatTime(req.ForwardedAt),
			deref(req.ReviewedBy),
			formatTime(req.ReviewedAt),
			req.AdminNotes,
			req.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(reportSheet, cell, v); err != nil {
				return nil, fmt.Errorf("write row %d: %w", row, err)
			}
		}
	}

	// Summary sheet with a count per workflow state.
	const summarySheet = "Summary"
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	states := []domainwf.State{
		domainwf.StatePending, domainwf.StateForwarded, domainwf.StateReturned,
		domainwf.StateApproved, domainwf.StateDenied,
	}
	f.SetCellValue(summarySheet, "A1", "State")
	f.SetCellValue(summarySheet, "B1", "Count")
	for i, st := range states {
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+2), st.String())
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+2), counts[st.String()])
	}
	f.SetCellValue(summarySheet, "A8", "Generated")
	f.SetCellValue(summarySheet, "B8", time.Now().Format(time.RFC3339))

	s.logger.Info("Request report built", "rows", len(requests))
	return f, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// Verify interface compliance
var _ ReportService = (*reportServiceImpl)(nil)
