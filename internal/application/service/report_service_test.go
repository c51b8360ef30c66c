package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gleeworld/approvals/internal/application/port"
	"github.com/gleeworld/approvals/internal/domain/entity"
)

func TestReportService_BuildRequestReport(t *testing.T) {
	repo := newMockRequestRepo()
	svc := NewReportService(repo, noopLogger{})

	reviewedBy := "director-1"
	reviewedAt := time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)
	repo.requests["req-1"] = &entity.Request{
		ID:          "req-1",
		Kind:        entity.KindExcuse,
		RequesterID: "member-1",
		EventID:     "spring-concert",
		Status:      "approved",
		ReviewedBy:  &reviewedBy,
		ReviewedAt:  &reviewedAt,
		AdminNotes:  "approved with makeup rehearsal",
		CreatedAt:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
	}

	f, err := svc.BuildRequestReport(context.Background(), port.RequestFilter{})
	require.NoError(t, err)
	require.NotNil(t, f)

	header, err := f.GetCellValue("Requests", "A1")
	require.NoError(t, err)
	assert.Equal(t, "ID", header)

	id, err := f.GetCellValue("Requests", "A2")
	require.NoError(t, err)
	assert.Equal(t, "req-1", id)

	status, err := f.GetCellValue("Requests", "E2")
	require.NoError(t, err)
	assert.Equal(t, "approved", status)

	reviewer, err := f.GetCellValue("Requests", "H2")
	require.NoError(t, err)
	assert.Equal(t, "director-1", reviewer)

	notes, err := f.GetCellValue("Requests", "J2")
	require.NoError(t, err)
	assert.Equal(t, "approved with makeup rehearsal", notes)
}

func TestReportService_BuildRequestReport_Summary(t *testing.T) {
	repo := newMockRequestRepo()
	svc := NewReportService(repo, noopLogger{})

	for i, status := range []string{"pending", "pending", "approved"} {
		id := string(rune('a' + i))
		repo.requests[id] = &entity.Request{
			ID: id, Kind: entity.KindTicket, RequesterID: "member-1",
			EventID: "gala", Status: status, CreatedAt: time.Now(),
		}
	}

	f, err := svc.BuildRequestReport(context.Background(), port.RequestFilter{})
	require.NoError(t, err)

	label, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "pending", label)

	count, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2", count)

	approvedCount, err := f.GetCellValue("Summary", "B5")
	require.NoError(t, err)
	assert.Equal(t, "1", approvedCount)
}

func TestReportService_BuildRequestReport_Empty(t *testing.T) {
	repo := newMockRequestRepo()
	svc := NewReportService(repo, noopLogger{})

	f, err := svc.BuildRequestReport(context.Background(), port.RequestFilter{})
	require.NoError(t, err)

	// Header row only, no data rows.
	rows, err := f.GetRows("Requests")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestReportService_BuildRequestReport_DefaultLimit(t *testing.T) {
	repo := newMockRequestRepo()
	svc := NewReportService(repo, noopLogger{})

	_, err := svc.BuildRequestReport(context.Background(), port.RequestFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1000, repo.lastFilter.Limit)
}
