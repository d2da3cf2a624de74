package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/ticket-admin/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func donePtr(t time.Time) *time.Time { return &t }

func TestSummarizeCounts(t *testing.T) {
	tickets := []domain.Ticket{
		{Status: domain.TicketStatusPending},
		{Status: domain.TicketStatusPending},
		{Status: domain.TicketStatusInProgress},
		{Status: domain.TicketStatusDone, RequestedAt: date(2024, 1, 1), CompletedAt: donePtr(date(2024, 1, 3))},
		{Status: domain.TicketStatusCancelled},
		{Status: "Unknown state"},
	}

	s := Summarize(tickets)

	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 2, s.Pending)
	assert.Equal(t, 1, s.InProgress)
	assert.Equal(t, 1, s.Done)
	assert.Equal(t, 1, s.Cancelled)

	// The unknown status contributes to Total only.
	assert.Equal(t, s.Total-1, s.Pending+s.InProgress+s.Done+s.Cancelled)
}

func TestSummarizeCountsSumEqualsTotalForCanonicalStatuses(t *testing.T) {
	tickets := []domain.Ticket{
		{Status: domain.TicketStatusPending},
		{Status: domain.TicketStatusDone},
		{Status: domain.TicketStatusCancelled},
	}

	s := Summarize(tickets)
	assert.Equal(t, s.Total, s.Pending+s.InProgress+s.Done+s.Cancelled)
}

func TestSummarizeAverage(t *testing.T) {
	tickets := []domain.Ticket{
		// 2 days
		{Status: domain.TicketStatusDone, RequestedAt: date(2024, 1, 1), CompletedAt: donePtr(date(2024, 1, 3))},
		// 1 day
		{Status: domain.TicketStatusDone, RequestedAt: date(2024, 1, 1), CompletedAt: donePtr(date(2024, 1, 2))},
		// Done but no completion date: excluded from the average, counted as Done.
		{Status: domain.TicketStatusDone, RequestedAt: date(2024, 1, 1)},
		// Completed date set but not Done: the average keys on status only.
		{Status: domain.TicketStatusInProgress, RequestedAt: date(2024, 1, 1), CompletedAt: donePtr(date(2024, 1, 9))},
	}

	s := Summarize(tickets)

	require.NotNil(t, s.AvgCompletionDays)
	assert.Equal(t, 1.5, *s.AvgCompletionDays)
	assert.Equal(t, 3, s.Done)
}

func TestSummarizeAverageRounding(t *testing.T) {
	// 0 + 0 + 1 days over 3 tickets = 0.333... -> 0.3; the average is
	// rounded half away from zero to one decimal.
	tickets := []domain.Ticket{
		{Status: domain.TicketStatusDone, RequestedAt: date(2024, 1, 1), CompletedAt: donePtr(date(2024, 1, 1))},
		{Status: domain.TicketStatusDone, RequestedAt: date(2024, 1, 1), CompletedAt: donePtr(date(2024, 1, 1))},
		{Status: domain.TicketStatusDone, RequestedAt: date(2024, 1, 1), CompletedAt: donePtr(date(2024, 1, 2))},
	}

	s := Summarize(tickets)
	require.NotNil(t, s.AvgCompletionDays)
	assert.Equal(t, 0.3, *s.AvgCompletionDays)

	// 1 + 2 over 2 tickets = 1.5 stays 1.5.
	s = Summarize([]domain.Ticket{
		{Status: domain.TicketStatusDone, RequestedAt: date(2024, 1, 1), CompletedAt: donePtr(date(2024, 1, 2))},
		{Status: domain.TicketStatusDone, RequestedAt: date(2024, 1, 1), CompletedAt: donePtr(date(2024, 1, 3))},
	})
	require.NotNil(t, s.AvgCompletionDays)
	assert.Equal(t, 1.5, *s.AvgCompletionDays)
}

func TestSummarizeNoDataSentinel(t *testing.T) {
	// No tickets at all.
	s := Summarize(nil)
	assert.Nil(t, s.AvgCompletionDays)
	assert.Equal(t, 0, s.Total)

	// Done tickets exist but none has a computable duration: still no data,
	// never zero.
	s = Summarize([]domain.Ticket{
		{Status: domain.TicketStatusDone, RequestedAt: date(2024, 1, 1)},
		{Status: domain.TicketStatusDone, CompletedAt: donePtr(date(2024, 1, 5))},
	})
	assert.Nil(t, s.AvgCompletionDays)
	assert.Equal(t, 2, s.Done)
}
