package stats

import (
	"math"

	"github.com/spec-kit/ticket-admin/internal/domain"
)

// Summary aggregates a ticket collection for the dashboard header.
//
// The four status counters only cover the canonical states; tickets with an
// unknown status contribute to Total but to none of the counters, so the
// counters sum to at most Total. AvgCompletionDays is nil when no completed
// ticket has a computable duration; nil means "no data", not zero.
type Summary struct {
	Total             int
	Pending           int
	InProgress        int
	Done              int
	Cancelled         int
	AvgCompletionDays *float64
}

// Summarize derives counts and the average completion time for a collection
// of tickets. The average covers only tickets whose status is exactly
// "Hoàn thành" and whose requested/completed dates both parse; records with
// missing or malformed dates are skipped, never aborting the aggregation.
// The average is rounded to one decimal, half away from zero.
func Summarize(tickets []domain.Ticket) Summary {
	s := Summary{Total: len(tickets)}

	var sum, n int
	for i := range tickets {
		t := &tickets[i]
		switch t.Status {
		case domain.TicketStatusPending:
			s.Pending++
		case domain.TicketStatusInProgress:
			s.InProgress++
		case domain.TicketStatusDone:
			s.Done++
		case domain.TicketStatusCancelled:
			s.Cancelled++
		}
		if t.Status != domain.TicketStatusDone {
			continue
		}
		if days, ok := Days(t.RequestedAt, t.CompletedAt); ok {
			sum += days
			n++
		}
	}

	if n > 0 {
		avg := math.Round(float64(sum)/float64(n)*10) / 10
		s.AvgCompletionDays = &avg
	}
	return s
}
