package dto

import (
	"time"

	"github.com/spec-kit/ticket-admin/internal/domain"
	"github.com/spec-kit/ticket-admin/internal/stats"
)

// TicketRequest payload for create and update. Field names follow the
// stored column names; dates are "YYYY-MM-DD" strings.
type TicketRequest struct {
	PhanLoai        string `json:"phan_loai"`
	NenTang         string `json:"nen_tang"`
	NoiDung         string `json:"noi_dung"`
	UuTien          string `json:"uu_tien"`
	TrangThai       string `json:"trang_thai"`
	ThoiHanMongMuon string `json:"thoi_han_mong_muon"`
	NgayHoanThanh   string `json:"ngay_hoan_thanh"`
	GhiChu          string `json:"ghi_chu"`
	Link            string `json:"link"`
}

// TicketResponse is a single ticket on the wire.
type TicketResponse struct {
	ID              int64   `json:"id"`
	PhanLoai        string  `json:"phan_loai"`
	NenTang         string  `json:"nen_tang"`
	NoiDung         string  `json:"noi_dung"`
	UuTien          string  `json:"uu_tien"`
	TrangThai       string  `json:"trang_thai"`
	ThoiHanMongMuon *string `json:"thoi_han_mong_muon"`
	NgayYeuCau      string  `json:"ngay_yeu_cau"`
	NgayHoanThanh   *string `json:"ngay_hoan_thanh"`
	GhiChu          *string `json:"ghi_chu"`
	Link            *string `json:"link"`
	CreatedBy       *int64  `json:"created_by"`
	Project         *string `json:"project"`
	// CompletionDays is derived, present only when both dates are usable.
	CompletionDays *int `json:"completion_days,omitempty"`
}

// TicketListResponse wraps a listing. Warning is set when project scoping
// was skipped because the store schema predates the project column.
type TicketListResponse struct {
	Data    []TicketResponse `json:"data"`
	Warning string           `json:"warning,omitempty"`
}

// TicketStatsResponse reports the aggregated counters. AvgCompletionDays is
// null when no completed ticket has a computable duration.
type TicketStatsResponse struct {
	Total             int      `json:"total"`
	Pending           int      `json:"cho_xu_ly"`
	InProgress        int      `json:"dang_xu_ly"`
	Done              int      `json:"hoan_thanh"`
	Cancelled         int      `json:"huy_bo"`
	AvgCompletionDays *float64 `json:"avg_completion_days"`
	Warning           string   `json:"warning,omitempty"`
}

const dateLayout = "2006-01-02"

// FromTicket converts a domain ticket for the wire.
func FromTicket(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		ID:         t.ID,
		PhanLoai:   string(t.Category),
		NenTang:    string(t.Platform),
		NoiDung:    t.Content,
		UuTien:     string(t.Priority),
		TrangThai:  string(t.Status),
		NgayYeuCau: t.RequestedAt.Format(dateLayout),
		GhiChu:     t.Note,
		Link:       t.Link,
		CreatedBy:  t.CreatedBy,
		Project:    t.Project,
	}
	resp.ThoiHanMongMuon = formatDate(t.DueDate)
	resp.NgayHoanThanh = formatDate(t.CompletedAt)
	if days, ok := stats.Days(t.RequestedAt, t.CompletedAt); ok {
		resp.CompletionDays = &days
	}
	return resp
}

// FromTickets converts a slice of tickets.
func FromTickets(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, FromTicket(&tickets[i]))
	}
	return items
}

// FromSummary converts an aggregation result.
func FromSummary(s stats.Summary, warning string) TicketStatsResponse {
	return TicketStatsResponse{
		Total:             s.Total,
		Pending:           s.Pending,
		InProgress:        s.InProgress,
		Done:              s.Done,
		Cancelled:         s.Cancelled,
		AvgCompletionDays: s.AvgCompletionDays,
		Warning:           warning,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
