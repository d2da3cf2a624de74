package domain

import "time"

// TicketCategory classifies the kind of work a ticket tracks. Values are the
// labels stored by earlier deployments and must not be translated.
type TicketCategory string

const (
	TicketCategoryBug  TicketCategory = "Lỗi"
	TicketCategoryTask TicketCategory = "Task"
)

// TicketPlatform identifies where the work applies.
type TicketPlatform string

const (
	TicketPlatformWeb TicketPlatform = "Web"
	TicketPlatformApp TicketPlatform = "APP"
	TicketPlatformAll TicketPlatform = "Tất cả"
)

// TicketPriority enumerates urgency levels.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "Thấp"
	TicketPriorityMedium TicketPriority = "Trung bình"
	TicketPriorityHigh   TicketPriority = "Cao"
	TicketPriorityUrgent TicketPriority = "Khẩn cấp"
)

// TicketStatus enumerates lifecycle states. Status and completion date are
// independently settable: a "Hoàn thành" ticket may lack ngay_hoan_thanh and
// vice versa. Nothing in this codebase enforces consistency between them.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "Chờ xử lý"
	TicketStatusInProgress TicketStatus = "Đang xử lý"
	TicketStatusDone       TicketStatus = "Hoàn thành"
	TicketStatusCancelled  TicketStatus = "Hủy bỏ"
)

// Valid reports whether the category is one of the known labels.
func (c TicketCategory) Valid() bool {
	return c == TicketCategoryBug || c == TicketCategoryTask
}

// Valid reports whether the platform is one of the known labels.
func (p TicketPlatform) Valid() bool {
	return p == TicketPlatformWeb || p == TicketPlatformApp || p == TicketPlatformAll
}

// Valid reports whether the priority is one of the known labels.
func (p TicketPriority) Valid() bool {
	switch p {
	case TicketPriorityLow, TicketPriorityMedium, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// Valid reports whether the status is one of the four canonical states.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusDone, TicketStatusCancelled:
		return true
	}
	return false
}

// Ticket is a trackable work item. Column names on the wire keep the
// original field names (phan_loai, nen_tang, ...). CreatedBy and Project are
// nullable: legacy rows predate both columns, and deleting a user sets
// CreatedBy to NULL rather than cascading.
type Ticket struct {
	ID          int64
	Category    TicketCategory
	Platform    TicketPlatform
	Content     string
	Priority    TicketPriority
	Status      TicketStatus
	DueDate     *time.Time
	RequestedAt time.Time
	CompletedAt *time.Time
	Note        *string
	Link        *string
	CreatedBy   *int64
	Project     *string
}
