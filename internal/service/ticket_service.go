package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-admin/internal/auth"
	"github.com/spec-kit/ticket-admin/internal/domain"
	"github.com/spec-kit/ticket-admin/internal/stats"
	"github.com/spec-kit/ticket-admin/internal/store"
	apperrors "github.com/spec-kit/ticket-admin/pkg/util"
)

// TicketService coordinates ticket workflows. Non-admin sessions only see
// their project's tickets; admins see everything. Concurrent edits follow
// last-writer-wins with no locking, matching the store's model.
type TicketService struct {
	tickets store.TicketStore
	logger  *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(tickets store.TicketStore, logger *zap.Logger) *TicketService {
	return &TicketService{tickets: tickets, logger: logger}
}

// TicketInput describes the editable ticket fields as submitted by the
// form. Dates arrive as "YYYY-MM-DD" strings; empty optional fields stay
// absent.
type TicketInput struct {
	Category  domain.TicketCategory
	Platform  domain.TicketPlatform
	Content   string
	Priority  domain.TicketPriority
	Status    domain.TicketStatus
	DueDate   string
	Completed string
	Note      string
	Link      string
}

// List returns tickets visible to the session, applying the dropdown
// filters. The second return is false when project scoping had to be
// skipped because the store schema predates the project column; callers
// surface that as a warning, not a failure.
func (s *TicketService) List(ctx context.Context, sess *auth.Session, filter store.TicketFilter) ([]domain.Ticket, bool, error) {
	if sess.IsAdmin {
		tickets, err := s.tickets.List(ctx, filter)
		return tickets, true, err
	}

	tickets, scoped, err := s.tickets.ListForProject(ctx, sess.Project, filter)
	if err != nil {
		return nil, false, err
	}
	if !scoped {
		s.logger.Warn("tickets collection has no project column; returning unscoped results",
			zap.String("project", sess.Project))
	}
	return tickets, scoped, nil
}

// Summary fetches the visible tickets and aggregates them.
func (s *TicketService) Summary(ctx context.Context, sess *auth.Session, filter store.TicketFilter) (stats.Summary, bool, error) {
	tickets, scoped, err := s.List(ctx, sess, filter)
	if err != nil {
		return stats.Summary{}, scoped, err
	}
	return stats.Summarize(tickets), scoped, nil
}

// Get fetches one ticket by id. Non-admin sessions only reach tickets in
// their own project; a ticket outside it reads as not found so ids leak
// nothing across projects.
func (s *TicketService) Get(ctx context.Context, sess *auth.Session, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}
	if !visibleTo(sess, ticket) {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return ticket, nil
}

// visibleTo applies the project scope to a single ticket. Legacy rows
// without a project stamp stay visible to everyone, matching the unscoped
// listing fallback.
func visibleTo(sess *auth.Session, t *domain.Ticket) bool {
	if sess.IsAdmin {
		return true
	}
	return t.Project == nil || *t.Project == sess.Project
}

// Create validates the input and stores a new ticket stamped with the
// session's user id and project. Validation failures never reach the store.
func (s *TicketService) Create(ctx context.Context, sess *auth.Session, input TicketInput) (*domain.Ticket, error) {
	ticket, err := buildTicket(input)
	if err != nil {
		return nil, err
	}

	createdBy := sess.UserID
	project := sess.Project
	ticket.CreatedBy = &createdBy
	ticket.Project = &project

	if err := s.tickets.Insert(ctx, ticket); err != nil {
		return nil, err
	}
	if ticket.CreatedBy == nil {
		s.logger.Warn("tickets collection has no ownership columns; ticket stored without created_by/project",
			zap.Int64("ticket_id", ticket.ID))
	}
	return ticket, nil
}

// Update replaces the editable fields of an existing ticket. The project
// scope applies the same way as Get.
func (s *TicketService) Update(ctx context.Context, sess *auth.Session, id int64, input TicketInput) (*domain.Ticket, error) {
	existing, err := s.Get(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	updated, err := buildTicket(input)
	if err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.RequestedAt = existing.RequestedAt
	updated.CreatedBy = existing.CreatedBy
	updated.Project = existing.Project

	if err := s.tickets.Update(ctx, updated); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return nil, err
	}
	return updated, nil
}

// Delete removes a ticket permanently; there is no soft delete. The project
// scope applies the same way as Get.
func (s *TicketService) Delete(ctx context.Context, sess *auth.Session, id int64) error {
	if _, err := s.Get(ctx, sess, id); err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return apperrors.NewNotFound("ticket", map[string]any{"id": id})
		}
		return err
	}
	return nil
}

func buildTicket(input TicketInput) (*domain.Ticket, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, apperrors.NewValidationError("noi_dung is required", nil)
	}

	ticket := &domain.Ticket{
		Category: input.Category,
		Platform: input.Platform,
		Content:  strings.TrimSpace(input.Content),
		Priority: input.Priority,
		Status:   input.Status,
	}
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusPending
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityMedium
	}

	if !ticket.Category.Valid() {
		return nil, apperrors.NewValidationError("invalid phan_loai", map[string]any{"value": input.Category})
	}
	if !ticket.Platform.Valid() {
		return nil, apperrors.NewValidationError("invalid nen_tang", map[string]any{"value": input.Platform})
	}
	if !ticket.Priority.Valid() {
		return nil, apperrors.NewValidationError("invalid uu_tien", map[string]any{"value": input.Priority})
	}
	if !ticket.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid trang_thai", map[string]any{"value": input.Status})
	}

	var err error
	if ticket.DueDate, err = parseOptionalDate(input.DueDate); err != nil {
		return nil, apperrors.NewValidationError("invalid thoi_han_mong_muon", map[string]any{"value": input.DueDate})
	}
	if ticket.CompletedAt, err = parseOptionalDate(input.Completed); err != nil {
		return nil, apperrors.NewValidationError("invalid ngay_hoan_thanh", map[string]any{"value": input.Completed})
	}
	if note := strings.TrimSpace(input.Note); note != "" {
		ticket.Note = &note
	}
	if link := strings.TrimSpace(input.Link); link != "" {
		ticket.Link = &link
	}
	return ticket, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
