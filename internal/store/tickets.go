package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/ticket-admin/internal/domain"
)

// defaultListLimit bounds unfiltered selects, matching the hosted store's
// default page size. Callers must not assume unlimited results.
const defaultListLimit = 1000

// TicketFilter captures the dropdown filters. Zero values are ignored, so an
// empty filter selects the whole collection.
type TicketFilter struct {
	Status   domain.TicketStatus
	Priority domain.TicketPriority
	Category domain.TicketCategory
}

// TicketStore encapsulates ticket persistence.
type TicketStore interface {
	List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	// ListForProject returns tickets scoped to a project. When the store
	// schema predates the project column it falls back to the unscoped
	// list and reports scoped=false so the caller can surface a warning.
	ListForProject(ctx context.Context, project string, filter TicketFilter) ([]domain.Ticket, bool, error)
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	// Insert stores the ticket with its created_by/project stamp. When the
	// store signals a missing created_by or project column the insert is
	// retried once with both fields stripped; any other failure is
	// returned, not retried.
	Insert(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	Delete(ctx context.Context, id int64) error
}

type ticketStore struct {
	pool *pgxpool.Pool
}

// NewTicketStore returns a Postgres-backed implementation.
func NewTicketStore(pool *pgxpool.Pool) TicketStore {
	return &ticketStore{pool: pool}
}

const ticketColumns = `id, phan_loai, nen_tang, noi_dung, uu_tien, trang_thai,
       thoi_han_mong_muon, ngay_yeu_cau, ngay_hoan_thanh, ghi_chu, link, created_by, project`

const legacyTicketColumns = `id, phan_loai, nen_tang, noi_dung, uu_tien, trang_thai,
       thoi_han_mong_muon, ngay_yeu_cau, ngay_hoan_thanh, ghi_chu, link`

// coreTicketColumnNames are the columns every supported schema must carry.
// A failure mentioning one of these after the legacy fallback means the
// schema predates even the oldest supported layout.
var coreTicketColumnNames = []string{
	"phan_loai", "nen_tang", "noi_dung", "uu_tien", "trang_thai",
	"thoi_han_mong_muon", "ngay_yeu_cau", "ngay_hoan_thanh", "ghi_chu", "link",
}

func (s *ticketStore) List(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses, args := filterClauses(filter)
	return s.list(ctx, clauses, args)
}

func (s *ticketStore) ListForProject(ctx context.Context, project string, filter TicketFilter) ([]domain.Ticket, bool, error) {
	clauses, args := filterClauses(filter)
	args = append(args, project)
	scoped := append(clauses, fmt.Sprintf("project=$%d", len(args)))

	tickets, err := s.list(ctx, scoped, args)
	if err == nil {
		return tickets, true, nil
	}
	if _, ok := missingColumn(err, "project"); !ok {
		return nil, false, err
	}

	// Pre-migration schema without a project column: serve the unscoped
	// collection and let the caller warn.
	tickets, err = s.list(ctx, clauses, args[:len(args)-1])
	if err != nil {
		return nil, false, err
	}
	return tickets, false, nil
}

func filterClauses(filter TicketFilter) ([]string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("trang_thai=$%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		clauses = append(clauses, fmt.Sprintf("uu_tien=$%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, fmt.Sprintf("phan_loai=$%d", len(args)))
	}
	return clauses, args
}

func (s *ticketStore) list(ctx context.Context, clauses []string, args []any) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY id DESC LIMIT %d`,
		ticketColumns, strings.Join(clauses, " AND "), defaultListLimit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		// A pre-migration schema rejects the column list itself; retry
		// without the ownership columns.
		if _, ok := missingColumn(err, "created_by", "project"); ok {
			return s.listLegacy(ctx, clauses, args)
		}
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (s *ticketStore) listLegacy(ctx context.Context, clauses []string, args []any) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY id DESC LIMIT %d`,
		legacyTicketColumns, strings.Join(clauses, " AND "), defaultListLimit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapMissingColumn(err, coreTicketColumnNames...)
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Category,
			&ticket.Platform,
			&ticket.Content,
			&ticket.Priority,
			&ticket.Status,
			&ticket.DueDate,
			&ticket.RequestedAt,
			&ticket.CompletedAt,
			&ticket.Note,
			&ticket.Link,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (s *ticketStore) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)

	var ticket domain.Ticket
	err := scanTicket(s.pool.QueryRow(ctx, query, id), &ticket)
	if err == nil {
		return &ticket, nil
	}
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if _, ok := missingColumn(err, "created_by", "project"); ok {
		return s.getLegacy(ctx, id)
	}
	return nil, err
}

func (s *ticketStore) getLegacy(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, legacyTicketColumns)

	var ticket domain.Ticket
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.Category,
		&ticket.Platform,
		&ticket.Content,
		&ticket.Priority,
		&ticket.Status,
		&ticket.DueDate,
		&ticket.RequestedAt,
		&ticket.CompletedAt,
		&ticket.Note,
		&ticket.Link,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, wrapMissingColumn(err, coreTicketColumnNames...)
	}
	return &ticket, nil
}

func (s *ticketStore) Insert(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (phan_loai, nen_tang, noi_dung, uu_tien, trang_thai,
            thoi_han_mong_muon, ngay_hoan_thanh, ghi_chu, link, created_by, project)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, ngay_yeu_cau`

	err := s.pool.QueryRow(ctx, query,
		ticket.Category,
		ticket.Platform,
		ticket.Content,
		ticket.Priority,
		ticket.Status,
		ticket.DueDate,
		ticket.CompletedAt,
		ticket.Note,
		ticket.Link,
		ticket.CreatedBy,
		ticket.Project,
	).Scan(&ticket.ID, &ticket.RequestedAt)
	if err == nil {
		return nil
	}

	if _, ok := missingColumn(err, "created_by", "project"); !ok {
		return err
	}
	return s.insertStripped(ctx, ticket)
}

// insertStripped retries an insert without the ownership stamp so ticket
// creation still works against a pre-migration schema.
func (s *ticketStore) insertStripped(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (phan_loai, nen_tang, noi_dung, uu_tien, trang_thai,
            thoi_han_mong_muon, ngay_hoan_thanh, ghi_chu, link)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, ngay_yeu_cau`

	err := s.pool.QueryRow(ctx, query,
		ticket.Category,
		ticket.Platform,
		ticket.Content,
		ticket.Priority,
		ticket.Status,
		ticket.DueDate,
		ticket.CompletedAt,
		ticket.Note,
		ticket.Link,
	).Scan(&ticket.ID, &ticket.RequestedAt)
	if err != nil {
		return wrapMissingColumn(err, coreTicketColumnNames...)
	}
	ticket.CreatedBy = nil
	ticket.Project = nil
	return nil
}

func (s *ticketStore) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET phan_loai=$1, nen_tang=$2, noi_dung=$3, uu_tien=$4,
            trang_thai=$5, thoi_han_mong_muon=$6, ngay_hoan_thanh=$7, ghi_chu=$8, link=$9
        WHERE id=$10`

	cmd, err := s.pool.Exec(ctx, query,
		ticket.Category,
		ticket.Platform,
		ticket.Content,
		ticket.Priority,
		ticket.Status,
		ticket.DueDate,
		ticket.CompletedAt,
		ticket.Note,
		ticket.Link,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *ticketStore) Delete(ctx context.Context, id int64) error {
	cmd, err := s.pool.Exec(ctx, `DELETE FROM tickets WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.Category,
		&ticket.Platform,
		&ticket.Content,
		&ticket.Priority,
		&ticket.Status,
		&ticket.DueDate,
		&ticket.RequestedAt,
		&ticket.CompletedAt,
		&ticket.Note,
		&ticket.Link,
		&ticket.CreatedBy,
		&ticket.Project,
	)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
