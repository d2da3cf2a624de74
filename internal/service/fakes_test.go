package service

import (
	"context"

	"github.com/spec-kit/ticket-admin/internal/domain"
	"github.com/spec-kit/ticket-admin/internal/store"
)

// fakeUserStore backs the service tests with an in-memory slice. Setting err
// makes every call fail with it, simulating an unreachable store.
type fakeUserStore struct {
	users   []domain.User
	err     error
	nextID  int64
	deleted []int64
}

func (f *fakeUserStore) List(_ context.Context) ([]domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].Username == username {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) GetByCredentials(_ context.Context, username, passwordHash string) (*domain.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.users {
		if f.users[i].Username == username && f.users[i].PasswordHash == passwordHash {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeUserStore) UsernameExists(_ context.Context, username string, excludeID *int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for i := range f.users {
		if f.users[i].Username != username {
			continue
		}
		if excludeID != nil && f.users[i].ID == *excludeID {
			continue
		}
		return true, nil
	}
	return false, nil
}

func (f *fakeUserStore) Insert(_ context.Context, user *domain.User) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	user.ID = f.nextID
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserStore) Update(_ context.Context, user *domain.User) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.users {
		if f.users[i].ID == user.ID {
			f.users[i] = *user
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.users {
		if f.users[i].ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return store.ErrNotFound
}

// fakeTicketStore records which listing path was taken and what was
// inserted. scoped controls the ListForProject fallback report;
// stripOwnership simulates the pre-migration insert retry.
type fakeTicketStore struct {
	tickets []domain.Ticket
	err     error

	scoped         bool
	stripOwnership bool

	listCalls    int
	projectCalls int
	lastProject  string
	inserted     []*domain.Ticket
	updated      []*domain.Ticket
	deleted      []int64
	nextID       int64
}

func (f *fakeTicketStore) List(_ context.Context, _ store.TicketFilter) ([]domain.Ticket, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.tickets, nil
}

func (f *fakeTicketStore) ListForProject(_ context.Context, project string, _ store.TicketFilter) ([]domain.Ticket, bool, error) {
	f.projectCalls++
	f.lastProject = project
	if f.err != nil {
		return nil, false, f.err
	}
	if !f.scoped {
		return f.tickets, false, nil
	}
	var result []domain.Ticket
	for _, t := range f.tickets {
		if t.Project != nil && *t.Project == project {
			result = append(result, t)
		}
	}
	return result, true, nil
}

func (f *fakeTicketStore) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			t := f.tickets[i]
			return &t, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeTicketStore) Insert(_ context.Context, ticket *domain.Ticket) error {
	if f.err != nil {
		return f.err
	}
	f.nextID++
	ticket.ID = f.nextID
	if f.stripOwnership {
		ticket.CreatedBy = nil
		ticket.Project = nil
	}
	f.tickets = append(f.tickets, *ticket)
	f.inserted = append(f.inserted, ticket)
	return nil
}

func (f *fakeTicketStore) Update(_ context.Context, ticket *domain.Ticket) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.tickets {
		if f.tickets[i].ID == ticket.ID {
			f.tickets[i] = *ticket
			f.updated = append(f.updated, ticket)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeTicketStore) Delete(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	for i := range f.tickets {
		if f.tickets[i].ID == id {
			f.tickets = append(f.tickets[:i], f.tickets[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return store.ErrNotFound
}
