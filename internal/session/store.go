// Package session persists the remember-me record: a local JSON file that
// restores a signed-in session without re-entering credentials for up to 30
// days from issuance.
package session

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/spec-kit/ticket-admin/internal/domain"
)

// TTL is the fixed validity window of a remember-me record.
const TTL = 30 * 24 * time.Hour

// Record is the durable session token. Field names are part of the on-disk
// format and must not change.
type Record struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Project   string `json:"project"`
	IsAdmin   bool   `json:"is_admin"`
	Timestamp int64  `json:"timestamp"`
	Expires   int64  `json:"expires"`
}

// Store reads and writes the remember-me file.
type Store struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewStore builds a store around the given file path.
func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

// Save writes a remember-me record for the user, valid for TTL from now.
func (s *Store) Save(user *domain.User) error {
	now := s.now()
	record := Record{
		UserID:    user.ID,
		Username:  user.Username,
		FullName:  user.FullName,
		Project:   user.Project,
		IsAdmin:   user.IsAdmin,
		Timestamp: now.Unix(),
		Expires:   now.Add(TTL).Unix(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return os.WriteFile(s.path, data, 0o600)
}

// Load returns the stored record when it exists and has not expired, nil
// otherwise. A missing, unreadable or corrupt file reads as "no session".
// Expiry is a strict comparison; expired records are ignored but left on
// disk, never deleted here.
func (s *Store) Load() *Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil
	}
	if record.Expires <= s.now().Unix() {
		return nil
	}
	return &record
}

// Remove deletes the remember-me file. Best effort: a missing file or an
// I/O failure is ignored.
func (s *Store) Remove() {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = os.Remove(s.path)
}
