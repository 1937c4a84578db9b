package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/sreevidya/handrom/internal/landmark"
	"github.com/sreevidya/handrom/internal/rom"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// Session represents an assessment session stored in the database.
type Session struct {
	ID          string
	Kind        rom.AssessmentKind
	Hand        landmark.Handedness
	FrameCount  int
	Repetitions int
	Incomplete  bool
	CreatedAt   time.Time
	FinalizedAt *time.Time
}

// Finalized reports whether the session has a persisted result.
func (s *Session) Finalized() bool {
	return s.FinalizedAt != nil
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new session into the database.
func (r *SessionRepository) Create(s *Session) error {
	s.CreatedAt = time.Now()
	if s.Hand == "" {
		s.Hand = landmark.HandUnknown
	}
	if s.Repetitions == 0 {
		s.Repetitions = 1
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, kind, hand, frame_count, repetitions, incomplete, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID, string(s.Kind), string(s.Hand), s.FrameCount, s.Repetitions, s.Incomplete, s.CreatedAt,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*Session, error) {
	row := r.db.QueryRow(
		`SELECT id, kind, hand, frame_count, repetitions, incomplete, created_at, finalized_at
		 FROM sessions WHERE id = ?`,
		id,
	)
	return scanSession(row)
}

// List retrieves all sessions, newest first.
func (r *SessionRepository) List() ([]*Session, error) {
	rows, err := r.db.Query(
		`SELECT id, kind, hand, frame_count, repetitions, incomplete, created_at, finalized_at
		 FROM sessions ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session from the database by its ID.
// The session's result row is removed by the foreign key cascade.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	s := &Session{}
	var kind, hand string
	var incomplete int
	var finalizedAt sql.NullTime

	err := row.Scan(&s.ID, &kind, &hand, &s.FrameCount, &s.Repetitions, &incomplete, &s.CreatedAt, &finalizedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.Kind = rom.AssessmentKind(kind)
	s.Hand = landmark.Handedness(hand)
	s.Incomplete = incomplete != 0
	if finalizedAt.Valid {
		t := finalizedAt.Time
		s.FinalizedAt = &t
	}
	return s, nil
}
