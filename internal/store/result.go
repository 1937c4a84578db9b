package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sreevidya/handrom/internal/rom"
)

// ResultRepository persists finalized measurement results.
type ResultRepository struct {
	db *sql.DB
}

// Results returns the result repository for this store.
func (s *Store) Results() *ResultRepository {
	return &ResultRepository{db: s.db}
}

// Save stores a finalized result and updates the owning session row in a
// single transaction.
func (r *ResultRepository) Save(sessionID string, res *rom.Result) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO results (session_id, data) VALUES (?, ?)`,
		sessionID, string(data),
	); err != nil {
		return err
	}

	incomplete := 0
	if res.Incomplete {
		incomplete = 1
	}
	result, err := tx.Exec(
		`UPDATE sessions
		 SET hand = ?, frame_count = ?, repetitions = ?, incomplete = ?, finalized_at = ?
		 WHERE id = ?`,
		string(res.HandType), res.FrameCount, res.Repetitions, incomplete, time.Now(), sessionID,
	)
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

	return tx.Commit()
}

// GetBySessionID retrieves the finalized result for a session.
func (r *ResultRepository) GetBySessionID(sessionID string) (*rom.Result, error) {
	var data string
	err := r.db.QueryRow(
		`SELECT data FROM results WHERE session_id = ?`,
		sessionID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	res := &rom.Result{}
	if err := json.Unmarshal([]byte(data), res); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return res, nil
}

// DeleteBySessionID removes the result for a session.
func (r *ResultRepository) DeleteBySessionID(sessionID string) error {
	_, err := r.db.Exec(`DELETE FROM results WHERE session_id = ?`, sessionID)
	return err
}
