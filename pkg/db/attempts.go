package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Attempt is one recorded pipeline call.
type Attempt struct {
	AttemptID    int64
	RunID        string
	Path         string
	URL          string
	StatusCode   int
	ErrorType    string
	ErrorMessage string
	TrackCount   int
	ContentHash  string
	Success      bool
	AttemptedAt  time.Time
}

// CreateRun registers a run so attempts can reference it.
func (db *DB) CreateRun(runID, baseURL string, pathCount int) error {
	_, err := db.Exec(`
		INSERT INTO runs (run_id, base_url, path_count)
		VALUES (?, ?, ?)
	`, runID, baseURL, pathCount)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// RecordAttempt stores one attempt and returns its id.
func (db *DB) RecordAttempt(a Attempt) (int64, error) {
	result, err := db.Exec(`
		INSERT INTO fetch_attempts (run_id, path, url, status_code, error_type, error_message, track_count, content_hash, success)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.RunID, a.Path, a.URL, a.StatusCode, a.ErrorType, a.ErrorMessage, a.TrackCount, a.ContentHash, a.Success)
	if err != nil {
		return 0, fmt.Errorf("failed to record attempt: %w", err)
	}

	attemptID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get attempt ID: %w", err)
	}
	return attemptID, nil
}

const attemptColumns = `attempt_id, run_id, path, url, status_code, error_type, error_message, track_count, content_hash, success, attempted_at`

func scanAttempts(rows *sql.Rows) ([]Attempt, error) {
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var a Attempt
		if err := rows.Scan(&a.AttemptID, &a.RunID, &a.Path, &a.URL, &a.StatusCode, &a.ErrorType,
			&a.ErrorMessage, &a.TrackCount, &a.ContentHash, &a.Success, &a.AttemptedAt); err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attempts: %w", err)
	}
	return attempts, nil
}

// ListAttempts returns the most recent attempts first. limit <= 0 means no limit.
func (db *DB) ListAttempts(limit int, failedOnly bool) ([]Attempt, error) {
	query := `SELECT ` + attemptColumns + ` FROM fetch_attempts`
	if failedOnly {
		query += ` WHERE success = 0`
	}
	query += ` ORDER BY attempt_id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	return scanAttempts(rows)
}

// RunAttempts returns the attempts of one run in insertion order.
func (db *DB) RunAttempts(runID string) ([]Attempt, error) {
	rows, err := db.Query(`SELECT `+attemptColumns+` FROM fetch_attempts WHERE run_id = ? ORDER BY attempt_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run attempts: %w", err)
	}
	return scanAttempts(rows)
}

// FailedPaths returns the distinct paths that failed in a run, in the order
// they were first attempted.
func (db *DB) FailedPaths(runID string) ([]string, error) {
	rows, err := db.Query(`
		SELECT path FROM fetch_attempts
		WHERE run_id = ? AND success = 0
		GROUP BY path
		ORDER BY MIN(attempt_id)
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get failed paths: %w", err)
	}
	defer rows.Close()

	var paths []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("failed to scan path: %w", err)
		}
		paths = append(paths, path)
	}
	return paths, rows.Err()
}

// LastRunID returns the id of the most recent run, or "" when there is none.
func (db *DB) LastRunID() (string, error) {
	var runID string
	err := db.QueryRow(`SELECT run_id FROM runs ORDER BY created_at DESC, rowid DESC LIMIT 1`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last run: %w", err)
	}
	return runID, nil
}
