// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/wordbin/internal/drill"
	"github.com/verte-zerg/wordbin/internal/model"
)

// AddDailyCorrect adds n correct answers to the progress of the day of t.
func (s *Store) AddDailyCorrect(ctx context.Context, t time.Time, n int) error {
	if n <= 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO daily_progress (day, correct) VALUES (?, ?)
		 ON CONFLICT (day) DO UPDATE SET correct = correct + excluded.correct`,
		model.DayKey(t), n)
	if err != nil {
		return fmt.Errorf("failed to update daily progress: %w", err)
	}
	return nil
}

// ListDaily returns correct answers per day key from the day of since on.
func (s *Store) ListDaily(ctx context.Context, since time.Time) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT day, correct FROM daily_progress WHERE day >= ?`, model.DayKey(since))
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	daily := map[string]int{}
	for rows.Next() {
		var day string
		var correct int
		if err := rows.Scan(&day, &correct); err != nil {
			return nil, err
		}
		daily[day] = correct
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return daily, nil
}

// ActiveSession is an interrupted drill that can be resumed.
type ActiveSession struct {
	ListID    string         `yaml:"list_id"`
	Course    bool           `yaml:"course"`
	StartedAt time.Time      `yaml:"started_at"`
	Asked     int            `yaml:"asked"`
	Correct   int            `yaml:"correct"`
	Drill     drill.Snapshot `yaml:"drill"`
}

// SaveActiveSession stores the interrupted drill, replacing any earlier one.
func (s *Store) SaveActiveSession(ctx context.Context, active ActiveSession) error {
	data, err := yaml.Marshal(active)
	if err != nil {
		return fmt.Errorf("failed to encode active session: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO active_session (id, saved_at, data) VALUES (1, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET saved_at = excluded.saved_at, data = excluded.data`,
		formatTime(time.Now()), string(data))
	if err != nil {
		return fmt.Errorf("failed to save active session: %w", err)
	}
	return nil
}

// LoadActiveSession returns the interrupted drill. The bool is false when there is none.
func (s *Store) LoadActiveSession(ctx context.Context) (ActiveSession, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM active_session WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ActiveSession{}, false, nil
	}
	if err != nil {
		return ActiveSession{}, false, fmt.Errorf("failed to load active session: %w", err)
	}
	var active ActiveSession
	if err := yaml.Unmarshal([]byte(data), &active); err != nil {
		return ActiveSession{}, false, fmt.Errorf("failed to decode active session: %w", err)
	}
	return active, true, nil
}

// ClearActiveSession removes the interrupted drill.
func (s *Store) ClearActiveSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM active_session`); err != nil {
		return fmt.Errorf("failed to clear active session: %w", err)
	}
	return nil
}
