// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/verte-zerg/wordbin/internal/model"
)

// InsertSession stores a drill and its per-word outcomes. An empty ID is
// replaced with a new UUID; the stored ID is returned.
func (s *Store) InsertSession(ctx context.Context, stats model.SessionStats, words []model.WordStats) (string, error) {
	id := stats.ID
	if id == "" {
		id = uuid.NewString()
	}
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sessions (id, started_at, ended_at, list_id, words, bins, asked, correct, incorrect, finished)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id,
			formatTime(stats.StartedAt),
			formatTime(stats.EndedAt),
			stats.ListID,
			stats.Words,
			stats.Bins,
			stats.Asked,
			stats.Correct,
			stats.Incorrect,
			stats.Finished,
		); err != nil {
			return err
		}
		if len(words) == 0 {
			return nil
		}
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO session_words (session_id, question, answer, attempts, correct, bin)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (session_id, question, answer) DO UPDATE SET
				attempts = attempts + excluded.attempts,
				correct = correct + excluded.correct,
				bin = MAX(bin, excluded.bin)`)
		if err != nil {
			return err
		}
		defer closeStmt(stmt)
		for _, w := range words {
			if _, err := stmt.ExecContext(ctx, id, w.Question, w.Answer, w.Attempts, w.Correct, w.Bin); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config, oldest first.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.ListID != "" {
		clauses = append(clauses, "list_id = ?")
		args = append(args, cfg.ListID)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, formatTime(*cfg.Since))
	}
	limit := -1
	if cfg.Last > 0 {
		limit = cfg.Last
	}
	args = append(args, limit)
	query := fmt.Sprintf(`SELECT id, list_id, ended_at, correct, incorrect, finished FROM (
			SELECT id, list_id, ended_at, correct, incorrect, finished
			FROM sessions
			WHERE %s
			ORDER BY ended_at DESC
			LIMIT ?
		) ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &agg.ListID, &endedAt, &agg.Correct, &agg.Incorrect, &agg.Finished); err != nil {
			return nil, err
		}
		parsed, err := parseTime(endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// TopMissed returns the words answered wrong most often over all sessions.
func (s *Store) TopMissed(ctx context.Context, n int) ([]model.MissedWord, error) {
	if n <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT question, answer, SUM(attempts) AS attempts, SUM(attempts - correct) AS wrong
		 FROM session_words
		 GROUP BY question, answer
		 HAVING wrong > 0
		 ORDER BY wrong DESC, question ASC
		 LIMIT ?`, n)
	if err != nil {
		return nil, err
	}
	defer closeRows(rows)

	var result []model.MissedWord
	for rows.Next() {
		var w model.MissedWord
		if err := rows.Scan(&w.Question, &w.Answer, &w.Attempts, &w.Wrong); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
