// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/verte-zerg/wordbin/internal/course"
)

// SaveCourse replaces the stored course with snap.
func (s *Store) SaveCourse(ctx context.Context, snap course.Snapshot) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, table := range []string{"course_words", "course_lists", "course_settings"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("failed to clear %s: %w", table, err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO course_settings (id, version, lesson_size, pct_errors, pct_repetition, decay)
			 VALUES (1, ?, ?, ?, ?, ?)`,
			snap.Version,
			snap.Settings.LessonSize,
			snap.Settings.PctErrors,
			snap.Settings.PctRepetition,
			snap.Settings.Decay,
		); err != nil {
			return fmt.Errorf("failed to save course settings: %w", err)
		}

		listStmt, err := tx.PrepareContext(ctx,
			`INSERT INTO course_lists (position, id, source_timestamp, content_hash) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer closeStmt(listStmt)
		wordStmt, err := tx.PrepareContext(ctx,
			`INSERT INTO course_words (list_id, position, question, answer, direction, pair_index, asked_times, last_asked, error_rate)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer closeStmt(wordStmt)

		for i, l := range snap.Lists {
			if _, err := listStmt.ExecContext(ctx, i, l.ID, formatTime(l.SourceTimestamp), l.ContentHash); err != nil {
				return fmt.Errorf("failed to save list %s: %w", l.ID, err)
			}
			for j, w := range l.Words {
				var lastAsked sql.NullString
				if w.LastAsked != nil {
					lastAsked = sql.NullString{String: formatTime(*w.LastAsked), Valid: true}
				}
				if _, err := wordStmt.ExecContext(ctx, l.ID, j,
					w.Pair.Question, w.Pair.Answer, w.Pair.Direction, w.Pair.PairIndex,
					w.AskedTimes, lastAsked, w.ErrorRate,
				); err != nil {
					return fmt.Errorf("failed to save word %q: %w", w.Pair.Question, err)
				}
			}
		}
		return nil
	})
}

// LoadCourse reads the stored course. The bool is false when no course was saved yet.
func (s *Store) LoadCourse(ctx context.Context) (course.Snapshot, bool, error) {
	var snap course.Snapshot
	err := s.db.QueryRowContext(ctx,
		`SELECT version, lesson_size, pct_errors, pct_repetition, decay FROM course_settings WHERE id = 1`,
	).Scan(&snap.Version, &snap.Settings.LessonSize, &snap.Settings.PctErrors, &snap.Settings.PctRepetition, &snap.Settings.Decay)
	if errors.Is(err, sql.ErrNoRows) {
		return course.Snapshot{}, false, nil
	}
	if err != nil {
		return course.Snapshot{}, false, fmt.Errorf("failed to load course settings: %w", err)
	}

	lists, err := s.loadLists(ctx)
	if err != nil {
		return course.Snapshot{}, false, err
	}
	for i := range lists {
		words, err := s.loadWords(ctx, lists[i].ID)
		if err != nil {
			return course.Snapshot{}, false, err
		}
		lists[i].Words = words
	}
	snap.Lists = lists
	return snap, true, nil
}

func (s *Store) loadLists(ctx context.Context) ([]course.ListSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source_timestamp, content_hash FROM course_lists ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to load course lists: %w", err)
	}
	defer closeRows(rows)

	lists := []course.ListSnapshot{}
	for rows.Next() {
		var l course.ListSnapshot
		var ts string
		if err := rows.Scan(&l.ID, &ts, &l.ContentHash); err != nil {
			return nil, err
		}
		if l.SourceTimestamp, err = parseTime(ts); err != nil {
			return nil, err
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

func (s *Store) loadWords(ctx context.Context, listID string) ([]course.WordSnapshot, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question, answer, direction, pair_index, asked_times, last_asked, error_rate
		 FROM course_words WHERE list_id = ? ORDER BY position ASC`, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to load words of %s: %w", listID, err)
	}
	defer closeRows(rows)

	words := []course.WordSnapshot{}
	for rows.Next() {
		var w course.WordSnapshot
		var lastAsked sql.NullString
		if err := rows.Scan(&w.Pair.Question, &w.Pair.Answer, &w.Pair.Direction, &w.Pair.PairIndex,
			&w.AskedTimes, &lastAsked, &w.ErrorRate); err != nil {
			return nil, err
		}
		if lastAsked.Valid {
			t, err := parseTime(lastAsked.String)
			if err != nil {
				return nil, err
			}
			w.LastAsked = &t
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func closeStmt(stmt *sql.Stmt) {
	if cerr := stmt.Close(); cerr != nil {
		// Best-effort statement close.
		_ = cerr
	}
}
