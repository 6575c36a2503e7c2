package store

import (
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

var progressFields = `id, user_id, book_id, session_id, current_page, is_finished, started_ts, finished_ts, notes, updated_ts`

func scanProgress(row interface{ Scan(dest ...any) error }) (*model.ReadingProgress, error) {
	var p model.ReadingProgress
	if err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.BookID,
		&p.SessionID,
		&p.CurrentPage,
		&p.IsFinished,
		&p.StartedTs,
		&p.FinishedTs,
		&p.Notes,
		&p.UpdatedTs,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertReadingProgress records where a reader is in a book. One row exists
// per (user, book, session). The started stamp is set the first time the
// reader moves past page zero and the finished stamp the first time they
// mark the book done; neither stamp is ever rewritten, so repeating an
// update is harmless. Finishing snaps current_page to the book's page count
// when it is known.
func (s *Store) UpsertReadingProgress(userID int32, update *model.ProgressUpdateRequest) (*model.ReadingProgress, error) {
	if update.CurrentPage != nil && *update.CurrentPage < 0 {
		return nil, errs.Validation("current_page must not be negative")
	}

	page := update.CurrentPage
	finishing := update.IsFinished != nil && *update.IsFinished
	if finishing && update.PageCount > 0 {
		lastPage := update.PageCount
		page = &lastPage
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existing, err := scanProgress(tx.QueryRow(
		`SELECT `+progressFields+` FROM reading_progress WHERE user_id = ? AND book_id = ? AND session_id = ?`,
		userID, update.BookID, update.SessionID))
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	now := time.Now().Unix()
	var progress *model.ReadingProgress

	if existing == nil {
		currentPage := 0
		if page != nil {
			currentPage = *page
		}

		var startedTs, finishedTs int64
		if currentPage > 0 || finishing {
			startedTs = now
		}
		if finishing {
			finishedTs = now
		}

		progress, err = scanProgress(tx.QueryRow(
			`INSERT INTO reading_progress (user_id, book_id, session_id, current_page, is_finished, started_ts, finished_ts, notes, updated_ts)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 RETURNING `+progressFields,
			userID, update.BookID, update.SessionID, currentPage, finishing, startedTs, finishedTs, update.Notes, now))
		if err != nil {
			return nil, translateErr(err, "progress already recorded")
		}
	} else {
		set, args := []string{"updated_ts = ?"}, []any{now}

		if v := page; v != nil {
			set, args = append(set, "current_page = ?"), append(args, *v)
			if existing.StartedTs == 0 && *v > 0 {
				set, args = append(set, "started_ts = ?"), append(args, now)
			}
		}
		if v := update.IsFinished; v != nil {
			set, args = append(set, "is_finished = ?"), append(args, *v)
			if *v {
				if existing.StartedTs == 0 {
					set, args = append(set, "started_ts = ?"), append(args, now)
				}
				if existing.FinishedTs == 0 {
					set, args = append(set, "finished_ts = ?"), append(args, now)
				}
			}
		}
		if update.Notes != "" {
			set, args = append(set, "notes = ?"), append(args, update.Notes)
		}
		args = append(args, existing.ID)

		progress, err = scanProgress(tx.QueryRow(
			`UPDATE reading_progress SET `+strings.Join(set, ", ")+` WHERE id = ? RETURNING `+progressFields,
			args...))
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return progress, nil
}

func (s *Store) GetReadingProgress(find *model.FindReadingProgress) (*model.ReadingProgress, error) {
	list, err := s.ListReadingProgress(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListReadingProgress(find *model.FindReadingProgress) ([]*model.ReadingProgress, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = ?"), append(args, *v)
	}
	if v := find.BookID; v != nil {
		where, args = append(where, "book_id = ?"), append(args, *v)
	}
	if v := find.SessionID; v != nil {
		where, args = append(where, "session_id = ?"), append(args, *v)
	}

	query := `SELECT ` + progressFields + ` FROM reading_progress WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY updated_ts DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.ReadingProgress, 0)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
