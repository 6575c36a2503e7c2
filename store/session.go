package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

var sessionFields = `id, club_id, book_id, start_date, end_date, status, notes, meeting_date, meeting_location, meeting_notes, created_ts, updated_ts`

func scanSession(row interface{ Scan(dest ...any) error }) (*model.ReadingSession, error) {
	var session model.ReadingSession
	if err := row.Scan(
		&session.ID,
		&session.ClubID,
		&session.BookID,
		&session.StartDate,
		&session.EndDate,
		&session.Status,
		&session.Notes,
		&session.MeetingDate,
		&session.MeetingLocation,
		&session.MeetingNotes,
		&session.CreatedTs,
		&session.UpdatedTs,
	); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Store) CreateReadingSession(clubID int32, create *model.SessionCreateRequest) (*model.ReadingSession, error) {
	start, err := time.Parse(model.DateLayout, create.StartDate)
	if err != nil {
		return nil, errs.Validation("start_date must be a %s date", model.DateLayout)
	}
	end, err := time.Parse(model.DateLayout, create.EndDate)
	if err != nil {
		return nil, errs.Validation("end_date must be a %s date", model.DateLayout)
	}
	if end.Before(start) {
		return nil, errs.Validation("end_date must not be before start_date")
	}

	stmt := `
		INSERT INTO reading_session (club_id, book_id, start_date, end_date, notes, meeting_date, meeting_location, meeting_notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + sessionFields

	session, err := scanSession(s.db.QueryRow(stmt,
		clubID,
		create.BookID,
		create.StartDate,
		create.EndDate,
		create.Notes,
		create.MeetingDate,
		create.MeetingLocation,
		create.MeetingNotes,
	))
	if err != nil {
		return nil, translateErr(err, "this club already has a session for this book starting that day")
	}
	return session, nil
}

func (s *Store) GetReadingSession(find *model.FindReadingSession) (*model.ReadingSession, error) {
	list, err := s.ListReadingSessions(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListReadingSessions(find *model.FindReadingSession) ([]*model.ReadingSession, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.ClubID; v != nil {
		where, args = append(where, "club_id = ?"), append(args, *v)
	}
	if v := find.BookID; v != nil {
		where, args = append(where, "book_id = ?"), append(args, *v)
	}
	if v := find.Status; v != nil {
		where, args = append(where, "status = ?"), append(args, *v)
	}
	if v := find.CurrentOn; v != nil {
		// Date strings compare correctly because the layout is
		// lexicographically ordered.
		where = append(where, "start_date <= ?", "end_date >= ?", "status NOT IN ('completed', 'cancelled')")
		args = append(args, *v, *v)
	}

	query := `SELECT ` + sessionFields + ` FROM reading_session WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY start_date DESC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.ReadingSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, session)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) UpdateReadingSession(sessionID int32, update *model.SessionUpdateRequest) (*model.ReadingSession, error) {
	set, args := []string{"updated_ts = ?"}, []any{time.Now().Unix()}

	if v := update.Status; v != nil {
		switch *v {
		case model.SessionUpcoming, model.SessionCurrent, model.SessionCompleted, model.SessionCancelled:
		default:
			return nil, errs.Validation("unknown session status %q", *v)
		}
		set, args = append(set, "status = ?"), append(args, *v)
	}
	if v := update.EndDate; v != nil {
		if _, err := time.Parse(model.DateLayout, *v); err != nil {
			return nil, errs.Validation("end_date must be a %s date", model.DateLayout)
		}
		set, args = append(set, "end_date = ?"), append(args, *v)
	}
	if v := update.Notes; v != nil {
		set, args = append(set, "notes = ?"), append(args, *v)
	}
	if v := update.MeetingDate; v != nil {
		set, args = append(set, "meeting_date = ?"), append(args, *v)
	}
	if v := update.MeetingLocation; v != nil {
		set, args = append(set, "meeting_location = ?"), append(args, *v)
	}
	if v := update.MeetingNotes; v != nil {
		set, args = append(set, "meeting_notes = ?"), append(args, *v)
	}
	args = append(args, sessionID)

	stmt := `UPDATE reading_session SET ` + strings.Join(set, ", ") + ` WHERE id = ? RETURNING ` + sessionFields
	session, err := scanSession(s.db.QueryRow(stmt, args...))
	if err != nil {
		return nil, errors.Wrap(err, "failed to update reading session")
	}
	return session, nil
}
