package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

var reviewFields = `id, user_id, book_id, rating, title, content, is_spoiler, IFNULL(session_id, 0), created_ts, updated_ts`

func scanReview(row interface{ Scan(dest ...any) error }) (*model.Review, error) {
	var review model.Review
	if err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.BookID,
		&review.Rating,
		&review.Title,
		&review.Content,
		&review.IsSpoiler,
		&review.SessionID,
		&review.CreatedTs,
		&review.UpdatedTs,
	); err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *Store) CreateReview(userID int32, create *model.ReviewCreateRequest) (*model.Review, error) {
	if create.Rating < model.MinRating || create.Rating > model.MaxRating {
		return nil, errs.Validation("rating must be between %d and %d", model.MinRating, model.MaxRating)
	}

	var sessionID any
	if create.SessionID != 0 {
		sessionID = create.SessionID
	}

	stmt := `
		INSERT INTO review (user_id, book_id, rating, title, content, is_spoiler, session_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + reviewFields

	review, err := scanReview(s.db.QueryRow(stmt,
		userID,
		create.BookID,
		create.Rating,
		create.Title,
		create.Content,
		create.IsSpoiler,
		sessionID,
	))
	if err != nil {
		return nil, translateErr(err, "you have already reviewed this book")
	}
	return review, nil
}

func (s *Store) GetReview(find *model.FindReview) (*model.Review, error) {
	list, err := s.ListReviews(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListReviews(find *model.FindReview) ([]*model.Review, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = ?"), append(args, *v)
	}
	if v := find.BookID; v != nil {
		where, args = append(where, "book_id = ?"), append(args, *v)
	}
	if v := find.SessionID; v != nil {
		where, args = append(where, "session_id = ?"), append(args, *v)
	}

	query := `SELECT ` + reviewFields + ` FROM review WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
		if o := find.Offset; o != nil {
			query += fmt.Sprintf(" OFFSET %d", *o)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, review)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

type UpdateReview struct {
	ID int32

	Rating    *int
	Title     *string
	Content   *string
	IsSpoiler *bool
}

func (s *Store) UpdateReview(update *UpdateReview) (*model.Review, error) {
	set, args := []string{"updated_ts = ?"}, []any{time.Now().Unix()}

	if v := update.Rating; v != nil {
		if *v < model.MinRating || *v > model.MaxRating {
			return nil, errs.Validation("rating must be between %d and %d", model.MinRating, model.MaxRating)
		}
		set, args = append(set, "rating = ?"), append(args, *v)
	}
	if v := update.Title; v != nil {
		set, args = append(set, "title = ?"), append(args, *v)
	}
	if v := update.Content; v != nil {
		set, args = append(set, "content = ?"), append(args, *v)
	}
	if v := update.IsSpoiler; v != nil {
		set, args = append(set, "is_spoiler = ?"), append(args, *v)
	}
	args = append(args, update.ID)

	stmt := `UPDATE review SET ` + strings.Join(set, ", ") + ` WHERE id = ? RETURNING ` + reviewFields
	review, err := scanReview(s.db.QueryRow(stmt, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("review %d not found", update.ID)
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *Store) DeleteReview(reviewID int32) error {
	result, err := s.db.Exec(`DELETE FROM review WHERE id = ?`, reviewID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("review %d not found", reviewID)
	}
	return nil
}
