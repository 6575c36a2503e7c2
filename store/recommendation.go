package store

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

var recommendationFields = `id, club_id, book_id, recommended_by, reason, status, votes_for, votes_against, created_ts, updated_ts`

func scanRecommendation(row interface{ Scan(dest ...any) error }) (*model.Recommendation, error) {
	var r model.Recommendation
	if err := row.Scan(
		&r.ID,
		&r.ClubID,
		&r.BookID,
		&r.RecommendedBy,
		&r.Reason,
		&r.Status,
		&r.VotesFor,
		&r.VotesAgainst,
		&r.CreatedTs,
		&r.UpdatedTs,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) CreateRecommendation(clubID, userID int32, create *model.RecommendationCreateRequest) (*model.Recommendation, error) {
	stmt := `
		INSERT INTO recommendation (club_id, book_id, recommended_by, reason)
		VALUES (?, ?, ?, ?)
		RETURNING ` + recommendationFields

	recommendation, err := scanRecommendation(s.db.QueryRow(stmt, clubID, create.BookID, userID, create.Reason))
	if err != nil {
		return nil, translateErr(err, "this book has already been recommended to the club")
	}
	return recommendation, nil
}

func (s *Store) GetRecommendation(find *model.FindRecommendation) (*model.Recommendation, error) {
	list, err := s.ListRecommendations(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListRecommendations(find *model.FindRecommendation) ([]*model.Recommendation, error) {
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

	query := `SELECT ` + recommendationFields + ` FROM recommendation WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY (votes_for - votes_against) DESC, created_ts DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Recommendation, 0)
	for rows.Next() {
		r, err := scanRecommendation(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// VoteRecommendation bumps one of the counters. Votes are anonymous tallies,
// nothing stops a member from voting twice.
func (s *Store) VoteRecommendation(recommendationID int32, vote string) (*model.Recommendation, error) {
	var column string
	switch vote {
	case "for":
		column = "votes_for"
	case "against":
		column = "votes_against"
	default:
		return nil, errs.Validation(`vote must be "for" or "against"`)
	}

	stmt := `UPDATE recommendation SET ` + column + ` = ` + column + ` + 1, updated_ts = strftime('%s', 'now')
		WHERE id = ? RETURNING ` + recommendationFields
	recommendation, err := scanRecommendation(s.db.QueryRow(stmt, recommendationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("recommendation %d not found", recommendationID)
	}
	if err != nil {
		return nil, err
	}
	return recommendation, nil
}

// SetRecommendationStatus records a moderator decision.
func (s *Store) SetRecommendationStatus(recommendationID int32, status model.RecommendationStatus) (*model.Recommendation, error) {
	switch status {
	case model.RecommendationPending, model.RecommendationApproved, model.RecommendationRejected, model.RecommendationSelected:
	default:
		return nil, errs.Validation("unknown recommendation status %q", status)
	}

	stmt := `UPDATE recommendation SET status = ?, updated_ts = strftime('%s', 'now')
		WHERE id = ? RETURNING ` + recommendationFields
	recommendation, err := scanRecommendation(s.db.QueryRow(stmt, status, recommendationID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("recommendation %d not found", recommendationID)
	}
	if err != nil {
		return nil, err
	}
	return recommendation, nil
}
