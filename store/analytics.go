package store

import (
	"time"

	"github.com/litcircle/litcircle/model"
)

// AnalyticsOverview is the service-wide counter block for staff dashboards.
type AnalyticsOverview struct {
	TotalUsers       int `json:"total_users"`
	ActiveUsers      int `json:"active_users"`
	TotalClubs       int `json:"total_clubs"`
	PublicClubs      int `json:"public_clubs"`
	TotalBooks       int `json:"total_books"`
	TotalReviews     int `json:"total_reviews"`
	TotalDiscussions int `json:"total_discussions"`
	ActiveSessions   int `json:"active_sessions"`
	NewUsersThisWeek int `json:"new_users_this_week"`
}

func (s *Store) GetAnalyticsOverview(now time.Time) (*AnalyticsOverview, error) {
	overview := &AnalyticsOverview{}
	weekAgo := now.AddDate(0, 0, -7).Unix()
	today := now.Format(model.DateLayout)

	counts := []struct {
		query string
		args  []any
		dest  *int
	}{
		{`SELECT COUNT(*) FROM user`, nil, &overview.TotalUsers},
		{`SELECT COUNT(*) FROM user WHERE row_status = 'NORMAL'`, nil, &overview.ActiveUsers},
		{`SELECT COUNT(*) FROM club`, nil, &overview.TotalClubs},
		{`SELECT COUNT(*) FROM club WHERE is_private = 0`, nil, &overview.PublicClubs},
		{`SELECT COUNT(*) FROM book`, nil, &overview.TotalBooks},
		{`SELECT COUNT(*) FROM review`, nil, &overview.TotalReviews},
		{`SELECT COUNT(*) FROM discussion`, nil, &overview.TotalDiscussions},
		{`SELECT COUNT(*) FROM reading_session
			WHERE start_date <= ? AND end_date >= ? AND status NOT IN ('completed', 'cancelled')`,
			[]any{today, today}, &overview.ActiveSessions},
		{`SELECT COUNT(*) FROM user WHERE created_ts > ?`, []any{weekAgo}, &overview.NewUsersThisWeek},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query, c.args...).Scan(c.dest); err != nil {
			return nil, err
		}
	}
	return overview, nil
}

// TopBook pairs a book with its review tally for the ranking endpoint.
type TopBook struct {
	Book          *model.Book `json:"book"`
	ReviewCount   int         `json:"review_count"`
	AverageRating float64     `json:"average_rating"`
}

func (s *Store) ListTopBooks(limit int) ([]*TopBook, error) {
	query := `SELECT book_id, COUNT(*), AVG(rating) FROM review
		GROUP BY book_id ORDER BY COUNT(*) DESC, AVG(rating) DESC LIMIT ?`
	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	type ranked struct {
		bookID int32
		count  int
		avg    float64
	}
	rankedList := []ranked{}
	for rows.Next() {
		var r ranked
		if err := rows.Scan(&r.bookID, &r.count, &r.avg); err != nil {
			return nil, err
		}
		rankedList = append(rankedList, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	list := make([]*TopBook, 0, len(rankedList))
	for _, r := range rankedList {
		book, err := s.GetBook(&model.FindBook{ID: &r.bookID})
		if err != nil {
			return nil, err
		}
		if book == nil {
			continue
		}
		list = append(list, &TopBook{Book: book, ReviewCount: r.count, AverageRating: r.avg})
	}
	return list, nil
}

// ClubReadCount pairs a club with how many sessions it has finished.
type ClubReadCount struct {
	Club      *model.Club `json:"club"`
	BooksRead int         `json:"books_read"`
}

// ListClubReadCounts ranks clubs by completed reading sessions.
func (s *Store) ListClubReadCounts(limit int) ([]*ClubReadCount, error) {
	order := `(SELECT COUNT(*) FROM reading_session
		WHERE reading_session.club_id = club.id AND reading_session.status = 'completed') DESC`
	clubs, err := s.ListClubs(&model.FindClub{OrderBy: &order, Limit: &limit})
	if err != nil {
		return nil, err
	}

	list := make([]*ClubReadCount, 0, len(clubs))
	for _, club := range clubs {
		var count int
		if err := s.db.QueryRow(
			`SELECT COUNT(*) FROM reading_session WHERE club_id = ? AND status = 'completed'`,
			club.ID,
		).Scan(&count); err != nil {
			return nil, err
		}
		list = append(list, &ClubReadCount{Club: club, BooksRead: count})
	}
	return list, nil
}

// TopClub pairs a club with its activity tallies.
type TopClub struct {
	Club            *model.Club `json:"club"`
	DiscussionCount int         `json:"discussion_count"`
}

func (s *Store) ListTopClubs(limit int) ([]*TopClub, error) {
	order := `(SELECT COUNT(*) FROM discussion WHERE discussion.club_id = club.id) DESC`
	public := false
	clubs, err := s.ListClubs(&model.FindClub{IsPrivate: &public, OrderBy: &order, Limit: &limit})
	if err != nil {
		return nil, err
	}

	list := make([]*TopClub, 0, len(clubs))
	for _, club := range clubs {
		var count int
		if err := s.db.QueryRow(`SELECT COUNT(*) FROM discussion WHERE club_id = ?`, club.ID).Scan(&count); err != nil {
			return nil, err
		}
		list = append(list, &TopClub{Club: club, DiscussionCount: count})
	}
	return list, nil
}
