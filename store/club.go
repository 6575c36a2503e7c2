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

var clubFields = `club.id, club.name, club.description, club.creator_id, club.category, club.is_private,
	club.max_members, club.location, club.meeting_frequency, club.image_url, club.image_updated_ts,
	IFNULL(club.external_id, ''), club.source, club.created_ts, club.updated_ts,
	(SELECT COUNT(*) FROM membership WHERE membership.club_id = club.id AND membership.is_active = 1)`

func scanClub(row interface{ Scan(dest ...any) error }) (*model.Club, error) {
	var club model.Club
	if err := row.Scan(
		&club.ID,
		&club.Name,
		&club.Description,
		&club.CreatorID,
		&club.Category,
		&club.IsPrivate,
		&club.MaxMembers,
		&club.Location,
		&club.MeetingFrequency,
		&club.ImageURL,
		&club.ImageUpdatedTs,
		&club.ExternalID,
		&club.Source,
		&club.CreatedTs,
		&club.UpdatedTs,
		&club.MemberCount,
	); err != nil {
		return nil, err
	}
	return &club, nil
}

// CreateClub inserts the club and the creator's admin membership in one
// transaction, so a club can never exist without its creator as a member.
func (s *Store) CreateClub(creatorID int32, create *model.ClubCreateRequest) (*model.Club, error) {
	maxMembers := create.MaxMembers
	if maxMembers == 0 {
		maxMembers = model.DefaultClubMembers
	}
	if maxMembers < model.MinClubMembers || maxMembers > model.MaxClubMembers {
		return nil, errs.Validation("max_members must be between %d and %d", model.MinClubMembers, model.MaxClubMembers)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var duplicates int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM club WHERE creator_id = ? AND name = ?`, creatorID, create.Name).
		Scan(&duplicates); err != nil {
		return nil, err
	}
	if duplicates > 0 {
		return nil, errs.Validation("you already have a club with this name")
	}

	stmt := `
		INSERT INTO club (name, description, creator_id, category, is_private, max_members, location, meeting_frequency, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, name, description, creator_id, category, is_private, max_members, location, meeting_frequency,
			image_url, image_updated_ts, IFNULL(external_id, ''), source, created_ts, updated_ts, 0
	`
	club, err := scanClub(tx.QueryRow(stmt,
		create.Name,
		create.Description,
		creatorID,
		create.Category,
		create.IsPrivate,
		maxMembers,
		create.Location,
		create.MeetingFrequency,
		create.ImageURL,
	))
	if err != nil {
		return nil, translateErr(err, "failed to create club")
	}

	if _, err := tx.Exec(
		`INSERT INTO membership (user_id, club_id, role, is_active) VALUES (?, ?, ?, 1)`,
		creatorID, club.ID, model.MembershipRoleAdmin,
	); err != nil {
		return nil, errors.Wrap(err, "failed to create creator membership")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	club.MemberCount = 1
	return club, nil
}

func (s *Store) GetClub(find *model.FindClub) (*model.Club, error) {
	list, err := s.ListClubs(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func clubFilter(find *model.FindClub) (string, []string, []any) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "club.id = ?"), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "club.name = ?"), append(args, *v)
	}
	if v := find.CreatorID; v != nil {
		where, args = append(where, "club.creator_id = ?"), append(args, *v)
	}
	if v := find.IsPrivate; v != nil {
		where, args = append(where, "club.is_private = ?"), append(args, *v)
	}
	if v := find.ExternalID; v != nil {
		where, args = append(where, "club.external_id = ?"), append(args, *v)
	}
	if v := find.Source; v != nil {
		where, args = append(where, "club.source = ?"), append(args, *v)
	}
	if v := find.Search; v != nil {
		pattern := "%" + *v + "%"
		where = append(where, "(club.name LIKE ? OR club.description LIKE ? OR club.location LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if v := find.VisibleTo; v != nil {
		// Public clubs, clubs the user created, clubs the user actively
		// belongs to.
		where = append(where, `(club.is_private = 0 OR club.creator_id = ? OR EXISTS (
			SELECT 1 FROM membership WHERE membership.club_id = club.id AND membership.user_id = ? AND membership.is_active = 1))`)
		args = append(args, *v, *v)
	}

	from := "club"
	if v := find.MemberID; v != nil {
		from += " JOIN membership ON membership.club_id = club.id"
		where = append(where, "membership.user_id = ?", "membership.is_active = 1")
		args = append(args, *v)
	}
	return from, where, args
}

func (s *Store) ListClubs(find *model.FindClub) ([]*model.Club, error) {
	from, where, args := clubFilter(find)

	orderBy := "club.created_ts DESC"
	if v := find.OrderBy; v != nil {
		orderBy = *v
	}

	query := `SELECT ` + clubFields + ` FROM ` + from + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY ` + orderBy
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

	list := make([]*model.Club, 0)
	for rows.Next() {
		club, err := scanClub(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, club)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) CountClubs(find *model.FindClub) (int, error) {
	from, where, args := clubFilter(find)
	var count int
	query := `SELECT COUNT(DISTINCT club.id) FROM ` + from + ` WHERE ` + strings.Join(where, " AND ")
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) UpdateClub(clubID int32, update *model.ClubUpdateRequest) (*model.Club, error) {
	set, args := []string{"updated_ts = ?"}, []any{time.Now().Unix()}

	if v := update.Name; v != nil {
		set, args = append(set, "name = ?"), append(args, *v)
	}
	if v := update.Description; v != nil {
		set, args = append(set, "description = ?"), append(args, *v)
	}
	if v := update.Category; v != nil {
		set, args = append(set, "category = ?"), append(args, *v)
	}
	if v := update.IsPrivate; v != nil {
		set, args = append(set, "is_private = ?"), append(args, *v)
	}
	if v := update.MaxMembers; v != nil {
		if *v < model.MinClubMembers || *v > model.MaxClubMembers {
			return nil, errs.Validation("max_members must be between %d and %d", model.MinClubMembers, model.MaxClubMembers)
		}
		set, args = append(set, "max_members = ?"), append(args, *v)
	}
	if v := update.Location; v != nil {
		set, args = append(set, "location = ?"), append(args, *v)
	}
	if v := update.MeetingFrequency; v != nil {
		set, args = append(set, "meeting_frequency = ?"), append(args, *v)
	}
	if v := update.ImageURL; v != nil {
		set, args = append(set, "image_url = ?, image_updated_ts = 0"), append(args, *v)
	}
	args = append(args, clubID)

	stmt := `UPDATE club SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	if _, err := s.db.Exec(stmt, args...); err != nil {
		return nil, errors.Wrap(err, "failed to update club")
	}
	return s.GetClub(&model.FindClub{ID: &clubID})
}

// StampClubImageValidated records that the club image URL passed validation.
func (s *Store) StampClubImageValidated(clubID int32) error {
	if _, err := s.db.Exec(`UPDATE club SET image_updated_ts = ? WHERE id = ?`, time.Now().Unix(), clubID); err != nil {
		return errors.Wrap(err, "failed to stamp club image")
	}
	return nil
}

func (s *Store) SetClubImageURL(clubID int32, imageURL string) error {
	if _, err := s.db.Exec(`UPDATE club SET image_url = ?, image_updated_ts = 0 WHERE id = ?`, imageURL, clubID); err != nil {
		return errors.Wrap(err, "failed to set club image url")
	}
	return nil
}

func (s *Store) DeleteClub(clubID int32) error {
	result, err := s.db.Exec(`DELETE FROM club WHERE id = ?`, clubID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("club %d not found", clubID)
	}
	return nil
}

func scanMembership(row interface{ Scan(dest ...any) error }) (*model.Membership, error) {
	var m model.Membership
	if err := row.Scan(&m.ID, &m.UserID, &m.ClubID, &m.Role, &m.IsActive, &m.JoinedTs); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) GetMembership(find *model.FindMembership) (*model.Membership, error) {
	list, err := s.ListMemberships(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListMemberships(find *model.FindMembership) ([]*model.Membership, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.UserID; v != nil {
		where, args = append(where, "user_id = ?"), append(args, *v)
	}
	if v := find.ClubID; v != nil {
		where, args = append(where, "club_id = ?"), append(args, *v)
	}
	if v := find.Role; v != nil {
		where, args = append(where, "role = ?"), append(args, *v)
	}
	if find.ActiveOnly {
		where = append(where, "is_active = 1")
	}

	query := `SELECT id, user_id, club_id, role, is_active, joined_ts FROM membership WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY joined_ts`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, m)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// JoinClub activates a membership for the user. The capacity and privacy
// checks run inside the transaction so concurrent joins cannot overfill a
// club. Rejoining after a leave reuses the deactivated row.
func (s *Store) JoinClub(userID, clubID int32) (*model.Membership, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var isPrivate bool
	var creatorID int32
	var maxMembers int
	err = tx.QueryRow(`SELECT is_private, creator_id, max_members FROM club WHERE id = ?`, clubID).
		Scan(&isPrivate, &creatorID, &maxMembers)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("club %d not found", clubID)
	}
	if err != nil {
		return nil, err
	}

	// The membership check comes before the privacy check so an existing
	// member of a private club gets Conflict, not Forbidden.
	var existingID int32
	var isActive bool
	err = tx.QueryRow(`SELECT id, is_active FROM membership WHERE user_id = ? AND club_id = ?`, userID, clubID).
		Scan(&existingID, &isActive)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil && isActive {
		return nil, errs.Conflict("you are already a member of this club")
	}

	if isPrivate && creatorID != userID {
		return nil, errs.Forbidden("this club is private")
	}

	var activeCount int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM membership WHERE club_id = ? AND is_active = 1`, clubID).
		Scan(&activeCount); err != nil {
		return nil, err
	}
	if activeCount >= maxMembers {
		return nil, errs.Capacity("this club is full")
	}

	var membership *model.Membership
	if existingID != 0 {
		membership, err = scanMembership(tx.QueryRow(
			`UPDATE membership SET is_active = 1, joined_ts = ? WHERE id = ?
			 RETURNING id, user_id, club_id, role, is_active, joined_ts`,
			time.Now().Unix(), existingID))
	} else {
		membership, err = scanMembership(tx.QueryRow(
			`INSERT INTO membership (user_id, club_id, role, is_active) VALUES (?, ?, ?, 1)
			 RETURNING id, user_id, club_id, role, is_active, joined_ts`,
			userID, clubID, model.MembershipRoleMember))
	}
	if err != nil {
		return nil, translateErr(err, "you are already a member of this club")
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return membership, nil
}

// LeaveClub deactivates the membership instead of deleting it, preserving
// the join history. The creator cannot leave their own club.
func (s *Store) LeaveClub(userID, clubID int32) error {
	club, err := s.GetClub(&model.FindClub{ID: &clubID})
	if err != nil {
		return err
	}
	if club == nil {
		return errs.NotFound("club %d not found", clubID)
	}
	if club.CreatorID == userID {
		return errs.State("the creator cannot leave their own club")
	}

	result, err := s.db.Exec(
		`UPDATE membership SET is_active = 0 WHERE user_id = ? AND club_id = ? AND is_active = 1`,
		userID, clubID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("you are not a member of this club")
	}
	return nil
}

// SetMembershipRole changes a member's role inside the club.
func (s *Store) SetMembershipRole(clubID, userID int32, role model.MembershipRole) (*model.Membership, error) {
	membership, err := scanMembership(s.db.QueryRow(
		`UPDATE membership SET role = ? WHERE club_id = ? AND user_id = ? AND is_active = 1
		 RETURNING id, user_id, club_id, role, is_active, joined_ts`,
		role, clubID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("membership not found")
	}
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// GetMyClubs gathers the caller's created and joined clubs with counters.
func (s *Store) GetMyClubs(userID int32) (*model.MyClubsResult, error) {
	clubs, err := s.ListClubs(&model.FindClub{MemberID: &userID})
	if err != nil {
		return nil, err
	}

	result := &model.MyClubsResult{Clubs: clubs}
	for _, club := range clubs {
		if club.CreatorID == userID {
			result.CreatedCount++
		} else {
			result.MemberCount++
		}
	}
	result.TotalCount = len(clubs)
	return result, nil
}

// GetClubStats assembles the aggregate view of one club.
func (s *Store) GetClubStats(clubID int32, now time.Time) (*model.ClubStats, error) {
	club, err := s.GetClub(&model.FindClub{ID: &clubID})
	if err != nil {
		return nil, err
	}
	if club == nil {
		return nil, errs.NotFound("club %d not found", clubID)
	}

	creator, err := s.GetUser(&model.FindUser{ID: &club.CreatorID})
	if err != nil {
		return nil, err
	}

	stats := &model.ClubStats{
		ID:          club.ID,
		Name:        club.Name,
		Description: club.Description,
		Creator:     creator,
		MemberCount: club.MemberCount,
		CreatedTs:   club.CreatedTs,
	}

	today := now.Format(model.DateLayout)
	currentSession, err := s.GetReadingSession(&model.FindReadingSession{ClubID: &clubID, CurrentOn: &today})
	if err != nil {
		return nil, err
	}
	if currentSession != nil {
		stats.CurrentBook, err = s.GetBook(&model.FindBook{ID: &currentSession.BookID})
		if err != nil {
			return nil, err
		}
	}

	completed := model.SessionCompleted
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM reading_session WHERE club_id = ? AND status = ?`,
		clubID, completed,
	).Scan(&stats.TotalBooksRead); err != nil {
		return nil, err
	}

	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM discussion WHERE club_id = ?`, clubID,
	).Scan(&stats.ActiveDiscussions); err != nil {
		return nil, err
	}

	weekAgo := now.AddDate(0, 0, -7).Unix()
	activity := &model.ClubActivity{Period: "last_7_days"}
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM discussion WHERE club_id = ? AND created_ts > ?`,
		clubID, weekAgo,
	).Scan(&activity.NewDiscussions); err != nil {
		return nil, err
	}
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM review
		 JOIN reading_session ON review.session_id = reading_session.id
		 WHERE reading_session.club_id = ? AND review.created_ts > ?`,
		clubID, weekAgo,
	).Scan(&activity.NewReviews); err != nil {
		return nil, err
	}
	stats.RecentActivity = activity

	return stats, nil
}

// DiscoverClubs builds the public discovery page: the fullest clubs, the
// newest ones and the most discussed ones, five of each.
func (s *Store) DiscoverClubs() (*model.ClubDiscoveryResult, error) {
	public := false
	limit := 5

	featuredOrder := `(SELECT COUNT(*) FROM membership WHERE membership.club_id = club.id AND membership.is_active = 1) DESC`
	featured, err := s.ListClubs(&model.FindClub{IsPrivate: &public, OrderBy: &featuredOrder, Limit: &limit})
	if err != nil {
		return nil, err
	}

	recentOrder := "club.created_ts DESC"
	recent, err := s.ListClubs(&model.FindClub{IsPrivate: &public, OrderBy: &recentOrder, Limit: &limit})
	if err != nil {
		return nil, err
	}

	popularOrder := `(SELECT COUNT(*) FROM discussion WHERE discussion.club_id = club.id) DESC`
	popular, err := s.ListClubs(&model.FindClub{IsPrivate: &public, OrderBy: &popularOrder, Limit: &limit})
	if err != nil {
		return nil, err
	}

	total, err := s.CountClubs(&model.FindClub{IsPrivate: &public})
	if err != nil {
		return nil, err
	}

	return &model.ClubDiscoveryResult{
		Featured:         featured,
		Recent:           recent,
		Popular:          popular,
		TotalPublicClubs: total,
	}, nil
}
