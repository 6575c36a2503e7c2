package store

import (
	"strings"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

// Follow creates the edge if it does not exist yet. Following someone twice
// is a no-op, following yourself is rejected.
func (s *Store) Follow(followerID, followingID int32) (*model.Follow, error) {
	if followerID == followingID {
		return nil, errs.Validation("you cannot follow yourself")
	}

	stmt := `
		INSERT INTO follow (follower_id, following_id)
		VALUES (?, ?)
		ON CONFLICT(follower_id, following_id) DO UPDATE SET follower_id=EXCLUDED.follower_id
		RETURNING id, follower_id, following_id, created_ts
	`
	var follow model.Follow
	if err := s.db.QueryRow(stmt, followerID, followingID).Scan(
		&follow.ID,
		&follow.FollowerID,
		&follow.FollowingID,
		&follow.CreatedTs,
	); err != nil {
		return nil, translateErr(err, "failed to follow user")
	}
	return &follow, nil
}

// Unfollow removes the edge. Removing a missing edge is a no-op.
func (s *Store) Unfollow(followerID, followingID int32) error {
	_, err := s.db.Exec(`DELETE FROM follow WHERE follower_id = ? AND following_id = ?`, followerID, followingID)
	return err
}

func (s *Store) IsFollowing(followerID, followingID int32) (bool, error) {
	var count int
	if err := s.db.QueryRow(
		`SELECT COUNT(*) FROM follow WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID,
	).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *Store) ListFollows(find *model.FindFollow) ([]*model.Follow, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.FollowerID; v != nil {
		where, args = append(where, "follower_id = ?"), append(args, *v)
	}
	if v := find.FollowingID; v != nil {
		where, args = append(where, "following_id = ?"), append(args, *v)
	}

	query := `SELECT id, follower_id, following_id, created_ts FROM follow WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_ts DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Follow, 0)
	for rows.Next() {
		var follow model.Follow
		if err := rows.Scan(&follow.ID, &follow.FollowerID, &follow.FollowingID, &follow.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, &follow)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

var followUserFields = `user.id, user.row_status, user.created_ts, user.updated_ts, user.username, user.role,
	user.email, user.nickname, user.password_hash, user.bio, user.location, user.website,
	user.image_url, user.image_updated_ts, user.last_login_ts`

// ListFollowers returns the accounts following the given user.
func (s *Store) ListFollowers(userID int32) ([]*model.User, error) {
	return s.listFollowUsers(`SELECT `+followUserFields+` FROM user
		JOIN follow ON follow.follower_id = user.id WHERE follow.following_id = ?
		ORDER BY follow.created_ts DESC`, userID)
}

// ListFollowing returns the accounts the given user follows.
func (s *Store) ListFollowing(userID int32) ([]*model.User, error) {
	return s.listFollowUsers(`SELECT `+followUserFields+` FROM user
		JOIN follow ON follow.following_id = user.id WHERE follow.follower_id = ?
		ORDER BY follow.created_ts DESC`, userID)
}

func (s *Store) listFollowUsers(query string, userID int32) ([]*model.User, error) {
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
