package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

var userFields = `id, row_status, created_ts, updated_ts, username, role, email, nickname, password_hash, bio, location, website, image_url, image_updated_ts, last_login_ts`

func scanUser(row interface{ Scan(dest ...any) error }) (*model.User, error) {
	var user model.User
	if err := row.Scan(
		&user.ID,
		&user.RowStatus,
		&user.CreatedTs,
		&user.UpdatedTs,
		&user.Username,
		&user.Role,
		&user.Email,
		&user.Nickname,
		&user.PasswordHash,
		&user.Bio,
		&user.Location,
		&user.Website,
		&user.ImageURL,
		&user.ImageUpdatedTs,
		&user.LastLoginTs,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Store) GetUser(find *model.FindUser) (*model.User, error) {
	if find.ID != nil {
		if cache, ok := s.UserCache.Load(*find.ID); ok {
			return cache.(*model.User), nil
		}
	}

	list, err := s.ListUsers(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}

	user := list[0]
	s.UserCache.Store(user.ID, user)
	return user, nil
}

func (s *Store) ListUsers(find *model.FindUser) ([]*model.User, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "id = ?"), append(args, *v)
	}
	if v := find.RowStatus; v != nil {
		where, args = append(where, "row_status = ?"), append(args, *v)
	}
	if v := find.Username; v != nil {
		where, args = append(where, "username = ?"), append(args, *v)
	}
	if v := find.Role; v != nil {
		where, args = append(where, "role = ?"), append(args, *v)
	}
	if v := find.ExcludeRole; v != nil {
		where, args = append(where, "role != ?"), append(args, *v)
	}
	if v := find.Email; v != nil {
		where, args = append(where, "email = ?"), append(args, *v)
	}

	query := `SELECT ` + userFields + ` FROM user WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_ts DESC`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	rows, err := s.db.Query(query, args...)
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

func (s *Store) CreateUser(create *model.User) (*model.User, error) {
	stmt := `
		INSERT INTO user (username, role, email, nickname, password_hash, bio, location, website, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + userFields

	user, err := scanUser(s.db.QueryRow(stmt,
		create.Username,
		create.Role,
		create.Email,
		create.Nickname,
		create.PasswordHash,
		create.Bio,
		create.Location,
		create.Website,
		create.ImageURL,
	))
	if err != nil {
		return nil, translateErr(err, "a user with this username or email already exists")
	}

	s.UserCache.Store(user.ID, user)
	return user, nil
}

type UpdateUser struct {
	ID int32

	Nickname     *string
	Bio          *string
	Location     *string
	Website      *string
	ImageURL     *string
	PasswordHash *string
	Role         *model.Role
	RowStatus    *model.RowStatus
}

func (s *Store) UpdateUser(update *UpdateUser) (*model.User, error) {
	set, args := []string{"updated_ts = ?"}, []any{time.Now().Unix()}

	if v := update.Nickname; v != nil {
		set, args = append(set, "nickname = ?"), append(args, *v)
	}
	if v := update.Bio; v != nil {
		set, args = append(set, "bio = ?"), append(args, *v)
	}
	if v := update.Location; v != nil {
		set, args = append(set, "location = ?"), append(args, *v)
	}
	if v := update.Website; v != nil {
		set, args = append(set, "website = ?"), append(args, *v)
	}
	if v := update.ImageURL; v != nil {
		set, args = append(set, "image_url = ?, image_updated_ts = 0"), append(args, *v)
	}
	if v := update.PasswordHash; v != nil {
		set, args = append(set, "password_hash = ?"), append(args, *v)
	}
	if v := update.Role; v != nil {
		set, args = append(set, "role = ?"), append(args, *v)
	}
	if v := update.RowStatus; v != nil {
		set, args = append(set, "row_status = ?"), append(args, *v)
	}
	args = append(args, update.ID)

	stmt := `UPDATE user SET ` + strings.Join(set, ", ") + ` WHERE id = ? RETURNING ` + userFields
	user, err := scanUser(s.db.QueryRow(stmt, args...))
	if err != nil {
		return nil, errors.Wrap(translateErr(err, "a user with this username or email already exists"), "failed to update user")
	}

	s.UserCache.Store(user.ID, user)
	return user, nil
}

func (s *Store) SetLastLogin(userID int32) error {
	stmt := `UPDATE user SET last_login_ts = ? WHERE id = ?`
	if _, err := s.db.Exec(stmt, time.Now().Unix(), userID); err != nil {
		return errors.Wrap(err, "failed to update last login")
	}
	s.UserCache.Delete(userID)
	return nil
}

// StampUserImageValidated records that the profile image URL passed
// validation.
func (s *Store) StampUserImageValidated(userID int32) error {
	stmt := `UPDATE user SET image_updated_ts = ? WHERE id = ?`
	if _, err := s.db.Exec(stmt, time.Now().Unix(), userID); err != nil {
		return errors.Wrap(err, "failed to stamp user image")
	}
	s.UserCache.Delete(userID)
	return nil
}

// ArchiveUser soft-deletes an account. The HOST account cannot be archived.
func (s *Store) ArchiveUser(userID int32) error {
	user, err := s.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		return err
	}
	if user == nil {
		return errs.NotFound("user %d not found", userID)
	}
	if user.Role == model.RoleHost {
		return errs.State("the host account cannot be archived")
	}

	archived := model.Archived
	_, err = s.UpdateUser(&UpdateUser{ID: userID, RowStatus: &archived})
	return err
}
