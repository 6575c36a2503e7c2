package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

var discussionFields = `id, club_id, IFNULL(book_id, 0), IFNULL(session_id, 0), author_id, title, content,
	discussion_type, chapter_number, is_pinned, is_spoiler, created_ts, updated_ts,
	(SELECT COUNT(*) FROM discussion_reply WHERE discussion_reply.discussion_id = discussion.id)`

func scanDiscussion(row interface{ Scan(dest ...any) error }) (*model.Discussion, error) {
	var d model.Discussion
	if err := row.Scan(
		&d.ID,
		&d.ClubID,
		&d.BookID,
		&d.SessionID,
		&d.AuthorID,
		&d.Title,
		&d.Content,
		&d.Type,
		&d.ChapterNumber,
		&d.IsPinned,
		&d.IsSpoiler,
		&d.CreatedTs,
		&d.UpdatedTs,
		&d.ReplyCount,
	); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *Store) CreateDiscussion(clubID, authorID int32, create *model.DiscussionCreateRequest) (*model.Discussion, error) {
	discussionType := create.Type
	if discussionType == "" {
		discussionType = model.DiscussionGeneral
	}
	switch discussionType {
	case model.DiscussionGeneral, model.DiscussionChapter, model.DiscussionReview, model.DiscussionMeeting:
	default:
		return nil, errs.Validation("unknown discussion type %q", discussionType)
	}

	var bookID, sessionID any
	if create.BookID != 0 {
		bookID = create.BookID
	}
	if create.SessionID != 0 {
		sessionID = create.SessionID
	}

	stmt := `
		INSERT INTO discussion (club_id, book_id, session_id, author_id, title, content, discussion_type, chapter_number, is_spoiler)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, club_id, IFNULL(book_id, 0), IFNULL(session_id, 0), author_id, title, content,
			discussion_type, chapter_number, is_pinned, is_spoiler, created_ts, updated_ts, 0
	`
	discussion, err := scanDiscussion(s.db.QueryRow(stmt,
		clubID, bookID, sessionID, authorID,
		create.Title, create.Content, discussionType, create.ChapterNumber, create.IsSpoiler))
	if err != nil {
		return nil, translateErr(err, "failed to create discussion")
	}
	return discussion, nil
}

func (s *Store) GetDiscussion(find *model.FindDiscussion) (*model.Discussion, error) {
	list, err := s.ListDiscussions(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListDiscussions(find *model.FindDiscussion) ([]*model.Discussion, error) {
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
	if v := find.SessionID; v != nil {
		where, args = append(where, "session_id = ?"), append(args, *v)
	}
	if v := find.AuthorID; v != nil {
		where, args = append(where, "author_id = ?"), append(args, *v)
	}
	if v := find.CreatedAfter; v != nil {
		where, args = append(where, "created_ts > ?"), append(args, *v)
	}

	// Pinned discussions float to the top.
	query := `SELECT ` + discussionFields + ` FROM discussion WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY is_pinned DESC, created_ts DESC`
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

	list := make([]*model.Discussion, 0)
	for rows.Next() {
		d, err := scanDiscussion(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) SetDiscussionPinned(discussionID int32, pinned bool) (*model.Discussion, error) {
	stmt := `UPDATE discussion SET is_pinned = ?, updated_ts = strftime('%s', 'now') WHERE id = ?`
	result, err := s.db.Exec(stmt, pinned, discussionID)
	if err != nil {
		return nil, err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return nil, errs.NotFound("discussion %d not found", discussionID)
	}
	return s.GetDiscussion(&model.FindDiscussion{ID: &discussionID})
}

func (s *Store) DeleteDiscussion(discussionID int32) error {
	result, err := s.db.Exec(`DELETE FROM discussion WHERE id = ?`, discussionID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("discussion %d not found", discussionID)
	}
	return nil
}

var replyFields = `id, discussion_id, author_id, content, IFNULL(parent_reply_id, 0), is_spoiler, created_ts, updated_ts`

func scanReply(row interface{ Scan(dest ...any) error }) (*model.DiscussionReply, error) {
	var r model.DiscussionReply
	if err := row.Scan(
		&r.ID,
		&r.DiscussionID,
		&r.AuthorID,
		&r.Content,
		&r.ParentReplyID,
		&r.IsSpoiler,
		&r.CreatedTs,
		&r.UpdatedTs,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) CreateDiscussionReply(discussionID, authorID int32, create *model.ReplyCreateRequest) (*model.DiscussionReply, error) {
	var parentID any
	if create.ParentReplyID != 0 {
		// The parent must belong to the same discussion, otherwise a thread
		// could span two topics.
		var parentDiscussionID int32
		err := s.db.QueryRow(`SELECT discussion_id FROM discussion_reply WHERE id = ?`, create.ParentReplyID).
			Scan(&parentDiscussionID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.NotFound("parent reply %d not found", create.ParentReplyID)
		}
		if err != nil {
			return nil, err
		}
		if parentDiscussionID != discussionID {
			return nil, errs.Validation("parent reply belongs to a different discussion")
		}
		parentID = create.ParentReplyID
	}

	stmt := `
		INSERT INTO discussion_reply (discussion_id, author_id, content, parent_reply_id, is_spoiler)
		VALUES (?, ?, ?, ?, ?)
		RETURNING ` + replyFields

	reply, err := scanReply(s.db.QueryRow(stmt, discussionID, authorID, create.Content, parentID, create.IsSpoiler))
	if err != nil {
		return nil, translateErr(err, "failed to create reply")
	}
	return reply, nil
}

func (s *Store) ListDiscussionReplies(find *model.FindDiscussionReply) ([]*model.DiscussionReply, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.DiscussionID; v != nil {
		where, args = append(where, "discussion_id = ?"), append(args, *v)
	}
	if v := find.ParentReplyID; v != nil {
		if *v == 0 {
			where = append(where, "parent_reply_id IS NULL")
		} else {
			where, args = append(where, "parent_reply_id = ?"), append(args, *v)
		}
	}

	query := `SELECT ` + replyFields + ` FROM discussion_reply WHERE ` +
		strings.Join(where, " AND ") + ` ORDER BY created_ts`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.DiscussionReply, 0)
	for rows.Next() {
		r, err := scanReply(rows)
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
