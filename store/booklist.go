package store

import (
	"strings"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

var bookListFields = `book_list.id, book_list.owner_id, book_list.name, book_list.description, book_list.is_public,
	book_list.created_ts, book_list.updated_ts,
	(SELECT COUNT(*) FROM book_list_book WHERE book_list_book.list_id = book_list.id)`

func scanBookList(row interface{ Scan(dest ...any) error }) (*model.BookList, error) {
	var list model.BookList
	if err := row.Scan(
		&list.ID,
		&list.OwnerID,
		&list.Name,
		&list.Description,
		&list.IsPublic,
		&list.CreatedTs,
		&list.UpdatedTs,
		&list.BookCount,
	); err != nil {
		return nil, err
	}
	return &list, nil
}

func (s *Store) CreateBookList(ownerID int32, create *model.BookListCreateRequest) (*model.BookList, error) {
	isPublic := true
	if create.IsPublic != nil {
		isPublic = *create.IsPublic
	}
	stmt := `
		INSERT INTO book_list (owner_id, name, description, is_public)
		VALUES (?, ?, ?, ?)
		RETURNING id, owner_id, name, description, is_public, created_ts, updated_ts, 0
	`
	list, err := scanBookList(s.db.QueryRow(stmt, ownerID, create.Name, create.Description, isPublic))
	if err != nil {
		return nil, translateErr(err, "you already have a list with this name")
	}
	return list, nil
}

func (s *Store) GetBookList(find *model.FindBookList) (*model.BookList, error) {
	list, err := s.ListBookLists(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListBookLists(find *model.FindBookList) ([]*model.BookList, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "book_list.id = ?"), append(args, *v)
	}
	if v := find.OwnerID; v != nil {
		where, args = append(where, "book_list.owner_id = ?"), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "book_list.name = ?"), append(args, *v)
	}
	if find.PublicOnly {
		where = append(where, "book_list.is_public = 1")
	}

	query := `SELECT ` + bookListFields + ` FROM book_list WHERE ` + strings.Join(where, " AND ") + ` ORDER BY book_list.updated_ts DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*model.BookList, 0)
	for rows.Next() {
		list, err := scanBookList(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, list)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Store) AddBookToList(listID, bookID int32) error {
	stmt := `INSERT INTO book_list_book (list_id, book_id) VALUES (?, ?)`
	if _, err := s.db.Exec(stmt, listID, bookID); err != nil {
		return translateErr(err, "book is already on this list")
	}
	s.touchBookList(listID)
	return nil
}

func (s *Store) RemoveBookFromList(listID, bookID int32) error {
	stmt := `DELETE FROM book_list_book WHERE list_id = ? AND book_id = ?`
	result, err := s.db.Exec(stmt, listID, bookID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return errs.NotFound("book is not on this list")
	}
	s.touchBookList(listID)
	return nil
}

func (s *Store) ListBooksInList(listID int32) ([]*model.Book, error) {
	query := `SELECT ` + bookFields + ` FROM book
		JOIN book_list_book ON book_list_book.book_id = book.id
		WHERE book_list_book.list_id = ?
		ORDER BY book_list_book.id`

	rows, err := s.db.Query(query, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Book, 0)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, book)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) DeleteBookList(listID int32) error {
	_, err := s.db.Exec(`DELETE FROM book_list WHERE id = ?`, listID)
	return err
}

func (s *Store) touchBookList(listID int32) {
	s.db.Exec("UPDATE book_list SET updated_ts = strftime('%s', 'now') WHERE id = ?", listID)
}
