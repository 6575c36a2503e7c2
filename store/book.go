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

func (s *Store) CreateAuthor(create *model.Author) (*model.Author, error) {
	stmt := `
		INSERT INTO author (first_name, last_name, bio, website)
		VALUES (?, ?, ?, ?)
		RETURNING id, first_name, last_name, bio, website, created_ts, updated_ts
	`
	var author model.Author
	if err := s.db.QueryRow(stmt, create.FirstName, create.LastName, create.Bio, create.Website).Scan(
		&author.ID,
		&author.FirstName,
		&author.LastName,
		&author.Bio,
		&author.Website,
		&author.CreatedTs,
		&author.UpdatedTs,
	); err != nil {
		return nil, translateErr(err, "an author with this name already exists")
	}
	return &author, nil
}

func (s *Store) GetAuthor(find *model.FindAuthor) (*model.Author, error) {
	list, err := s.ListAuthors(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListAuthors(find *model.FindAuthor) ([]*model.Author, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "author.id = ?"), append(args, *v)
	}
	if v := find.FirstName; v != nil {
		where, args = append(where, "author.first_name = ?"), append(args, *v)
	}
	if v := find.LastName; v != nil {
		where, args = append(where, "author.last_name = ?"), append(args, *v)
	}

	from := "author"
	if v := find.BookID; v != nil {
		from += " JOIN book_author ON book_author.author_id = author.id"
		where, args = append(where, "book_author.book_id = ?"), append(args, *v)
	}

	query := `SELECT author.id, author.first_name, author.last_name, author.bio, author.website, author.created_ts, author.updated_ts FROM ` +
		from + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY author.last_name, author.first_name`
	if v := find.Limit; v != nil {
		query += fmt.Sprintf(" LIMIT %d", *v)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Author, 0)
	for rows.Next() {
		var author model.Author
		if err := rows.Scan(
			&author.ID,
			&author.FirstName,
			&author.LastName,
			&author.Bio,
			&author.Website,
			&author.CreatedTs,
			&author.UpdatedTs,
		); err != nil {
			return nil, err
		}
		list = append(list, &author)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// GetOrCreateAuthor resolves an author by exact name, creating the record
// when it does not exist yet.
func (s *Store) GetOrCreateAuthor(firstName, lastName string) (*model.Author, error) {
	author, err := s.GetAuthor(&model.FindAuthor{FirstName: &firstName, LastName: &lastName})
	if err != nil {
		return nil, err
	}
	if author != nil {
		return author, nil
	}
	return s.CreateAuthor(&model.Author{FirstName: firstName, LastName: lastName})
}

func (s *Store) CreateGenre(create *model.Genre) (*model.Genre, error) {
	stmt := `
		INSERT INTO genre (name, description)
		VALUES (?, ?)
		RETURNING id, name, description, created_ts
	`
	var genre model.Genre
	if err := s.db.QueryRow(stmt, create.Name, create.Description).Scan(
		&genre.ID,
		&genre.Name,
		&genre.Description,
		&genre.CreatedTs,
	); err != nil {
		return nil, translateErr(err, "a genre with this name already exists")
	}
	return &genre, nil
}

func (s *Store) GetGenre(find *model.FindGenre) (*model.Genre, error) {
	list, err := s.ListGenres(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListGenres(find *model.FindGenre) ([]*model.Genre, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "genre.id = ?"), append(args, *v)
	}
	if v := find.Name; v != nil {
		where, args = append(where, "genre.name = ?"), append(args, *v)
	}

	from := "genre"
	if v := find.BookID; v != nil {
		from += " JOIN book_genre ON book_genre.genre_id = genre.id"
		where, args = append(where, "book_genre.book_id = ?"), append(args, *v)
	}

	query := `SELECT genre.id, genre.name, genre.description, genre.created_ts FROM ` +
		from + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY genre.name`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]*model.Genre, 0)
	for rows.Next() {
		var genre model.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Description, &genre.CreatedTs); err != nil {
			return nil, err
		}
		list = append(list, &genre)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) GetOrCreateGenre(name string) (*model.Genre, error) {
	genre, err := s.GetGenre(&model.FindGenre{Name: &name})
	if err != nil {
		return nil, err
	}
	if genre != nil {
		return genre, nil
	}
	return s.CreateGenre(&model.Genre{Name: name})
}

// bookFields is selected with the aggregate rating subquery so a single scan
// covers the derived column.
var bookFields = `book.id, book.title, book.subtitle, IFNULL(book.isbn, ''), book.description, book.publication_date,
	book.publisher, book.page_count, book.language, book.image_url, book.image_updated_ts,
	IFNULL(book.external_id, ''), book.source, book.created_ts, book.updated_ts,
	(SELECT AVG(rating) FROM review WHERE review.book_id = book.id)`

func scanBook(row interface{ Scan(dest ...any) error }) (*model.Book, error) {
	var book model.Book
	var avg sql.NullFloat64
	if err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Subtitle,
		&book.ISBN,
		&book.Description,
		&book.PublicationDate,
		&book.Publisher,
		&book.PageCount,
		&book.Language,
		&book.ImageURL,
		&book.ImageUpdatedTs,
		&book.ExternalID,
		&book.Source,
		&book.CreatedTs,
		&book.UpdatedTs,
		&avg,
	); err != nil {
		return nil, err
	}
	if avg.Valid {
		book.AverageRating = &avg.Float64
	}
	return &book, nil
}

func (s *Store) GetBook(find *model.FindBook) (*model.Book, error) {
	list, err := s.ListBooks(find)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (s *Store) ListBooks(find *model.FindBook) ([]*model.Book, error) {
	where, args := []string{"1 = 1"}, []any{}

	if v := find.ID; v != nil {
		where, args = append(where, "book.id = ?"), append(args, *v)
	}
	if v := find.Title; v != nil {
		where, args = append(where, "book.title = ?"), append(args, *v)
	}
	if v := find.ISBN; v != nil {
		where, args = append(where, "book.isbn = ?"), append(args, *v)
	}
	if v := find.ExternalID; v != nil {
		where, args = append(where, "book.external_id = ?"), append(args, *v)
	}
	if v := find.Source; v != nil {
		where, args = append(where, "book.source = ?"), append(args, *v)
	}
	if v := find.Search; v != nil {
		pattern := "%" + *v + "%"
		where = append(where, "(book.title LIKE ? OR book.subtitle LIKE ? OR book.description LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}

	from := "book"
	if v := find.GenreID; v != nil {
		from += " JOIN book_genre ON book_genre.book_id = book.id"
		where, args = append(where, "book_genre.genre_id = ?"), append(args, *v)
	}
	if v := find.AuthorID; v != nil {
		from += " JOIN book_author ON book_author.book_id = book.id"
		where, args = append(where, "book_author.author_id = ?"), append(args, *v)
	}

	query := `SELECT ` + bookFields + ` FROM ` + from + ` WHERE ` + strings.Join(where, " AND ") + ` ORDER BY book.created_ts DESC`
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

func (s *Store) CountBooks(find *model.FindBook) (int, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.Search; v != nil {
		pattern := "%" + *v + "%"
		where = append(where, "(book.title LIKE ? OR book.subtitle LIKE ? OR book.description LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	var count int
	query := `SELECT COUNT(*) FROM book WHERE ` + strings.Join(where, " AND ")
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (s *Store) CreateBook(create *model.BookCreateRequest) (*model.Book, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var isbn, externalID any
	if create.ISBN != "" {
		isbn = create.ISBN
	}
	if create.ExternalID != "" {
		externalID = create.ExternalID
	}
	source := create.Source
	if source == "" {
		source = model.SourceManual
	}
	language := create.Language
	if language == "" {
		language = "English"
	}

	// RETURNING cannot carry the rating subquery, and a fresh book has no
	// reviews anyway.
	stmt := `
		INSERT INTO book (title, subtitle, isbn, description, publication_date, publisher, page_count, language, image_url, external_id, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, title, subtitle, IFNULL(isbn, ''), description, publication_date, publisher, page_count,
			language, image_url, image_updated_ts, IFNULL(external_id, ''), source, created_ts, updated_ts, NULL
	`
	book, err := scanBook(tx.QueryRow(stmt,
		create.Title,
		create.Subtitle,
		isbn,
		create.Description,
		create.PublicationDate,
		create.Publisher,
		create.PageCount,
		language,
		create.ImageURL,
		externalID,
		source,
	))
	if err != nil {
		return nil, translateErr(err, "a book with this isbn or external id already exists")
	}

	for _, authorID := range create.AuthorIDs {
		if _, err := tx.Exec(`INSERT INTO book_author (book_id, author_id) VALUES (?, ?)`, book.ID, authorID); err != nil {
			return nil, translateErr(err, "author already linked to this book")
		}
	}
	for _, genreID := range create.GenreIDs {
		if _, err := tx.Exec(`INSERT INTO book_genre (book_id, genre_id) VALUES (?, ?)`, book.ID, genreID); err != nil {
			return nil, translateErr(err, "genre already linked to this book")
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return book, nil
}

// GetOrCreateBookByExternalID deduplicates imported records on their
// (external_id, source) identity.
func (s *Store) GetOrCreateBookByExternalID(create *model.BookCreateRequest) (*model.Book, bool, error) {
	if create.ExternalID == "" {
		return nil, false, errs.Validation("external_id is required")
	}
	if create.Source == "" || create.Source == model.SourceManual {
		return nil, false, errs.Validation("an import source is required")
	}

	existing, err := s.GetBook(&model.FindBook{ExternalID: &create.ExternalID, Source: &create.Source})
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	book, err := s.CreateBook(create)
	if err != nil {
		// A concurrent import may have won the race, fall back to the lookup.
		if errs.Is(err, errs.KindConflict) {
			existing, lookupErr := s.GetBook(&model.FindBook{ExternalID: &create.ExternalID, Source: &create.Source})
			if lookupErr == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return book, true, nil
}

// StampBookImageValidated records that the cover URL passed validation.
func (s *Store) StampBookImageValidated(bookID int32) error {
	stmt := `UPDATE book SET image_updated_ts = ? WHERE id = ?`
	if _, err := s.db.Exec(stmt, time.Now().Unix(), bookID); err != nil {
		return errors.Wrap(err, "failed to stamp book image")
	}
	return nil
}

// SetBookImageURL replaces the cover URL, typically with the placeholder
// after validation gave up on the original.
func (s *Store) SetBookImageURL(bookID int32, imageURL string) error {
	stmt := `UPDATE book SET image_url = ?, image_updated_ts = ?, updated_ts = ? WHERE id = ?`
	now := time.Now().Unix()
	if _, err := s.db.Exec(stmt, imageURL, now, now, bookID); err != nil {
		return errors.Wrap(err, "failed to set book image url")
	}
	return nil
}
