package store

import (
	"testing"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

func TestCreateBookLinksAuthorsAndGenres(t *testing.T) {
	s := newTestStore(t, "book_create")

	author, err := s.GetOrCreateAuthor("Frank", "Herbert")
	if err != nil {
		t.Fatalf("Failed to create author: %v", err)
	}
	genre, err := s.GetOrCreateGenre("Science Fiction")
	if err != nil {
		t.Fatalf("Failed to create genre: %v", err)
	}

	book, err := s.CreateBook(&model.BookCreateRequest{
		Title:     "Dune",
		ISBN:      "9780441172719",
		PageCount: 412,
		AuthorIDs: []int32{author.ID},
		GenreIDs:  []int32{genre.ID},
	})
	if err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}

	byAuthor, err := s.ListBooks(&model.FindBook{AuthorID: &author.ID})
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}
	if len(byAuthor) != 1 || byAuthor[0].ID != book.ID {
		t.Errorf("Author filter did not return the book: %v", byAuthor)
	}

	byGenre, err := s.ListBooks(&model.FindBook{GenreID: &genre.ID})
	if err != nil {
		t.Fatalf("Failed to list books: %v", err)
	}
	if len(byGenre) != 1 || byGenre[0].ID != book.ID {
		t.Errorf("Genre filter did not return the book: %v", byGenre)
	}
}

func TestCreateBookDuplicateISBN(t *testing.T) {
	s := newTestStore(t, "book_isbn")

	if _, err := s.CreateBook(&model.BookCreateRequest{Title: "Dune", ISBN: "9780441172719"}); err != nil {
		t.Fatalf("Failed to create book: %v", err)
	}
	_, err := s.CreateBook(&model.BookCreateRequest{Title: "Dune again", ISBN: "9780441172719"})
	if !errs.Is(err, errs.KindConflict) {
		t.Errorf("Expected conflict error, got %v", err)
	}
}

func TestGetOrCreateAuthorDedupes(t *testing.T) {
	s := newTestStore(t, "book_author_dedupe")

	first, err := s.GetOrCreateAuthor("Ursula", "Le Guin")
	if err != nil {
		t.Fatalf("Failed to create author: %v", err)
	}
	second, err := s.GetOrCreateAuthor("Ursula", "Le Guin")
	if err != nil {
		t.Fatalf("Failed to get author: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Author duplicated: %d != %d", first.ID, second.ID)
	}
}

func TestGetOrCreateBookByExternalID(t *testing.T) {
	s := newTestStore(t, "book_external")

	create := &model.BookCreateRequest{
		Title:      "The Dispossessed",
		ExternalID: "gb-123",
		Source:     model.SourceGoogleBooks,
	}

	book, created, err := s.GetOrCreateBookByExternalID(create)
	if err != nil {
		t.Fatalf("Failed to import book: %v", err)
	}
	if !created {
		t.Error("Expected first import to create the book")
	}

	again, created, err := s.GetOrCreateBookByExternalID(create)
	if err != nil {
		t.Fatalf("Failed to re-import book: %v", err)
	}
	if created {
		t.Error("Second import created a duplicate")
	}
	if again.ID != book.ID {
		t.Errorf("Re-import returned a different book: %d != %d", again.ID, book.ID)
	}
}

func TestGetOrCreateBookRequiresExternalID(t *testing.T) {
	s := newTestStore(t, "book_external_invalid")

	_, _, err := s.GetOrCreateBookByExternalID(&model.BookCreateRequest{Title: "No ID"})
	if !errs.Is(err, errs.KindValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestListBooksSearch(t *testing.T) {
	s := newTestStore(t, "book_search")

	createTestBook(t, s, "The Left Hand of Darkness", 304)
	createTestBook(t, s, "A Wizard of Earthsea", 183)

	search := "earthsea"
	books, err := s.ListBooks(&model.FindBook{Search: &search})
	if err != nil {
		t.Fatalf("Failed to search books: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("Expected one match, got %d", len(books))
	}
	if books[0].Title != "A Wizard of Earthsea" {
		t.Errorf("Unexpected match: %s", books[0].Title)
	}

	count, err := s.CountBooks(&model.FindBook{Search: &search})
	if err != nil {
		t.Fatalf("Failed to count books: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected count 1, got %d", count)
	}
}
