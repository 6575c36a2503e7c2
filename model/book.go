package model

// Source identifies where an imported record came from. Records entered by
// hand carry SourceManual and no external id.
type Source string

const (
	SourceOpenLibrary Source = "openlibrary"
	SourceGoogleBooks Source = "googlebooks"
	SourceGoodreads   Source = "goodreads"
	SourceManual      Source = "manual"
)

type Author struct {
	ID        int32  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Website   string `json:"website"`
	CreatedTs int64  `json:"created_ts"`
	UpdatedTs int64  `json:"updated_ts"`
}

func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

type FindAuthor struct {
	ID        *int32
	FirstName *string
	LastName  *string
	BookID    *int32
	Limit     *int
}

type Genre struct {
	ID          int32  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedTs   int64  `json:"created_ts"`
}

type FindGenre struct {
	ID     *int32
	Name   *string
	BookID *int32
}

type Book struct {
	ID              int32  `json:"id"`
	Title           string `json:"title"`
	Subtitle        string `json:"subtitle"`
	ISBN            string `json:"isbn"`
	Description     string `json:"description"`
	PublicationDate string `json:"publication_date"`
	Publisher       string `json:"publisher"`
	PageCount       int    `json:"page_count"`
	Language        string `json:"language"`
	ImageURL        string `json:"image_url"`
	ImageUpdatedTs  int64  `json:"image_updated_ts"`
	ExternalID      string `json:"external_id"`
	Source          Source `json:"source"`
	CreatedTs       int64  `json:"created_ts"`
	UpdatedTs       int64  `json:"updated_ts"`

	// AverageRating is nil until the book has at least one review.
	AverageRating *float64 `json:"average_rating"`
}

type FindBook struct {
	ID         *int32
	Title      *string
	ISBN       *string
	ExternalID *string
	Source     *Source
	GenreID    *int32
	AuthorID   *int32

	// Search matches against title, subtitle and description.
	Search *string

	Offset *int
	Limit  *int
}

type BookCreateRequest struct {
	Title           string   `json:"title"`
	Subtitle        string   `json:"subtitle"`
	ISBN            string   `json:"isbn"`
	Description     string   `json:"description"`
	PublicationDate string   `json:"publication_date"`
	Publisher       string   `json:"publisher"`
	PageCount       int      `json:"page_count"`
	Language        string   `json:"language"`
	ImageURL        string   `json:"image_url"`
	AuthorIDs       []int32  `json:"author_ids"`
	GenreIDs        []int32  `json:"genre_ids"`
	ExternalID      string   `json:"external_id"`
	Source          Source   `json:"source"`
}

type BookList struct {
	ID          int32  `json:"id"`
	OwnerID     int32  `json:"owner_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
	CreatedTs   int64  `json:"created_ts"`
	UpdatedTs   int64  `json:"updated_ts"`
	BookCount   int    `json:"book_count"`
}

type FindBookList struct {
	ID      *int32
	OwnerID *int32
	Name    *string
	// PublicOnly hides private lists from non-owners.
	PublicOnly bool
}

type BookListCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}
