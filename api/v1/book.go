package v1

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/http/request"
	"github.com/litcircle/litcircle/http/response"
	"github.com/litcircle/litcircle/log"
	"github.com/litcircle/litcircle/model"
	"github.com/litcircle/litcircle/validator"
	"github.com/litcircle/litcircle/worker"
)

func (h *Handler) listAuthors(w http.ResponseWriter, r *http.Request) {
	authors, err := h.store.ListAuthors(&model.FindAuthor{})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, authors)
}

func (h *Handler) createAuthor(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUserID(w, r); !ok {
		return
	}
	create := &model.Author{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if create.FirstName == "" && create.LastName == "" {
		response.KindError(w, r, errs.Validation("an author name is required"))
		return
	}
	author, err := h.store.CreateAuthor(create)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.Created(w, r, author)
}

func (h *Handler) listGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.store.ListGenres(&model.FindGenre{})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, genres)
}

func (h *Handler) createGenre(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUserID(w, r); !ok {
		return
	}
	create := &model.Genre{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	genre, err := h.store.CreateGenre(create)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.Created(w, r, genre)
}

// bookResponse joins the book with its authors and genres.
type bookResponse struct {
	*model.Book
	Authors []*model.Author `json:"authors"`
	Genres  []*model.Genre  `json:"genres"`
}

func (h *Handler) buildBookResponse(book *model.Book) (*bookResponse, error) {
	authors, err := h.store.ListAuthors(&model.FindAuthor{BookID: &book.ID})
	if err != nil {
		return nil, err
	}
	genres, err := h.store.ListGenres(&model.FindGenre{BookID: &book.ID})
	if err != nil {
		return nil, err
	}
	return &bookResponse{Book: book, Authors: authors, Genres: genres}, nil
}

func (h *Handler) listBooks(w http.ResponseWriter, r *http.Request) {
	page, pageSize := request.Pagination(r)
	offset := (page - 1) * pageSize

	find := &model.FindBook{Offset: &offset, Limit: &pageSize}
	if search := request.QueryStringParam(r, "search", ""); search != "" {
		find.Search = &search
	}
	if genreID := request.QueryIntParam(r, "genre", 0); genreID != 0 {
		id := int32(genreID)
		find.GenreID = &id
	}
	if authorID := request.QueryIntParam(r, "author", 0); authorID != 0 {
		id := int32(authorID)
		find.AuthorID = &id
	}

	books, err := h.store.ListBooks(find)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	count, err := h.store.CountBooks(&model.FindBook{Search: find.Search})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}

	list := make([]*bookResponse, 0, len(books))
	for _, book := range books {
		item, err := h.buildBookResponse(book)
		if err != nil {
			response.ServerError(w, r, err)
			return
		}
		list = append(list, item)
	}
	response.Paginated(w, r, count, page, pageSize, list)
}

func (h *Handler) getBook(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteInt32Param(r, "bookID")
	book, err := h.store.GetBook(&model.FindBook{ID: &bookID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}
	item, err := h.buildBookResponse(book)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, item)
}

func (h *Handler) createBook(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUserID(w, r); !ok {
		return
	}

	create := &model.BookCreateRequest{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateBookCreateRequest(create); err != nil {
		response.KindError(w, r, err)
		return
	}

	book, err := h.store.CreateBook(create)
	if err != nil {
		response.KindError(w, r, err)
		return
	}

	h.scheduleCoverValidation(book)

	item, err := h.buildBookResponse(book)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.Created(w, r, item)
}

// importBook deduplicates on (external_id, source): importing the same
// record twice returns the existing book with a 200.
func (h *Handler) importBook(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUserID(w, r); !ok {
		return
	}

	create := &model.BookCreateRequest{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateBookCreateRequest(create); err != nil {
		response.KindError(w, r, err)
		return
	}

	book, created, err := h.store.GetOrCreateBookByExternalID(create)
	if err != nil {
		response.KindError(w, r, err)
		return
	}

	item, err := h.buildBookResponse(book)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if created {
		h.scheduleCoverValidation(book)
		response.Created(w, r, item)
		return
	}
	response.OK(w, r, item)
}

func (h *Handler) scheduleCoverValidation(book *model.Book) {
	if book.ImageURL == "" || h.coverPool == nil {
		return
	}
	h.coverPool.Push(worker.CoverJob{BookID: book.ID, ImageURL: book.ImageURL})
}
