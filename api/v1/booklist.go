package v1

import (
	"encoding/json"
	"net/http"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/http/request"
	"github.com/litcircle/litcircle/http/response"
	"github.com/litcircle/litcircle/model"
)

func (h *Handler) listBookLists(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	// ?user=<id> shows another user's public lists.
	if otherID := request.QueryIntParam(r, "user", 0); otherID != 0 && int32(otherID) != userID {
		id := int32(otherID)
		lists, err := h.store.ListBookLists(&model.FindBookList{OwnerID: &id, PublicOnly: true})
		if err != nil {
			response.ServerError(w, r, err)
			return
		}
		response.OK(w, r, lists)
		return
	}

	lists, err := h.store.ListBookLists(&model.FindBookList{OwnerID: &userID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, lists)
}

func (h *Handler) createBookList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	create := &model.BookListCreateRequest{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if create.Name == "" {
		response.KindError(w, r, errs.Validation("list name is required"))
		return
	}

	list, err := h.store.CreateBookList(userID, create)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.Created(w, r, list)
}

// loadBookList resolves a list respecting ownership and privacy.
func (h *Handler) loadBookList(r *http.Request, listID int32) (*model.BookList, error) {
	list, err := h.store.GetBookList(&model.FindBookList{ID: &listID})
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, nil
	}
	if !list.IsPublic && list.OwnerID != request.UserID(r) && !request.IsStaff(r) {
		return nil, nil
	}
	return list, nil
}

type bookListResponse struct {
	*model.BookList
	Books []*model.Book `json:"books"`
}

func (h *Handler) getBookList(w http.ResponseWriter, r *http.Request) {
	listID := request.RouteInt32Param(r, "listID")
	list, err := h.loadBookList(r, listID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if list == nil {
		response.NotFound(w, r)
		return
	}

	books, err := h.store.ListBooksInList(listID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, &bookListResponse{BookList: list, Books: books})
}

func (h *Handler) deleteBookList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	listID := request.RouteInt32Param(r, "listID")

	list, err := h.store.GetBookList(&model.FindBookList{ID: &listID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if list == nil {
		response.NotFound(w, r)
		return
	}
	if list.OwnerID != userID && !request.IsStaff(r) {
		response.KindError(w, r, errs.Forbidden("you can only delete your own list"))
		return
	}

	if err := h.store.DeleteBookList(listID); err != nil {
		response.KindError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func (h *Handler) mutableBookList(w http.ResponseWriter, r *http.Request) (int32, bool) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return 0, false
	}
	listID := request.RouteInt32Param(r, "listID")

	list, err := h.store.GetBookList(&model.FindBookList{ID: &listID})
	if err != nil {
		response.ServerError(w, r, err)
		return 0, false
	}
	if list == nil {
		response.NotFound(w, r)
		return 0, false
	}
	if list.OwnerID != userID {
		response.KindError(w, r, errs.Forbidden("you can only modify your own list"))
		return 0, false
	}
	return listID, true
}

func (h *Handler) addBookToList(w http.ResponseWriter, r *http.Request) {
	listID, ok := h.mutableBookList(w, r)
	if !ok {
		return
	}
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

	if err := h.store.AddBookToList(listID, bookID); err != nil {
		response.KindError(w, r, err)
		return
	}
	response.Created(w, r, book)
}

func (h *Handler) removeBookFromList(w http.ResponseWriter, r *http.Request) {
	listID, ok := h.mutableBookList(w, r)
	if !ok {
		return
	}
	bookID := request.RouteInt32Param(r, "bookID")

	if err := h.store.RemoveBookFromList(listID, bookID); err != nil {
		response.KindError(w, r, err)
		return
	}
	response.NoContent(w, r)
}
