package v1

import (
	"encoding/json"
	"net/http"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/http/request"
	"github.com/litcircle/litcircle/http/response"
	"github.com/litcircle/litcircle/model"
	"github.com/litcircle/litcircle/store"
	"github.com/litcircle/litcircle/validator"
)

func (h *Handler) listBookReviews(w http.ResponseWriter, r *http.Request) {
	bookID := request.RouteInt32Param(r, "bookID")
	page, pageSize := request.Pagination(r)
	offset := (page - 1) * pageSize

	reviews, err := h.store.ListReviews(&model.FindReview{BookID: &bookID, Offset: &offset, Limit: &pageSize})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	all, err := h.store.ListReviews(&model.FindReview{BookID: &bookID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.Paginated(w, r, len(all), page, pageSize, reviews)
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	bookID := request.RouteInt32Param(r, "bookID")

	create := &model.ReviewCreateRequest{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	create.BookID = bookID
	if err := validator.ValidateReviewCreateRequest(create); err != nil {
		response.KindError(w, r, err)
		return
	}

	book, err := h.store.GetBook(&model.FindBook{ID: &bookID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}

	review, err := h.store.CreateReview(userID, create)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.Created(w, r, review)
}

func (h *Handler) updateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	reviewID := request.RouteInt32Param(r, "reviewID")

	review, err := h.store.GetReview(&model.FindReview{ID: &reviewID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if review == nil {
		response.NotFound(w, r)
		return
	}
	if review.UserID != userID && !request.IsStaff(r) {
		response.KindError(w, r, errs.Forbidden("you can only edit your own review"))
		return
	}

	var body struct {
		Rating    *int    `json:"rating"`
		Title     *string `json:"title"`
		Content   *string `json:"content"`
		IsSpoiler *bool   `json:"is_spoiler"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	updated, err := h.store.UpdateReview(&store.UpdateReview{
		ID:        reviewID,
		Rating:    body.Rating,
		Title:     body.Title,
		Content:   body.Content,
		IsSpoiler: body.IsSpoiler,
	})
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.OK(w, r, updated)
}

func (h *Handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	reviewID := request.RouteInt32Param(r, "reviewID")

	review, err := h.store.GetReview(&model.FindReview{ID: &reviewID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if review == nil {
		response.NotFound(w, r)
		return
	}
	if review.UserID != userID && !request.IsStaff(r) {
		response.KindError(w, r, errs.Forbidden("you can only delete your own review"))
		return
	}

	if err := h.store.DeleteReview(reviewID); err != nil {
		response.KindError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

// progressResponse attaches the page-based percentage when the book's page
// count is known.
type progressResponse struct {
	*model.ReadingProgress
	ProgressPercentage *float64 `json:"progress_percentage"`
}

func (h *Handler) getProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	bookID := request.RouteInt32Param(r, "bookID")

	progress, err := h.store.GetReadingProgress(&model.FindReadingProgress{UserID: &userID, BookID: &bookID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if progress == nil {
		response.NotFound(w, r)
		return
	}

	book, err := h.store.GetBook(&model.FindBook{ID: &bookID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	pageCount := 0
	if book != nil {
		pageCount = book.PageCount
	}
	response.OK(w, r, &progressResponse{
		ReadingProgress:    progress,
		ProgressPercentage: progress.ProgressPercentage(pageCount),
	})
}

func (h *Handler) updateProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	bookID := request.RouteInt32Param(r, "bookID")

	update := &model.ProgressUpdateRequest{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	update.BookID = bookID

	book, err := h.store.GetBook(&model.FindBook{ID: &bookID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}
	if update.CurrentPage != nil && book.PageCount > 0 && *update.CurrentPage > book.PageCount {
		response.KindError(w, r, errs.Validation("current_page exceeds the book's page count"))
		return
	}
	update.PageCount = book.PageCount

	progress, err := h.store.UpsertReadingProgress(userID, update)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.OK(w, r, &progressResponse{
		ReadingProgress:    progress,
		ProgressPercentage: progress.ProgressPercentage(book.PageCount),
	})
}
