package v1

import (
	"net/http"
	"time"

	"github.com/litcircle/litcircle/http/request"
	"github.com/litcircle/litcircle/http/response"
)

func (h *Handler) analyticsOverview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.store.GetAnalyticsOverview(time.Now())
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, overview)
}

func (h *Handler) analyticsTopBooks(w http.ResponseWriter, r *http.Request) {
	limit := request.QueryIntParam(r, "limit", 10)
	books, err := h.store.ListTopBooks(limit)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, books)
}

func (h *Handler) analyticsBooksPerClub(w http.ResponseWriter, r *http.Request) {
	limit := request.QueryIntParam(r, "limit", 10)
	clubs, err := h.store.ListClubReadCounts(limit)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, clubs)
}

func (h *Handler) analyticsTopClubs(w http.ResponseWriter, r *http.Request) {
	limit := request.QueryIntParam(r, "limit", 10)
	clubs, err := h.store.ListTopClubs(limit)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, clubs)
}
