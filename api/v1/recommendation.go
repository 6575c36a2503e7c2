package v1

import (
	"encoding/json"
	"net/http"

	"github.com/litcircle/litcircle/http/request"
	"github.com/litcircle/litcircle/http/response"
	"github.com/litcircle/litcircle/model"
	"github.com/litcircle/litcircle/validator"
)

func (h *Handler) listRecommendations(w http.ResponseWriter, r *http.Request) {
	clubID := request.RouteInt32Param(r, "clubID")
	club, err := h.visibleClub(r, clubID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if club == nil {
		response.NotFound(w, r)
		return
	}

	find := &model.FindRecommendation{ClubID: &clubID}
	if status := request.QueryStringParam(r, "status", ""); status != "" {
		s := model.RecommendationStatus(status)
		find.Status = &s
	}
	recommendations, err := h.store.ListRecommendations(find)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, recommendations)
}

func (h *Handler) createRecommendation(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	clubID := request.RouteInt32Param(r, "clubID")

	if err := h.requireClubMember(r, clubID); err != nil {
		response.KindError(w, r, err)
		return
	}

	create := &model.RecommendationCreateRequest{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateRecommendationCreateRequest(create); err != nil {
		response.KindError(w, r, err)
		return
	}

	book, err := h.store.GetBook(&model.FindBook{ID: &create.BookID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if book == nil {
		response.NotFound(w, r)
		return
	}

	recommendation, err := h.store.CreateRecommendation(clubID, userID, create)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.Created(w, r, recommendation)
}

func (h *Handler) voteRecommendation(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUserID(w, r); !ok {
		return
	}
	recommendationID := request.RouteInt32Param(r, "recommendationID")

	recommendation, err := h.store.GetRecommendation(&model.FindRecommendation{ID: &recommendationID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if recommendation == nil {
		response.NotFound(w, r)
		return
	}
	if err := h.requireClubMember(r, recommendation.ClubID); err != nil {
		response.KindError(w, r, err)
		return
	}

	vote := &model.VoteRequest{}
	if err := json.NewDecoder(r.Body).Decode(vote); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	updated, err := h.store.VoteRecommendation(recommendationID, vote.Vote)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.OK(w, r, updated)
}

func (h *Handler) setRecommendationStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUserID(w, r); !ok {
		return
	}
	recommendationID := request.RouteInt32Param(r, "recommendationID")

	recommendation, err := h.store.GetRecommendation(&model.FindRecommendation{ID: &recommendationID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if recommendation == nil {
		response.NotFound(w, r)
		return
	}
	if err := h.requireClubModerator(r, recommendation.ClubID); err != nil {
		response.KindError(w, r, err)
		return
	}

	statusReq := &model.RecommendationStatusRequest{}
	if err := json.NewDecoder(r.Body).Decode(statusReq); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	updated, err := h.store.SetRecommendationStatus(recommendationID, statusReq.Status)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.OK(w, r, updated)
}
