package v1

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/litcircle/litcircle/http/request"
	"github.com/litcircle/litcircle/http/response"
	"github.com/litcircle/litcircle/model"
	"github.com/litcircle/litcircle/validator"
)

// sessionResponse carries the stored row plus the date-derived fields.
type sessionResponse struct {
	*model.ReadingSession
	EffectiveStatus    model.SessionStatus `json:"effective_status"`
	ProgressPercentage float64             `json:"progress_percentage"`
}

func newSessionResponse(session *model.ReadingSession, now time.Time) *sessionResponse {
	return &sessionResponse{
		ReadingSession:     session,
		EffectiveStatus:    session.EffectiveStatus(now),
		ProgressPercentage: session.ProgressPercentage(now),
	}
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
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

	sessions, err := h.store.ListReadingSessions(&model.FindReadingSession{ClubID: &clubID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}

	now := time.Now()
	list := make([]*sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		list = append(list, newSessionResponse(session, now))
	}
	response.OK(w, r, list)
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUserID(w, r); !ok {
		return
	}
	clubID := request.RouteInt32Param(r, "clubID")

	if err := h.requireClubModerator(r, clubID); err != nil {
		response.KindError(w, r, err)
		return
	}

	create := &model.SessionCreateRequest{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateSessionCreateRequest(create); err != nil {
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

	session, err := h.store.CreateReadingSession(clubID, create)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.Created(w, r, newSessionResponse(session, time.Now()))
}

func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) {
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

	now := time.Now()
	today := now.Format(model.DateLayout)
	session, err := h.store.GetReadingSession(&model.FindReadingSession{ClubID: &clubID, CurrentOn: &today})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if session == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, newSessionResponse(session, now))
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID := request.RouteInt32Param(r, "sessionID")
	session, err := h.store.GetReadingSession(&model.FindReadingSession{ID: &sessionID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if session == nil {
		response.NotFound(w, r)
		return
	}
	club, err := h.visibleClub(r, session.ClubID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if club == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, newSessionResponse(session, time.Now()))
}

func (h *Handler) updateSession(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUserID(w, r); !ok {
		return
	}
	sessionID := request.RouteInt32Param(r, "sessionID")

	session, err := h.store.GetReadingSession(&model.FindReadingSession{ID: &sessionID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if session == nil {
		response.NotFound(w, r)
		return
	}
	if err := h.requireClubModerator(r, session.ClubID); err != nil {
		response.KindError(w, r, err)
		return
	}

	update := &model.SessionUpdateRequest{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	updated, err := h.store.UpdateReadingSession(sessionID, update)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.OK(w, r, newSessionResponse(updated, time.Now()))
}
