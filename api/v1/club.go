package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/http/request"
	"github.com/litcircle/litcircle/http/response"
	"github.com/litcircle/litcircle/log"
	"github.com/litcircle/litcircle/model"
	"github.com/litcircle/litcircle/validator"
)

func (h *Handler) listClubs(w http.ResponseWriter, r *http.Request) {
	page, pageSize := request.Pagination(r)
	offset := (page - 1) * pageSize

	find := &model.FindClub{Offset: &offset, Limit: &pageSize}
	if userID := request.UserID(r); userID != 0 {
		find.VisibleTo = &userID
	} else {
		public := false
		find.IsPrivate = &public
	}
	if search := request.QueryStringParam(r, "search", ""); search != "" {
		find.Search = &search
	}

	clubs, err := h.store.ListClubs(find)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	count, err := h.store.CountClubs(&model.FindClub{
		VisibleTo: find.VisibleTo,
		IsPrivate: find.IsPrivate,
		Search:    find.Search,
	})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.Paginated(w, r, count, page, pageSize, clubs)
}

func (h *Handler) createClub(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	create := &model.ClubCreateRequest{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateClubCreateRequest(create); err != nil {
		response.KindError(w, r, err)
		return
	}

	club, err := h.store.CreateClub(userID, create)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.Created(w, r, club)
}

func (h *Handler) getClub(w http.ResponseWriter, r *http.Request) {
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
	response.OK(w, r, club)
}

func (h *Handler) updateClub(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
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
	if club.CreatorID != userID && !request.IsStaff(r) {
		response.Forbidden(w, r, errs.Forbidden("only the creator can update a club"))
		return
	}

	update := &model.ClubUpdateRequest{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	updated, err := h.store.UpdateClub(clubID, update)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.OK(w, r, updated)
}

func (h *Handler) deleteClub(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
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
	if club.CreatorID != userID && !request.IsStaff(r) {
		response.Forbidden(w, r, errs.Forbidden("only the creator can delete a club"))
		return
	}

	if err := h.store.DeleteClub(clubID); err != nil {
		response.KindError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func (h *Handler) joinClub(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	clubID := request.RouteInt32Param(r, "clubID")

	membership, err := h.store.JoinClub(userID, clubID)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.Created(w, r, membership)
}

func (h *Handler) leaveClub(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	clubID := request.RouteInt32Param(r, "clubID")

	if err := h.store.LeaveClub(userID, clubID); err != nil {
		response.KindError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

// inviteToClub is notification-only: it never creates a membership, the
// invitee has to join on their own. Only the creator, moderators and admins
// may invite.
func (h *Handler) inviteToClub(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	clubID := request.RouteInt32Param(r, "clubID")

	if err := h.requireClubModerator(r, clubID); err != nil {
		response.KindError(w, r, err)
		return
	}

	invite := &model.ClubInviteRequest{}
	if err := json.NewDecoder(r.Body).Decode(invite); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateClubInviteRequest(invite); err != nil {
		response.KindError(w, r, err)
		return
	}

	club, err := h.store.GetClub(&model.FindClub{ID: &clubID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if club == nil {
		response.NotFound(w, r)
		return
	}

	invitee, err := h.store.GetUser(&model.FindUser{Email: &invite.Email})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if invitee == nil || invitee.RowStatus == model.Archived {
		response.KindError(w, r, errs.NotFound("no user found with email %s", invite.Email))
		return
	}
	membership, err := h.activeMembership(invitee.ID, clubID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if membership != nil {
		response.KindError(w, r, errs.Conflict("%s is already a member of this club", invitee.Username))
		return
	}

	inviter, err := h.store.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}

	log.Info("club invitation sent",
		zap.Int32("club_id", clubID),
		zap.String("email", invite.Email),
		zap.String("invited_by", inviter.Username))

	response.OK(w, r, &model.ClubInviteResult{
		Message:   fmt.Sprintf("invitation sent to %s", invite.Email),
		Club:      club.Name,
		InvitedBy: inviter.Username,
	})
}

func (h *Handler) listClubMembers(w http.ResponseWriter, r *http.Request) {
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

	memberships, err := h.store.ListMemberships(&model.FindMembership{ClubID: &clubID, ActiveOnly: true})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}

	type memberResponse struct {
		*model.Membership
		User *model.User `json:"user"`
	}
	members := make([]*memberResponse, 0, len(memberships))
	for _, m := range memberships {
		user, err := h.store.GetUser(&model.FindUser{ID: &m.UserID})
		if err != nil {
			response.ServerError(w, r, err)
			return
		}
		if user == nil {
			continue
		}
		members = append(members, &memberResponse{Membership: m, User: response.UserResponse(user)})
	}
	response.OK(w, r, members)
}

func (h *Handler) clubStats(w http.ResponseWriter, r *http.Request) {
	clubID := request.RouteInt32Param(r, "clubID")

	// An existing private club answers with Forbidden rather than hiding
	// behind a 404, so outsiders know the club is real but closed.
	club, err := h.store.GetClub(&model.FindClub{ID: &clubID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if club == nil {
		response.NotFound(w, r)
		return
	}
	if club.IsPrivate && !request.IsStaff(r) && club.CreatorID != request.UserID(r) {
		if err := h.requireClubMember(r, clubID); err != nil {
			response.KindError(w, r, err)
			return
		}
	}

	stats, err := h.store.GetClubStats(clubID, time.Now())
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	if stats.Creator != nil {
		stats.Creator = response.UserResponse(stats.Creator)
	}
	response.OK(w, r, stats)
}

func (h *Handler) myClubs(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	result, err := h.store.GetMyClubs(userID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, result)
}

func (h *Handler) myMemberships(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	memberships, err := h.store.ListMemberships(&model.FindMembership{UserID: &userID, ActiveOnly: true})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, &model.MyMembershipsResult{
		Count:       len(memberships),
		Memberships: memberships,
	})
}

func (h *Handler) discoverClubs(w http.ResponseWriter, r *http.Request) {
	result, err := h.store.DiscoverClubs()
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, result)
}

func (h *Handler) searchClubs(w http.ResponseWriter, r *http.Request) {
	search := request.QueryStringParam(r, "q", "")
	if search == "" {
		response.KindError(w, r, errs.Validation("query parameter q is required"))
		return
	}
	page, pageSize := request.Pagination(r)
	offset := (page - 1) * pageSize

	find := &model.FindClub{Search: &search, Offset: &offset, Limit: &pageSize}
	if userID := request.UserID(r); userID != 0 {
		find.VisibleTo = &userID
	} else {
		public := false
		find.IsPrivate = &public
	}

	clubs, err := h.store.ListClubs(find)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	count, err := h.store.CountClubs(&model.FindClub{Search: &search, VisibleTo: find.VisibleTo, IsPrivate: find.IsPrivate})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.Paginated(w, r, count, page, pageSize, clubs)
}
