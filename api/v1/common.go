package v1

import (
	"net/http"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/http/request"
	"github.com/litcircle/litcircle/http/response"
	"github.com/litcircle/litcircle/model"
)

// requireUserID resolves the authenticated user or writes a 401. Handlers on
// allowlisted paths still need a signed-in caller for writes.
func (h *Handler) requireUserID(w http.ResponseWriter, r *http.Request) (int32, bool) {
	userID := request.UserID(r)
	if userID == 0 {
		response.Unauthorized(w, r)
		return 0, false
	}
	return userID, true
}

// activeMembership loads the caller's active membership in the club, nil
// when there is none.
func (h *Handler) activeMembership(userID, clubID int32) (*model.Membership, error) {
	return h.store.GetMembership(&model.FindMembership{
		UserID:     &userID,
		ClubID:     &clubID,
		ActiveOnly: true,
	})
}

// requireClubModerator checks that the caller holds a moderator or admin
// membership in the club. Service staff pass regardless.
func (h *Handler) requireClubModerator(r *http.Request, clubID int32) error {
	if request.IsStaff(r) {
		return nil
	}
	membership, err := h.activeMembership(request.UserID(r), clubID)
	if err != nil {
		return err
	}
	if membership == nil {
		return errs.Forbidden("you are not a member of this club")
	}
	if membership.Role != model.MembershipRoleModerator && membership.Role != model.MembershipRoleAdmin {
		return errs.Forbidden("moderator role required")
	}
	return nil
}

// requireClubMember checks that the caller belongs to the club.
func (h *Handler) requireClubMember(r *http.Request, clubID int32) error {
	if request.IsStaff(r) {
		return nil
	}
	membership, err := h.activeMembership(request.UserID(r), clubID)
	if err != nil {
		return err
	}
	if membership == nil {
		return errs.Forbidden("you are not a member of this club")
	}
	return nil
}

// visibleClub loads a club applying the caller's visibility: a private club
// is hidden from everyone but its members and creator.
func (h *Handler) visibleClub(r *http.Request, clubID int32) (*model.Club, error) {
	club, err := h.store.GetClub(&model.FindClub{ID: &clubID})
	if err != nil {
		return nil, err
	}
	if club == nil {
		return nil, nil
	}
	if !club.IsPrivate || request.IsStaff(r) {
		return club, nil
	}
	userID := request.UserID(r)
	if club.CreatorID == userID {
		return club, nil
	}
	if userID != 0 {
		membership, err := h.activeMembership(userID, clubID)
		if err != nil {
			return nil, err
		}
		if membership != nil {
			return club, nil
		}
	}
	return nil, nil
}
