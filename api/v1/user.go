package v1

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/litcircle/litcircle/http/request"
	"github.com/litcircle/litcircle/http/response"
	"github.com/litcircle/litcircle/log"
	"github.com/litcircle/litcircle/model"
	"github.com/litcircle/litcircle/store"
)

func (h *Handler) getMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	user, err := h.store.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if user == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, response.UserResponse(user))
}

func (h *Handler) updateMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	update := &model.UserUpdateRequest{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	user, err := h.store.UpdateUser(&store.UpdateUser{
		ID:       userID,
		Nickname: update.Nickname,
		Bio:      update.Bio,
		Location: update.Location,
		Website:  update.Website,
		ImageURL: update.ImageURL,
	})
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.OK(w, r, response.UserResponse(user))
}

// profileResponse is a public profile with the social counters attached.
type profileResponse struct {
	*model.User
	FollowerCount  int  `json:"follower_count"`
	FollowingCount int  `json:"following_count"`
	IsFollowing    bool `json:"is_following"`
}

func (h *Handler) getUserProfile(w http.ResponseWriter, r *http.Request) {
	userID := request.RouteInt32Param(r, "userID")
	user, err := h.store.GetUser(&model.FindUser{ID: &userID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if user == nil || user.RowStatus == model.Archived {
		response.NotFound(w, r)
		return
	}

	followers, err := h.store.ListFollows(&model.FindFollow{FollowingID: &userID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	following, err := h.store.ListFollows(&model.FindFollow{FollowerID: &userID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}

	profile := &profileResponse{
		User:           response.UserResponse(user),
		FollowerCount:  len(followers),
		FollowingCount: len(following),
	}
	if callerID := request.UserID(r); callerID != 0 && callerID != userID {
		profile.IsFollowing, err = h.store.IsFollowing(callerID, userID)
		if err != nil {
			response.ServerError(w, r, err)
			return
		}
	}
	response.OK(w, r, profile)
}

func (h *Handler) followUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	targetID := request.RouteInt32Param(r, "userID")

	target, err := h.store.GetUser(&model.FindUser{ID: &targetID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if target == nil || target.RowStatus == model.Archived {
		response.NotFound(w, r)
		return
	}

	follow, err := h.store.Follow(userID, targetID)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.OK(w, r, follow)
}

func (h *Handler) unfollowUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	targetID := request.RouteInt32Param(r, "userID")
	if err := h.store.Unfollow(userID, targetID); err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func (h *Handler) listFollowers(w http.ResponseWriter, r *http.Request) {
	userID := request.RouteInt32Param(r, "userID")
	users, err := h.store.ListFollowers(userID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, response.UserListResponse(users))
}

func (h *Handler) listFollowing(w http.ResponseWriter, r *http.Request) {
	userID := request.RouteInt32Param(r, "userID")
	users, err := h.store.ListFollowing(userID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, response.UserListResponse(users))
}

func (h *Handler) adminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(&model.FindUser{})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, response.UserListResponse(users))
}

// adminUpdateUser toggles the staff flag. Promotions grant ADMIN, demotions
// fall back to USER; the HOST role never changes.
func (h *Handler) adminUpdateUser(w http.ResponseWriter, r *http.Request) {
	targetID := request.RouteInt32Param(r, "userID")

	update := &model.AdminUserUpdateRequest{}
	if err := json.NewDecoder(r.Body).Decode(update); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	target, err := h.store.GetUser(&model.FindUser{ID: &targetID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if target == nil {
		response.NotFound(w, r)
		return
	}
	if target.Role == model.RoleHost {
		response.OK(w, r, response.UserResponse(target))
		return
	}

	role := model.RoleUser
	if update.IsStaff {
		role = model.RoleAdmin
	}
	user, err := h.store.UpdateUser(&store.UpdateUser{ID: targetID, Role: &role})
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.OK(w, r, response.UserResponse(user))
}

func (h *Handler) adminArchiveUser(w http.ResponseWriter, r *http.Request) {
	targetID := request.RouteInt32Param(r, "userID")
	if err := h.store.ArchiveUser(targetID); err != nil {
		response.KindError(w, r, err)
		return
	}
	response.NoContent(w, r)
}
