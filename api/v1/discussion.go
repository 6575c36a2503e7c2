package v1

import (
	"encoding/json"
	"net/http"

	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/http/request"
	"github.com/litcircle/litcircle/http/response"
	"github.com/litcircle/litcircle/model"
	"github.com/litcircle/litcircle/validator"
)

func (h *Handler) listDiscussions(w http.ResponseWriter, r *http.Request) {
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

	page, pageSize := request.Pagination(r)
	offset := (page - 1) * pageSize

	find := &model.FindDiscussion{ClubID: &clubID, Offset: &offset, Limit: &pageSize}
	if bookID := request.QueryIntParam(r, "book", 0); bookID != 0 {
		id := int32(bookID)
		find.BookID = &id
	}
	discussions, err := h.store.ListDiscussions(find)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	all, err := h.store.ListDiscussions(&model.FindDiscussion{ClubID: &clubID, BookID: find.BookID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.Paginated(w, r, len(all), page, pageSize, discussions)
}

func (h *Handler) createDiscussion(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	clubID := request.RouteInt32Param(r, "clubID")

	if err := h.requireClubMember(r, clubID); err != nil {
		response.KindError(w, r, err)
		return
	}

	create := &model.DiscussionCreateRequest{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateDiscussionCreateRequest(create); err != nil {
		response.KindError(w, r, err)
		return
	}

	discussion, err := h.store.CreateDiscussion(clubID, userID, create)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.Created(w, r, discussion)
}

func (h *Handler) getDiscussion(w http.ResponseWriter, r *http.Request) {
	discussionID := request.RouteInt32Param(r, "discussionID")
	discussion, err := h.store.GetDiscussion(&model.FindDiscussion{ID: &discussionID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if discussion == nil {
		response.NotFound(w, r)
		return
	}
	club, err := h.visibleClub(r, discussion.ClubID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if club == nil {
		response.NotFound(w, r)
		return
	}
	response.OK(w, r, discussion)
}

func (h *Handler) deleteDiscussion(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	discussionID := request.RouteInt32Param(r, "discussionID")

	discussion, err := h.store.GetDiscussion(&model.FindDiscussion{ID: &discussionID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if discussion == nil {
		response.NotFound(w, r)
		return
	}
	if discussion.AuthorID != userID && !request.IsStaff(r) {
		if err := h.requireClubModerator(r, discussion.ClubID); err != nil {
			response.KindError(w, r, errs.Forbidden("only the author or a moderator can delete a discussion"))
			return
		}
	}

	if err := h.store.DeleteDiscussion(discussionID); err != nil {
		response.KindError(w, r, err)
		return
	}
	response.NoContent(w, r)
}

func (h *Handler) pinDiscussion(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUserID(w, r); !ok {
		return
	}
	discussionID := request.RouteInt32Param(r, "discussionID")

	discussion, err := h.store.GetDiscussion(&model.FindDiscussion{ID: &discussionID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if discussion == nil {
		response.NotFound(w, r)
		return
	}
	if err := h.requireClubModerator(r, discussion.ClubID); err != nil {
		response.KindError(w, r, err)
		return
	}

	var body struct {
		Pinned bool `json:"pinned"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, r, err)
		return
	}

	updated, err := h.store.SetDiscussionPinned(discussionID, body.Pinned)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.OK(w, r, updated)
}

func (h *Handler) listReplies(w http.ResponseWriter, r *http.Request) {
	discussionID := request.RouteInt32Param(r, "discussionID")

	discussion, err := h.store.GetDiscussion(&model.FindDiscussion{ID: &discussionID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if discussion == nil {
		response.NotFound(w, r)
		return
	}
	club, err := h.visibleClub(r, discussion.ClubID)
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if club == nil {
		response.NotFound(w, r)
		return
	}

	replies, err := h.store.ListDiscussionReplies(&model.FindDiscussionReply{DiscussionID: &discussionID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.OK(w, r, replies)
}

func (h *Handler) createReply(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}
	discussionID := request.RouteInt32Param(r, "discussionID")

	discussion, err := h.store.GetDiscussion(&model.FindDiscussion{ID: &discussionID})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if discussion == nil {
		response.NotFound(w, r)
		return
	}
	if err := h.requireClubMember(r, discussion.ClubID); err != nil {
		response.KindError(w, r, err)
		return
	}

	create := &model.ReplyCreateRequest{}
	if err := json.NewDecoder(r.Body).Decode(create); err != nil {
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateReplyCreateRequest(create); err != nil {
		response.KindError(w, r, err)
		return
	}

	reply, err := h.store.CreateDiscussionReply(discussionID, userID, create)
	if err != nil {
		response.KindError(w, r, err)
		return
	}
	response.Created(w, r, reply)
}
