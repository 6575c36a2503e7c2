package validator

import (
	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
	"github.com/litcircle/litcircle/util"
)

func ValidateClubCreateRequest(create *model.ClubCreateRequest) error {
	if create == nil {
		return errs.Validation("request body is empty")
	}
	if create.Name == "" {
		return errs.Validation("club name is required")
	}
	if len(create.Name) > 200 {
		return errs.Validation("club name must be at most 200 characters")
	}
	if create.MaxMembers != 0 && (create.MaxMembers < model.MinClubMembers || create.MaxMembers > model.MaxClubMembers) {
		return errs.Validation("max_members must be between %d and %d", model.MinClubMembers, model.MaxClubMembers)
	}
	return nil
}

func ValidateClubInviteRequest(invite *model.ClubInviteRequest) error {
	if invite == nil {
		return errs.Validation("request body is empty")
	}
	if invite.Email == "" {
		return errs.Validation("email is required")
	}
	if !util.ValidateEmail(invite.Email) {
		return errs.Validation("email is invalid")
	}
	return nil
}

func ValidateSessionCreateRequest(create *model.SessionCreateRequest) error {
	if create == nil {
		return errs.Validation("request body is empty")
	}
	if create.BookID == 0 {
		return errs.Validation("book_id is required")
	}
	if create.StartDate == "" || create.EndDate == "" {
		return errs.Validation("start_date and end_date are required")
	}
	return nil
}
