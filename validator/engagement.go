package validator

import (
	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
)

func ValidateReviewCreateRequest(create *model.ReviewCreateRequest) error {
	if create == nil {
		return errs.Validation("request body is empty")
	}
	if create.BookID == 0 {
		return errs.Validation("book_id is required")
	}
	if create.Rating < model.MinRating || create.Rating > model.MaxRating {
		return errs.Validation("rating must be between %d and %d", model.MinRating, model.MaxRating)
	}
	return nil
}

func ValidateDiscussionCreateRequest(create *model.DiscussionCreateRequest) error {
	if create == nil {
		return errs.Validation("request body is empty")
	}
	if create.Title == "" {
		return errs.Validation("title is required")
	}
	return nil
}

func ValidateReplyCreateRequest(create *model.ReplyCreateRequest) error {
	if create == nil {
		return errs.Validation("request body is empty")
	}
	if create.Content == "" {
		return errs.Validation("content is required")
	}
	return nil
}

func ValidateRecommendationCreateRequest(create *model.RecommendationCreateRequest) error {
	if create == nil {
		return errs.Validation("request body is empty")
	}
	if create.BookID == 0 {
		return errs.Validation("book_id is required")
	}
	return nil
}

func ValidateBookCreateRequest(create *model.BookCreateRequest) error {
	if create == nil {
		return errs.Validation("request body is empty")
	}
	if create.Title == "" {
		return errs.Validation("title is required")
	}
	if create.PageCount < 0 {
		return errs.Validation("page_count must not be negative")
	}
	return nil
}
