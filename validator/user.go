package validator // import "github.com/litcircle/litcircle/validator"

import (
	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/model"
	"github.com/litcircle/litcircle/store"
	"github.com/litcircle/litcircle/util"
)

func ValidateRegisterRequest(s *store.Store, register *model.UserRegisterRequest) error {
	if register == nil {
		return errs.Validation("request body is empty")
	}
	if register.Username == "" {
		return errs.Validation("username is required")
	}
	if !util.UIDMatcher.MatchString(register.Username) {
		return errs.Validation("username may only contain letters, numbers, dots, underscores and dashes")
	}
	if register.Email == "" {
		return errs.Validation("email is required")
	}
	if !util.ValidateEmail(register.Email) {
		return errs.Validation("email is invalid")
	}
	if err := validatePassword(register.Password); err != nil {
		return err
	}
	if register.PasswordConfirm != "" && register.Password != register.PasswordConfirm {
		return errs.Validation("passwords do not match")
	}
	if existing, _ := s.GetUser(&model.FindUser{Username: &register.Username}); existing != nil {
		return errs.Conflict("username already exists")
	}
	if existing, _ := s.GetUser(&model.FindUser{Email: &register.Email}); existing != nil {
		return errs.Conflict("email already registered")
	}
	return nil
}

func ValidateLoginRequest(login *model.UserLoginRequest) error {
	if login == nil {
		return errs.Validation("request body is empty")
	}
	if login.Email == "" {
		return errs.Validation("email is required")
	}
	if login.Password == "" {
		return errs.Validation("password is required")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return errs.Validation("password must be at least 6 characters")
	}
	return nil
}
