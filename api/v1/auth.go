package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/litcircle/litcircle/api/auth"
	"github.com/litcircle/litcircle/errs"
	"github.com/litcircle/litcircle/http/response"
	"github.com/litcircle/litcircle/log"
	"github.com/litcircle/litcircle/model"
	"github.com/litcircle/litcircle/validator"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	register := &model.UserRegisterRequest{}
	if err := json.NewDecoder(r.Body).Decode(register); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}

	if err := validator.ValidateRegisterRequest(h.store, register); err != nil {
		response.KindError(w, r, err)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(register.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("Failed to generate password hash", zap.Error(err))
		response.ServerError(w, r, err)
		return
	}

	// The first registered account becomes the HOST.
	role := model.RoleUser
	existing, err := h.store.ListUsers(&model.FindUser{})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if len(existing) == 0 {
		role = model.RoleHost
	}

	user, err := h.store.CreateUser(&model.User{
		Username:     register.Username,
		Role:         role,
		Email:        register.Email,
		Nickname:     register.Nickname,
		PasswordHash: string(passwordHash),
	})
	if err != nil {
		response.KindError(w, r, err)
		return
	}

	if err := h.issueToken(w, r, user, time.Now().Add(auth.AccessTokenDuration)); err != nil {
		response.ServerError(w, r, err)
		return
	}
	response.Created(w, r, response.UserResponse(user))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	login := &model.UserLoginRequest{}
	if err := json.NewDecoder(r.Body).Decode(login); err != nil {
		log.Error("Failed to decode request body", zap.Error(err))
		response.BadRequest(w, r, err)
		return
	}
	if err := validator.ValidateLoginRequest(login); err != nil {
		response.KindError(w, r, err)
		return
	}

	user, err := h.store.GetUser(&model.FindUser{Email: &login.Email})
	if err != nil {
		response.ServerError(w, r, err)
		return
	}
	if user == nil || user.RowStatus == model.Archived {
		response.KindError(w, r, errs.NotFound("no account found for this email"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(login.Password)); err != nil {
		response.KindError(w, r, errs.Validation("invalid email or password"))
		return
	}

	expireTime := time.Now().Add(auth.AccessTokenDuration)
	if login.NeverExpire {
		// Set the expire time to 100 years.
		expireTime = time.Now().Add(100 * 365 * 24 * time.Hour)
	}
	if err := h.issueToken(w, r, user, expireTime); err != nil {
		response.ServerError(w, r, err)
		return
	}

	h.store.SetLastLogin(user.ID)
	response.OK(w, r, response.UserResponse(user))
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	cookie := &http.Cookie{
		Name:     auth.AccessTokenCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	}
	http.SetCookie(w, cookie)
	response.NoContent(w, r)
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request, user *model.User, expireTime time.Time) error {
	secret, err := h.store.GetSessionSecret()
	if err != nil {
		return err
	}

	accessToken, err := auth.GenerateAccessToken(user.Username, user.ID, expireTime, []byte(secret))
	if err != nil {
		return err
	}

	cookie, err := buildAccessTokenCookie(accessToken, expireTime, r.Header.Get("Origin"))
	if err != nil {
		return err
	}
	w.Header().Set("Set-Cookie", cookie)
	w.Header().Set("X-Access-Token", accessToken)
	return nil
}

func buildAccessTokenCookie(accessToken string, expireTime time.Time, origin string) (string, error) {
	attrs := []string{
		fmt.Sprintf("%s=%s", auth.AccessTokenCookieName, accessToken),
		"HttpOnly",
		"Path=/",
		fmt.Sprintf("Expires=%s", expireTime.Format(time.RFC1123)),
	}
	if origin != "" {
		originURL, err := url.Parse(origin)
		if err != nil {
			return "", err
		}
		if originURL.Scheme == "https" {
			attrs = append(attrs, "SameSite=None", "Secure")
		} else {
			attrs = append(attrs, "SameSite=Strict")
		}
	} else {
		attrs = append(attrs, "SameSite=Strict")
	}
	result := ""
	for i, attr := range attrs {
		if i > 0 {
			result += "; "
		}
		result += attr
	}
	return result, nil
}
