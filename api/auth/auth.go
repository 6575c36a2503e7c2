package auth

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const (
	// AccessTokenDuration is the default lifetime of an access token.
	AccessTokenDuration = 24 * time.Hour

	// AccessTokenCookieName is the cookie carrying the access token for
	// browser clients.
	AccessTokenCookieName = "litcircle.access-token"

	// Issuer is the registered claim identifying this service.
	Issuer = "litcircle"

	// KeyID rotates with the signing secret format.
	KeyID = "v1"
)

type ClaimsMessage struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// GenerateAccessToken signs a token for the given account. A zero expireTime
// produces a token without an expiry claim.
func GenerateAccessToken(username string, userID int32, expireTime time.Time, secret []byte) (string, error) {
	registeredClaims := jwt.RegisteredClaims{
		Issuer:   Issuer,
		IssuedAt: jwt.NewNumericDate(time.Now()),
		Subject:  strconv.Itoa(int(userID)),
	}
	if !expireTime.IsZero() {
		registeredClaims.ExpiresAt = jwt.NewNumericDate(expireTime)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &ClaimsMessage{
		Name:             username,
		RegisteredClaims: registeredClaims,
	})
	token.Header["kid"] = KeyID

	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "failed to sign access token")
	}
	return signed, nil
}
