package streamtoken

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMissingSecret = errors.New("stream api secret is not configured")

// Claims is the payload the video SDK expects.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type IIssuer interface {
	Issue(userID, userName string) (string, error)
}

type issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

var _ IIssuer = (*issuer)(nil)

func NewIssuer(secret string, ttl time.Duration) IIssuer {
	return &issuer{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs an HS256 token for userID valid for the configured TTL.
// userName is not part of the claims; the SDK takes it from the client.
func (i *issuer) Issue(userID, _ string) (string, error) {
	if len(i.secret) == 0 {
		return "", ErrMissingSecret
	}
	now := i.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("sign stream token: %w", err)
	}
	return signed, nil
}
