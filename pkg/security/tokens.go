package security

import (
	"errors"
	"fmt"
	"time"

	"toolmove/pkg/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	claimUserID = "userID"
	claimRole   = "role"
	claimEmail  = "email"
)

var ErrMissingSecret = errors.New("jwt secret is not configured")

// Tokens issues and verifies the HS256 tokens carried in the Authorization header.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokens(secret string, ttl time.Duration) (*Tokens, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	return &Tokens{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

func (t *Tokens) GenerateJWT(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		claimUserID: user.ID,
		claimRole:   string(user.Role),
		claimEmail:  user.Email,
		"exp":       t.now().Add(t.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

func (t *Tokens) Parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	if _, ok := claims[claimUserID].(string); !ok {
		return nil, errors.New("userID claim is missing")
	}

	return claims, nil
}
