package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type JWT struct {
	secret []byte
	ttl    time.Duration
}

func NewJWT(secret string, ttl time.Duration) *JWT {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &JWT{secret: []byte(secret), ttl: ttl}
}

// Claims is the subset of a verified token the server cares about.
type Claims struct {
	UserID    uint64
	SessionID string
	ExpiresAt time.Time
}

func (j *JWT) TTL() time.Duration { return j.ttl }

func (j *JWT) Sign(userID uint64, sessionID string, now time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": userID,
		"jti": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(j.ttl).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(j.secret)
}

func (j *JWT) Verify(tokenStr string) (Claims, error) {
	t, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return j.secret, nil
	})
	if err != nil || !t.Valid {
		return Claims{}, ErrInvalidToken
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	// jwt MapClaims numbers are float64
	idf, ok := claims["sub"].(float64)
	if !ok || idf <= 0 {
		return Claims{}, ErrInvalidToken
	}
	jti, ok := claims["jti"].(string)
	if !ok || jti == "" {
		return Claims{}, ErrInvalidToken
	}

	out := Claims{UserID: uint64(idf), SessionID: jti}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
