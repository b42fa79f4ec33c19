package jwt

import (
	"errors"
	"fmt"
	"stayledger/config"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("authorization header is required")
	ErrMalformed    = errors.New("authorization header must be a bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
	ErrInvalidClaim = errors.New("invalid token claim")
)

const bearerPrefix = "Bearer "

// Claims is the access token payload issued by the identity provider. The subject is the
// user id; user_id is accepted for tokens minted before the subject was populated.
type Claims struct {
	UserID  string `json:"user_id,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	TokenID string `json:"token_id,omitempty"`
	jwt.RegisteredClaims
}

// Identity is who a verified token speaks for.
type Identity struct {
	UserID  string
	Email   string
	Role    string
	TokenID string
}

// Verifier checks access tokens. This service never issues tokens.
type Verifier interface {
	Verify(tokenString string) (Identity, error)
}

type verifierImpl struct {
	secret []byte
	parser *jwt.Parser
}

func New(cfg *config.Config) Verifier {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg(), jwt.SigningMethodHS384.Alg(), jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(time.Duration(cfg.JWT.LeewaySeconds) * time.Second),
	}

	if cfg.JWT.Issuer != "" {
		options = append(options, jwt.WithIssuer(cfg.JWT.Issuer))
	}

	if cfg.JWT.Audience != "" {
		options = append(options, jwt.WithAudience(cfg.JWT.Audience))
	}

	return &verifierImpl{
		secret: []byte(cfg.JWT.AccessSecret),
		parser: jwt.NewParser(options...),
	}
}

func (v *verifierImpl) Verify(tokenString string) (Identity, error) {
	claims := &Claims{}

	_, err := v.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Identity{}, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return Identity{}, ErrInvalidClaim
	case err != nil:
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	identity := Identity{
		UserID:  claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
		TokenID: claims.ID,
	}

	if identity.UserID == "" {
		identity.UserID = claims.UserID
	}

	if identity.TokenID == "" {
		identity.TokenID = claims.TokenID
	}

	if identity.UserID == "" || identity.Role == "" {
		return Identity{}, ErrInvalidClaim
	}

	return identity, nil
}

// ExtractTokenFromHeader returns the token of a "Bearer <token>" Authorization header.
func ExtractTokenFromHeader(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingToken
	}

	if len(authHeader) < len(bearerPrefix) || !strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
		return "", ErrMalformed
	}

	token := strings.TrimSpace(authHeader[len(bearerPrefix):])
	if token == "" {
		return "", ErrMalformed
	}

	return token, nil
}
