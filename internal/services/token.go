package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/daghub-backend/internal/domain/ownership"
	"github.com/yungbote/daghub-backend/internal/platform/logger"
)

var ErrInvalidToken = errors.New("invalid token")

// JWTClaims carries the caller's numeric user id in sub. Role may list
// several roles separated by commas.
type JWTClaims struct {
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type TokenService interface {
	Issue(id ownership.Identity, ttl time.Duration) (string, error)
	Parse(token string) (ownership.Identity, error)
}

type tokenService struct {
	log    *logger.Logger
	secret []byte
	issuer string
	now    func() time.Time
}

func NewTokenService(log *logger.Logger, secret, issuer string) TokenService {
	return &tokenService{
		log:    log.With("service", "TokenService"),
		secret: []byte(secret),
		issuer: strings.TrimSpace(issuer),
		now:    time.Now,
	}
}

func (s *tokenService) Issue(id ownership.Identity, ttl time.Duration) (string, error) {
	if !id.Valid() {
		return "", fmt.Errorf("issue token: user id required")
	}
	if len(s.secret) == 0 {
		return "", fmt.Errorf("issue token: signing key not configured")
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	roles := make([]string, 0, len(id.Roles))
	for _, r := range id.Roles {
		roles = append(roles, string(r))
	}
	now := s.now()
	claims := &JWTClaims{
		Role:  strings.Join(roles, ","),
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(id.UserID, 10),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *tokenService) Parse(token string) (ownership.Identity, error) {
	token = strings.TrimSpace(token)
	if token == "" || len(s.secret) == 0 {
		return ownership.Identity{}, ErrInvalidToken
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}
	parsed, err := jwt.ParseWithClaims(token, &JWTClaims{}, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		s.log.Debug("token rejected", "error", err)
		return ownership.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return ownership.Identity{}, ErrInvalidToken
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(claims.Subject), 10, 64)
	if err != nil || userID <= 0 {
		return ownership.Identity{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return ownership.Identity{
		UserID: userID,
		Email:  claims.Email,
		Roles:  parseRoles(claims.Role),
	}, nil
}

func parseRoles(raw string) []ownership.Role {
	var out []ownership.Role
	for _, part := range strings.Split(raw, ",") {
		switch r := ownership.Role(strings.ToUpper(strings.TrimSpace(part))); r {
		case ownership.RoleAdmin, ownership.RoleOwner:
			out = append(out, r)
		}
	}
	return out
}
