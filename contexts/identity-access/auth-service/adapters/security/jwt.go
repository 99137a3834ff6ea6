package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"moringadesk/contexts/identity-access/auth-service/domain/entities"
	"moringadesk/contexts/identity-access/auth-service/ports"

	"github.com/golang-jwt/jwt/v5"
)

const defaultAccessTokenTTL = 60 * time.Minute

var errMissingSubject = errors.New("token has no subject")

// JWTIssuer signs HS256 access tokens whose subject is the user id.
type JWTIssuer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Clock  ports.Clock
}

func (i JWTIssuer) Issue(user entities.User) (entities.AccessToken, error) {
	if len(i.Secret) == 0 {
		return entities.AccessToken{}, errors.New("jwt secret is not configured")
	}
	ttl := i.TTL
	if ttl <= 0 {
		ttl = defaultAccessTokenTTL
	}
	now := i.now()
	expiresAt := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		Subject:   user.UserID,
		Issuer:    i.Issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.Secret)
	if err != nil {
		return entities.AccessToken{}, err
	}
	return entities.AccessToken{
		Token:     signed,
		TokenType: "bearer",
		ExpiresAt: expiresAt,
	}, nil
}

// Parse verifies signature, expiry and issuer and returns the subject.
func (i JWTIssuer) Parse(token string) (string, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.Issuer != "" {
		options = append(options, jwt.WithIssuer(i.Issuer))
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return i.Secret, nil
	}, options...)
	if err != nil {
		return "", fmt.Errorf("parse access token: %w", err)
	}
	if !parsed.Valid {
		return "", errors.New("access token is not valid")
	}
	subject := strings.TrimSpace(claims.Subject)
	if subject == "" {
		return "", errMissingSubject
	}
	return subject, nil
}

func (i JWTIssuer) now() time.Time {
	if i.Clock == nil {
		return time.Now().UTC()
	}
	return i.Clock.Now().UTC()
}

var _ ports.TokenIssuer = JWTIssuer{}
