// Package auth validates bearer tokens and carries the authenticated user
// through the gin context.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	userContextKey = "auth.user"

	// MsgAuthenticationInvalid is returned for every rejected token
	MsgAuthenticationInvalid = "Authentication invalid"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// User is the identity attached to an authenticated request
type User struct {
	ID   string
	Name string
}

// Claims is the JWT payload issued to users
type Claims struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 tokens signed with a shared secret
type Authenticator struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewAuthenticator(secret, issuer string, ttl time.Duration) *Authenticator {
	return &Authenticator{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// IssueToken mints a signed token for the given user
func (a *Authenticator) IssueToken(user User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse validates a raw token and returns its user
func (a *Authenticator) Parse(raw string) (User, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.issuer))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return User{}, ErrInvalidToken
	}
	if claims.UserID == "" {
		return User{}, ErrInvalidToken
	}

	return User{ID: claims.UserID, Name: claims.Name}, nil
}

// Middleware rejects requests without a valid bearer token
func (a *Authenticator) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": MsgAuthenticationInvalid})
			return
		}

		user, err := a.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": MsgAuthenticationInvalid})
			return
		}

		SetUser(c, user)
		c.Next()
	}
}

func bearerToken(header string) (string, error) {
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(header[7:])
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// SetUser attaches user to the request context
func SetUser(c *gin.Context, user User) {
	c.Set(userContextKey, user)
}

// UserFrom returns the authenticated user, if any
func UserFrom(c *gin.Context) (User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return User{}, false
	}
	user, ok := v.(User)
	return user, ok && user.ID != ""
}
