// Package auth verifies bearer tokens and carries the caller's identity through
// request contexts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"product-showcase-service/internal/domain"
)

// RoleHeader is the legacy header that some storefront clients send instead of a token.
const RoleHeader = "X-User-Role"

var (
	ErrMissingToken = errors.New("auth: missing bearer token")
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrNoSecret     = errors.New("auth: token verification is not configured")
)

// Claims are the JWT claims understood by the service. Subject holds the numeric user id.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Principal is an authenticated user.
type Principal struct {
	UserID   int64
	UserName string
	Role     string
}

// Identity returns the opaque caller identity used for price visibility.
func (p Principal) Identity() domain.CallerIdentity {
	if strings.TrimSpace(p.Role) != "" {
		return domain.CallerIdentity(p.Role)
	}
	return domain.CallerIdentity("user:" + strconv.FormatInt(p.UserID, 10))
}

// Verifier checks HS256 tokens signed with a shared secret.
type Verifier struct {
	secret          []byte
	trustRoleHeader bool
	now             func() time.Time
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithTrustedRoleHeader makes a non-blank X-User-Role header count as an identity
// for price visibility. It never authenticates a review submission.
func WithTrustedRoleHeader(trust bool) Option {
	return func(v *Verifier) { v.trustRoleHeader = trust }
}

// WithClock overrides the time used for expiry checks and issued tokens.
func WithClock(now func() time.Time) Option {
	return func(v *Verifier) { v.now = now }
}

// NewVerifier creates a Verifier. An empty secret rejects every token.
func NewVerifier(secret string, opts ...Option) *Verifier {
	v := &Verifier{secret: []byte(secret), now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify parses and validates a raw token.
func (v *Verifier) Verify(rawToken string) (*Principal, error) {
	if len(v.secret) == 0 {
		return nil, ErrNoSecret
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(rawToken, claims, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return nil, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, claims.Subject)
	}
	name := strings.TrimSpace(claims.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: missing name claim", ErrInvalidToken)
	}
	return &Principal{UserID: userID, UserName: name, Role: claims.Role}, nil
}

// Issue signs a token for p valid for ttl.
func (v *Verifier) Issue(p Principal, ttl time.Duration) (string, error) {
	if len(v.secret) == 0 {
		return "", ErrNoSecret
	}
	now := v.now()
	claims := Claims{
		Name: p.UserName,
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// Authenticate resolves the caller from an Authorization header value and the legacy
// role header. A missing or bad token is not an error here: the caller is anonymous.
func (v *Verifier) Authenticate(authHeader, roleHeader string) (*Principal, domain.CallerIdentity) {
	if rawToken, ok := ExtractBearerToken(authHeader); ok {
		if p, err := v.Verify(rawToken); err == nil {
			return p, p.Identity()
		}
	}
	if v.trustRoleHeader && strings.TrimSpace(roleHeader) != "" {
		return nil, domain.CallerIdentity(strings.TrimSpace(roleHeader))
	}
	return nil, domain.Anonymous
}

// ExtractBearerToken returns the token part of a "Bearer <token>" header.
func ExtractBearerToken(authHeader string) (string, bool) {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}

	rawToken := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	if rawToken == "" {
		return "", false
	}

	return rawToken, true
}

type contextKey struct{}

type caller struct {
	principal *Principal
	identity  domain.CallerIdentity
}

// NewContext returns a copy of ctx carrying the caller.
func NewContext(ctx context.Context, p *Principal, identity domain.CallerIdentity) context.Context {
	return context.WithValue(ctx, contextKey{}, caller{principal: p, identity: identity})
}

// PrincipalFrom returns the authenticated user stored in ctx, if any.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	c, ok := ctx.Value(contextKey{}).(caller)
	if !ok || c.principal == nil {
		return nil, false
	}
	return c.principal, true
}

// IdentityFrom returns the caller identity stored in ctx, or domain.Anonymous.
func IdentityFrom(ctx context.Context) domain.CallerIdentity {
	c, ok := ctx.Value(contextKey{}).(caller)
	if !ok {
		return domain.Anonymous
	}
	return c.identity
}
