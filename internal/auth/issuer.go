package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Pairing/auth failure taxonomy. All three are fatal to the connection
// attempt; none is retried transparently.
var (
	ErrExpiredCredential = errors.New("pairing credential expired")
	ErrInvalidSignature  = errors.New("pairing credential signature invalid")
	ErrMalformedToken    = errors.New("pairing credential malformed")
)

// ScopeSession is the only scope minted: session-transport access.
const ScopeSession = "session"

// Claims is the verified content of a pairing token.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
}

// Issuer mints and verifies HS256 pairing tokens. The signing secret is
// process-wide configuration, loaded once at startup and read-only after.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// TTL reports the configured token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Issue signs a fresh token granting session-transport access for subject.
// Tokens are never renewed in place; expiry forces a new pairing round. The
// jti claim keeps every descriptor distinct even within one clock second.
func (i *Issuer) Issue(subject string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"scope": ScopeSession,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(i.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify parses and validates a token against the current secret, mapping
// library errors onto the gateway taxonomy.
func (i *Issuer) Verify(token string) (Claims, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSignature
		}
		return i.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Claims{}, ErrExpiredCredential
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Claims{}, ErrInvalidSignature
		default:
			return Claims{}, ErrMalformedToken
		}
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return Claims{}, ErrMalformedToken
	}
	sub, _ := mc["sub"].(string)
	scope, _ := mc["scope"].(string)
	if sub == "" || scope != ScopeSession {
		return Claims{}, ErrMalformedToken
	}
	exp, err := mc.GetExpirationTime()
	if err != nil || exp == nil {
		return Claims{}, ErrMalformedToken
	}
	return Claims{Subject: sub, ExpiresAt: exp.Time}, nil
}
