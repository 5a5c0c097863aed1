package auth

import (
	"errors"
	"testing"
	"time"
)

func TestIssueVerifyRoundTrip(t *testing.T) {
	iss := NewIssuer([]byte("test-secret"), time.Minute)
	tok, err := iss.Issue("phone-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := iss.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "phone-1" {
		t.Fatalf("subject = %q, want phone-1", claims.Subject)
	}
	if time.Until(claims.ExpiresAt) <= 0 {
		t.Fatalf("expiry already passed: %v", claims.ExpiresAt)
	}
}

func TestTokensAreDistinctPerCall(t *testing.T) {
	iss := NewIssuer([]byte("test-secret"), time.Minute)
	a, err := iss.Issue("phone-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	b, err := iss.Issue("phone-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if a == b {
		t.Fatalf("two pairing calls produced the same token")
	}
}

func TestVerifyExpired(t *testing.T) {
	iss := NewIssuer([]byte("test-secret"), -time.Minute)
	tok, err := iss.Issue("phone-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := iss.Verify(tok); !errors.Is(err, ErrExpiredCredential) {
		t.Fatalf("err = %v, want ErrExpiredCredential", err)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	tok, err := NewIssuer([]byte("secret-a"), time.Minute).Issue("phone-1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if _, err := NewIssuer([]byte("secret-b"), time.Minute).Verify(tok); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("err = %v, want ErrInvalidSignature", err)
	}
}

func TestVerifyMalformed(t *testing.T) {
	iss := NewIssuer([]byte("test-secret"), time.Minute)
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := iss.Verify(tok); !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("Verify(%q) err = %v, want ErrMalformedToken", tok, err)
		}
	}
}
