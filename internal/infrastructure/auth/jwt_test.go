package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTAuthorizer_RoundTrip(t *testing.T) {
	token, err := IssueToken("secret", 42, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	got, err := NewJWTAuthorizer("secret").Authorize(token)
	if err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Errorf("brawler id = %d, want 42", got)
	}
}

func TestJWTAuthorizer_WrongSecret(t *testing.T) {
	token, err := IssueToken("secret", 42, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewJWTAuthorizer("other").Authorize(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTAuthorizer_Expired(t *testing.T) {
	token, err := IssueToken("secret", 42, -time.Minute)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := NewJWTAuthorizer("secret").Authorize(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTAuthorizer_Malformed(t *testing.T) {
	a := NewJWTAuthorizer("secret")
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := a.Authorize(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Authorize(%q): expected ErrInvalidToken, got %v", token, err)
		}
	}
}
