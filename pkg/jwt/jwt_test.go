package jwt

import (
	"errors"
	"testing"
	"time"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestRoundTrip(t *testing.T) {
	s := NewSigner(secret, "gazi-tiles", time.Hour)

	token, err := s.GenerateToken("user-1", "owner@gazitiles.com", "Owner", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Email != "owner@gazitiles.com" || claims.Role != "admin" || claims.Subject != "user-1" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateTokenRejects(t *testing.T) {
	s := NewSigner(secret, "gazi-tiles", time.Hour)
	token, err := s.GenerateToken("user-1", "a@b.com", "A", "salesman")
	if err != nil {
		t.Fatal(err)
	}

	expired := NewSigner(secret, "gazi-tiles", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	tests := []struct {
		name   string
		signer *Signer
		token  string
		want   error
	}{
		{"empty", s, "", ErrMissingToken},
		{"garbage", s, "not-a-token", ErrInvalidToken},
		{"other secret", NewSigner("another-secret-another-secret-xx", "gazi-tiles", time.Hour), token, ErrInvalidToken},
		{"other issuer", NewSigner(secret, "someone-else", time.Hour), token, ErrInvalidToken},
		{"expired", expired, token, ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.signer.ValidateToken(tt.token); !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}
