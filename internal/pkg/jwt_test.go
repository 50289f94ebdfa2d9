package pkg

import (
	"testing"
)

func TestIdentityTokenRoundTrip(t *testing.T) {
	token, err := IssueIdentityToken(42)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	claims, err := ParseIdentityToken(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("user id = %d, want 42", claims.UserID)
	}
}

func TestIdentityTokenWrongSecret(t *testing.T) {
	orig := IdentitySecret
	defer func() { IdentitySecret = orig }()

	token, err := IssueIdentityToken(1)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	IdentitySecret = []byte("another-secret")
	if _, err := ParseIdentityToken(token); err == nil {
		t.Fatal("token signed with old secret must not parse")
	}
}

func TestIdentityTokenGarbage(t *testing.T) {
	if _, err := ParseIdentityToken("not.a.token"); err == nil {
		t.Fatal("garbage token must not parse")
	}
}
