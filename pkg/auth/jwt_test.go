package auth

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	Init("unit-test-secret")

	token, err := GenerateToken(42, "asha", "reporter")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "asha" || claims.Role != "reporter" {
		t.Errorf("claims wrong: %+v", claims)
	}
	if !ValidateToken(token) {
		t.Error("ValidateToken should accept a fresh token")
	}
}

func TestParseTokenRejectsTampering(t *testing.T) {
	Init("unit-test-secret")

	token, err := GenerateToken(42, "asha", "user")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ParseToken(token + "x"); err == nil {
		t.Error("tampered token should not parse")
	}

	Init("different-secret")
	if _, err := ParseToken(token); err == nil {
		t.Error("token signed with another secret should not parse")
	}
}
