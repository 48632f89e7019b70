package auth

import "testing"

func TestTokenRoundTrip(t *testing.T) {
	at := NewAuthToken("test-secret")

	token, err := at.GenerateToken("client-42")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	ok, clientID, err := at.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok || clientID != "client-42" {
		t.Errorf("ok=%v clientID=%q", ok, clientID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewAuthToken("secret-a").GenerateToken("client")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if ok, _, err := NewAuthToken("secret-b").VerifyToken(token); ok || err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestGenerateRequiresSecret(t *testing.T) {
	if _, err := NewAuthToken("").GenerateToken("client"); err == nil {
		t.Error("empty secret accepted")
	}
}
