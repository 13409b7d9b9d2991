package auth

import "testing"

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("segredo123")
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if hash == "segredo123" {
		t.Fatalf("password stored in clear text")
	}
	if !CheckPassword(hash, "segredo123") {
		t.Fatalf("expected password to match")
	}
	if CheckPassword(hash, "segredo124") {
		t.Fatalf("expected wrong password to fail")
	}
}
