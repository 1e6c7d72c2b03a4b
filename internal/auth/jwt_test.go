package auth

import (
	"testing"
	"time"
)

func TestIssueAndParse(t *testing.T) {
	token, err := Issue(7, "admin", "Ana Torres", "sistema-asistencias", "secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := Parse(token.Value, "secret", "sistema-asistencias")
	if err != nil {
		t.Fatal(err)
	}
	if claims.Username != "admin" || claims.NombreCompleto != "Ana Torres" {
		t.Errorf("claims lost: %+v", claims)
	}
	id, err := claims.AdminID()
	if err != nil || id != 7 {
		t.Errorf("subject should carry the admin id: %d, %v", id, err)
	}
}

func TestParseRejectsWrongKey(t *testing.T) {
	token, err := Issue(7, "admin", "", "iss", "secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(token.Value, "other", "iss"); err == nil {
		t.Error("wrong signing key should fail")
	}
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	token, err := Issue(7, "admin", "", "iss-a", "secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(token.Value, "secret", "iss-b"); err == nil {
		t.Error("issuer mismatch should fail")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	token, err := Issue(7, "admin", "", "iss", "secret", -time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Parse(token.Value, "secret", "iss"); err == nil {
		t.Error("expired token should fail")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3creto")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(hash, "s3creto") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "otra") {
		t.Error("wrong password accepted")
	}
}
