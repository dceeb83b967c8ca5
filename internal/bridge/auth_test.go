package bridge

import (
	"testing"
	"time"
)

func TestServiceTokenRoundTrip(t *testing.T) {
	cfg := &TokenConfig{Key: []byte("shared-key"), Identity: "exec-test", TTL: time.Hour}

	token, err := GenerateServiceToken(cfg)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	claims, err := ValidateServiceToken(cfg, token)
	if err != nil {
		t.Fatalf("validate token: %v", err)
	}
	if claims.Issuer != "exec-test" {
		t.Fatalf("unexpected issuer: %q", claims.Issuer)
	}
}

func TestServiceTokenRejectsWrongKey(t *testing.T) {
	cfg := &TokenConfig{Key: []byte("shared-key"), Identity: "exec-test", TTL: time.Hour}
	other := &TokenConfig{Key: []byte("other-key"), Identity: "exec-test", TTL: time.Hour}

	token, err := GenerateServiceToken(other)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ValidateServiceToken(cfg, token); err == nil {
		t.Fatal("token signed with wrong key validated")
	}
}

func TestServiceTokenRejectsWrongIssuer(t *testing.T) {
	cfg := &TokenConfig{Key: []byte("shared-key"), Identity: "exec-test", TTL: time.Hour}
	other := &TokenConfig{Key: []byte("shared-key"), Identity: "impostor", TTL: time.Hour}

	token, err := GenerateServiceToken(other)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ValidateServiceToken(cfg, token); err == nil {
		t.Fatal("token with wrong issuer validated")
	}
}

func TestServiceTokenRejectsExpired(t *testing.T) {
	cfg := &TokenConfig{Key: []byte("shared-key"), Identity: "exec-test", TTL: -time.Minute}

	token, err := GenerateServiceToken(cfg)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	if _, err := ValidateServiceToken(cfg, token); err == nil {
		t.Fatal("expired token validated")
	}
}
