package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"energy_audit_backend/platform/logger"
)

type testAuthConfig struct{}

func (testAuthConfig) GetJWTAccessSecret() string       { return "test-secret" }
func (testAuthConfig) GetAccessTokenTTL() time.Duration { return 15 * time.Minute }

func TestSignJWTClaims(t *testing.T) {
	svc := New(nil, testAuthConfig{}, logger.New("test"))
	auditorID := uuid.New()

	signed, err := svc.signJWT(auditorID, []string{"auditor", "admin"})
	if err != nil {
		t.Fatalf("signJWT: %v", err)
	}

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims type %T", parsed.Claims)
	}

	if claims["sub"] != auditorID.String() {
		t.Fatalf("sub = %v", claims["sub"])
	}
	if claims["type"] != "access" {
		t.Fatalf("type = %v", claims["type"])
	}
	roles, ok := claims["roles"].([]interface{})
	if !ok || len(roles) != 2 || roles[0] != "auditor" {
		t.Fatalf("roles = %v", claims["roles"])
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		t.Fatalf("exp claim: %v", err)
	}
	ttl := time.Until(exp.Time)
	if ttl <= 14*time.Minute || ttl > 15*time.Minute {
		t.Fatalf("token ttl = %v, want about 15m", ttl)
	}
}

func TestSignJWTRejectsWrongSecret(t *testing.T) {
	svc := New(nil, testAuthConfig{}, logger.New("test"))

	signed, err := svc.signJWT(uuid.New(), []string{"auditor"})
	if err != nil {
		t.Fatalf("signJWT: %v", err)
	}

	_, err = jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return []byte("other-secret"), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err == nil {
		t.Fatal("expected signature validation to fail")
	}
}
