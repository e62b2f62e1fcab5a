package config

import "testing"

func TestAuthSecretFallback(t *testing.T) {
	unset := AuthConfig{}
	set := AuthConfig{JWTSecret: "configured"}

	// Issuer and verifier both read Secret(), so the fallback must be
	// deterministic for either to accept the other's tokens.
	if got := unset.Secret(); got != "default_secret" {
		t.Errorf("Secret() with empty JWT_SECRET = %q, want default", got)
	}
	if got := set.Secret(); got != "configured" {
		t.Errorf("Secret() = %q, want configured value", got)
	}
}
