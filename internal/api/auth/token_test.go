package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndValidate(t *testing.T) {
	svc := NewTokenService("test-secret", "customer-svc", time.Hour)

	token, err := svc.Issue("ada")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "ada", subject)
}

func TestTokenService_RejectsWrongKey(t *testing.T) {
	issuer := NewTokenService("secret-a", "customer-svc", time.Hour)
	validator := NewTokenService("secret-b", "customer-svc", time.Hour)

	token, err := issuer.Issue("ada")
	require.NoError(t, err)

	_, err = validator.Validate(token)
	require.EqualError(t, err, "invalid token")
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := NewTokenService("test-secret", "customer-svc", -time.Minute)

	token, err := svc.Issue("ada")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.EqualError(t, err, "token has expired")
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := NewTokenService("test-secret", "customer-svc", time.Hour)

	_, err := svc.Validate("not.a.token")
	require.Error(t, err)
}
