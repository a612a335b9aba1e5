package jwt_test

import (
	"errors"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

const (
	secret = "test-secret-key-for-unit-tests"
	issuer = "inventario-ledger-test"
)

var bodeguero = jwt.Identity{UserID: "u-1", CompanyID: "co-1", Role: "bodeguero"}

func TestIssueVerify_ConservaIdentidad(t *testing.T) {
	tok, err := jwt.Issue(secret, issuer, bodeguero, time.Hour)
	require.NoError(t, err)

	id, err := jwt.Verify(secret, issuer, tok)
	require.NoError(t, err)
	assert.Equal(t, bodeguero, id)
}

func TestVerify_TokenExpirado(t *testing.T) {
	tok, err := jwt.Issue(secret, issuer, bodeguero, -time.Minute)
	require.NoError(t, err)

	_, err = jwt.Verify(secret, issuer, tok)
	assert.True(t, errors.Is(err, gojwt.ErrTokenExpired))
}

func TestVerify_SecretIncorrecto(t *testing.T) {
	tok, err := jwt.Issue(secret, issuer, bodeguero, time.Hour)
	require.NoError(t, err)

	_, err = jwt.Verify("otro-secret-completamente-distinto", issuer, tok)
	assert.True(t, errors.Is(err, gojwt.ErrTokenSignatureInvalid))
}

func TestVerify_EmisorDistinto(t *testing.T) {
	tok, err := jwt.Issue(secret, "otro-emisor", bodeguero, time.Hour)
	require.NoError(t, err)

	_, err = jwt.Verify(secret, issuer, tok)
	assert.Error(t, err)

	_, err = jwt.Verify(secret, "", tok)
	assert.NoError(t, err, "sin emisor configurado no se valida")
}

func TestVerify_SinEmpresaSeRechaza(t *testing.T) {
	tok, err := jwt.Issue(secret, issuer, jwt.Identity{UserID: "u-1", Role: "admin"}, time.Hour)
	require.NoError(t, err)

	_, err = jwt.Verify(secret, issuer, tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := jwt.Issue("", issuer, bodeguero, time.Hour)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)

	_, err = jwt.Verify("", issuer, "x.y.z")
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
}
