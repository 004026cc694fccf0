package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "secreto-de-prueba"

func TestGenerateAndParse(t *testing.T) {
	token, err := Generate(testSecret, "user-1", RoleBodeguero, "stock-ledger", 60)
	require.NoError(t, err)

	userID, role, err := Parse(testSecret, "stock-ledger", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, RoleBodeguero, role)
}

func TestParse_Errors(t *testing.T) {
	token, err := Generate(testSecret, "user-1", RoleAdmin, "stock-ledger", 60)
	require.NoError(t, err)
	expired, err := Generate(testSecret, "user-1", RoleAdmin, "stock-ledger", -5)
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		issuer string
		token  string
	}{
		{"firma incorrecta", "otro-secreto", "stock-ledger", token},
		{"emisor distinto", testSecret, "otro-emisor", token},
		{"expirado", testSecret, "stock-ledger", expired},
		{"malformado", testSecret, "", "no.es.un.jwt"},
		{"secret vacío", "", "", token},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.secret, tt.issuer, tt.token)
			assert.Error(t, err)
		})
	}
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := Generate("", "user-1", RoleAdmin, "", 60)
	assert.Error(t, err)
}
