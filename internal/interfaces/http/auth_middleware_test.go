package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/stock-ledger/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "stock-ledger-test"
	testExpMin    = 60
)

// tokenForRole genera el header Authorization con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, testIssuer, testExpMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

func signed(t *testing.T, role, issuer string, expMin int) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, role, issuer, expMin)
	require.NoError(t, err)
	return "Bearer " + tok
}

// Ruta mínima protegida solo para admin y bodeguero; devuelve los claims cargados en locals.
func guardedApp() *fiber.App {
	app := fiber.New()
	app.Get("/guarded",
		apphttp.AuthMiddleware(testJWTSecret, testIssuer),
		apphttp.RequireRole(pkgjwt.RoleAdmin, pkgjwt.RoleBodeguero),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"user_id": apphttp.GetUserID(c), "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func TestAuthMiddleware(t *testing.T) {
	cases := []struct {
		name   string
		header func(t *testing.T) string
		status int
		code   string
	}{
		{"admin permitido", func(t *testing.T) string { return tokenForRole(t, pkgjwt.RoleAdmin) }, http.StatusOK, ""},
		{"bodeguero permitido", func(t *testing.T) string { return tokenForRole(t, pkgjwt.RoleBodeguero) }, http.StatusOK, ""},
		{"vendedor sin permiso", func(t *testing.T) string { return tokenForRole(t, pkgjwt.RoleVendedor) }, http.StatusForbidden, "FORBIDDEN"},
		{"token sin rol", func(t *testing.T) string { return signed(t, "", testIssuer, testExpMin) }, http.StatusUnauthorized, "MISSING_ROLE"},
		{"sin header", func(*testing.T) string { return "" }, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"sin prefijo Bearer", func(*testing.T) string { return "Token abc" }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token malformado", func(*testing.T) string { return "Bearer token.invalido.aqui" }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"token expirado", func(t *testing.T) string { return signed(t, pkgjwt.RoleAdmin, testIssuer, -1) }, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"otro emisor", func(t *testing.T) string { return signed(t, pkgjwt.RoleAdmin, "otro-emisor", testExpMin) }, http.StatusUnauthorized, "INVALID_TOKEN"},
	}
	app := guardedApp()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
			if h := tc.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			if tc.code != "" {
				assert.Equal(t, tc.code, body["code"])
				return
			}
			assert.Equal(t, testUserID, body["user_id"])
			assert.NotEmpty(t, body["role"])
		})
	}
}
