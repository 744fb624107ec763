package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "repair-office/pkg/errors"
	"repair-office/pkg/service"
	"repair-office/pkg/utils"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		err    error
	}{
		{"", "", apperrors.ErrEmptyAuthHeader},
		{"Bearer abc", "abc", nil},
		{"bearer abc", "abc", nil},
		{"Basic abc", "", apperrors.ErrInvalidAuthHeader},
		{"Bearer", "", apperrors.ErrInvalidAuthHeader},
		{"Bearer a b", "", apperrors.ErrInvalidAuthHeader},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			token, err := BearerToken(tt.header)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.token, token)
		})
	}
}

func TestAuth(t *testing.T) {
	jwtSvc := service.NewJWTService("middleware-test", time.Hour, 2*time.Hour, zap.NewNop())
	access, refresh, err := jwtSvc.GenerateTokens(42, "desk@example.com")
	require.NoError(t, err)

	mw := NewAuthMiddleware(jwtSvc, zap.NewNop())
	var seen int64
	handler := mw.Auth(func(c echo.Context) error {
		seen, err = utils.GetMemberIDFromCtx(c.Request().Context())
		if err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	})

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
		{"refresh token", "Bearer " + refresh, http.StatusUnauthorized},
		{"access token", "Bearer " + access, http.StatusNoContent},
	}
	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = 0
			req := httptest.NewRequest(http.MethodGet, "/api/get-case-info", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()

			require.NoError(t, handler(e.NewContext(req, rec)))
			assert.Equal(t, tt.code, rec.Code)
			if tt.code == http.StatusNoContent {
				assert.Equal(t, int64(42), seen)
			} else {
				assert.Zero(t, seen)
			}
		})
	}
}
