package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/billboards-ops/internal/model"
)

type parserFunc func(string) (model.Principal, error)

func (f parserFunc) Parse(token string) (model.Principal, error) { return f(token) }

func newEngine(parser TokenParser) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", Auth(parser), func(c *gin.Context) {
		principal, ok := MustPrincipal(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"role": principal.Role})
	})
	return r
}

func TestAuthStoresPrincipal(t *testing.T) {
	userID := uuid.New()
	r := newEngine(parserFunc(func(token string) (model.Principal, error) {
		require.Equal(t, "good", token)
		return model.Principal{UserID: userID, Role: model.UserRoleOperator}, nil
	}))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"role":"OPERATOR"}`, rec.Body.String())
}

func TestAuthRejectsMissingOrInvalidToken(t *testing.T) {
	r := newEngine(parserFunc(func(string) (model.Principal, error) {
		return model.Principal{}, errors.New("bad signature")
	}))

	for _, header := range []string{"", "Basic abc", "Bearer ", "Bearer forged"} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code, header)
	}
}

func TestMustPrincipalWithoutAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := MustPrincipal(c)
	require.False(t, ok)
}
