package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mealloop/backend/internal/middleware"
	"github.com/mealloop/backend/internal/types"
)

type stubValidator struct {
	claims *types.TokenClaims
}

func (v stubValidator) ValidateToken(token string) (*types.TokenClaims, error) {
	if token != "good-token" {
		return nil, errors.New("invalid token")
	}
	return v.claims, nil
}

func setupMiddlewareTest(validator middleware.TokenValidator, optional bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := middleware.AuthMiddleware(validator)
	if optional {
		handler = middleware.OptionalAuth(validator)
	}
	engine.GET("/probe", handler, func(c *gin.Context) {
		if id := middleware.CurrentUserID(c); id != nil {
			c.JSON(http.StatusOK, gin.H{"user_id": id})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": nil})
	})
	return engine
}

func probe(engine *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/probe", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	userID := uuid.New()
	engine := setupMiddlewareTest(stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "cook"}}, false)

	w := probe(engine, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = probe(engine, "NotBearer good-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = probe(engine, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = probe(engine, "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestOptionalAuth(t *testing.T) {
	userID := uuid.New()
	engine := setupMiddlewareTest(stubValidator{claims: &types.TokenClaims{UserID: userID, Username: "cook"}}, true)

	// Anonymous and invalid-token requests both pass through with no identity.
	w := probe(engine, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")

	w = probe(engine, "Bearer bad-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")

	w = probe(engine, "Bearer good-token")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}
