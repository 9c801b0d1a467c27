package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	a := setupAPI(t)

	w := a.request(t, "POST", "/api/v1/auth/register", `{
		"email": "cook@example.com",
		"username": "cook",
		"first_name": "Test",
		"last_name": "Cook",
		"password": "password123"
	}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		User struct {
			Email    string `json:"email"`
			Username string `json:"username"`
		} `json:"user"`
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "cook@example.com", resp.User.Email)
	assert.Equal(t, "cook", resp.User.Username)
	require.NotEmpty(t, resp.Token)

	claims, err := a.auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "cook", claims.Username)
}

func TestRegisterEndpointDuplicate(t *testing.T) {
	a := setupAPI(t)
	a.register(t, "cook@example.com", "cook")

	w := a.request(t, "POST", "/api/v1/auth/register", `{
		"email": "cook@example.com",
		"username": "anothercook",
		"password": "password123"
	}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "a user with this email or username already exists", errorMessage(t, w))
}

func TestLoginEndpoint(t *testing.T) {
	a := setupAPI(t)
	a.register(t, "cook@example.com", "cook")

	w := a.request(t, "POST", "/api/v1/auth/login", `{
		"email": "cook@example.com",
		"password": "password123"
	}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	assert.NotEmpty(t, resp.Token)

	w = a.request(t, "POST", "/api/v1/auth/login", `{
		"email": "cook@example.com",
		"password": "wrongpassword"
	}`, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "invalid credentials", errorMessage(t, w))
}

func TestSetPasswordEndpoint(t *testing.T) {
	a := setupAPI(t)
	_, token := a.register(t, "cook@example.com", "cook")

	w := a.request(t, "POST", "/api/v1/users/set_password", `{
		"current_password": "wrongpassword",
		"new_password": "newpassword1"
	}`, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "wrong current password", errorMessage(t, w))

	w = a.request(t, "POST", "/api/v1/users/set_password", `{
		"current_password": "password123",
		"new_password": "newpassword1"
	}`, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = a.request(t, "POST", "/api/v1/auth/login", `{
		"email": "cook@example.com",
		"password": "newpassword1"
	}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetPasswordRequiresAuth(t *testing.T) {
	a := setupAPI(t)

	w := a.request(t, "POST", "/api/v1/users/set_password", `{
		"current_password": "password123",
		"new_password": "newpassword1"
	}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
