package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func authedRequest(method, path, body, token string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	return req
}

func TestUsers_RequireAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/users", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUsers_RejectsExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "dev@example.com")

	env.clock.Advance(3 * time.Hour)

	rec := env.do(authedRequest(http.MethodGet, "/api/users", "", token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUsers_List(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "alice@example.com")
	env.registerUser(t, "bob@example.com")

	rec := env.do(authedRequest(http.MethodGet, "/api/users", "", token))
	require.Equal(t, http.StatusOK, rec.Code)

	var users []userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	require.Len(t, users, 2)
	assert.Equal(t, "alice@example.com", users[0].Email)
	assert.Equal(t, "bob@example.com", users[1].Email)
}

func TestUsers_CurrentUser(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.registerUser(t, "dev@example.com")

	rec := env.do(authedRequest(http.MethodGet, "/api/users/me", "", token))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, user.ID, resp.ID)
	assert.Equal(t, "dev@example.com", resp.Email)
}

func TestUsers_GetByID(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "dev@example.com")
	other, _ := env.registerUser(t, "other@example.com")

	rec := env.do(authedRequest(http.MethodGet, "/api/users/"+other.ID.String(), "", token))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, other.ID, resp.ID)
}

func TestUsers_GetByID_NotFound(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "dev@example.com")

	rec := env.do(authedRequest(http.MethodGet, "/api/users/"+uuid.NewString(), "", token))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsers_GetByID_BadUUID(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "dev@example.com")

	rec := env.do(authedRequest(http.MethodGet, "/api/users/not-a-uuid", "", token))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsers_Update(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.registerUser(t, "dev@example.com")

	rec := env.do(authedRequest(http.MethodPut, "/api/users/"+user.ID.String(),
		`{"email":"new@example.com","full_name":"Renamed"}`, token))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "new@example.com", resp.Email)
	assert.Equal(t, "Renamed", resp.FullName)
}

func TestUsers_Update_EmailConflict(t *testing.T) {
	env := newTestEnv(t)
	user, token := env.registerUser(t, "dev@example.com")
	env.registerUser(t, "taken@example.com")

	rec := env.do(authedRequest(http.MethodPut, "/api/users/"+user.ID.String(),
		`{"email":"taken@example.com","full_name":"Dev"}`, token))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestUsers_Delete(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.registerUser(t, "dev@example.com")
	other, _ := env.registerUser(t, "other@example.com")

	rec := env.do(authedRequest(http.MethodDelete, "/api/users/"+other.ID.String(), "", token))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = env.do(authedRequest(http.MethodDelete, "/api/users/"+other.ID.String(), "", token))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
