package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	e := setupServer(t)
	id, user, pin := createNegocio(t, e, "Café Luna", "a@b.com")

	code, body := doRequest(t, e, "POST", "/auth/login",
		map[string]string{"user": user, "pin": pin}, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, id, body["negocioID"])
	assert.Equal(t, "Café Luna", body["nombre"])
	assert.NotEmpty(t, body["token"])
}

func TestLoginScopedToNegocio(t *testing.T) {
	e := setupServer(t)
	id, user, pin := createNegocio(t, e, "Café Luna", "a@b.com")
	otherID, _, _ := createNegocio(t, e, "Tacos El Rey", "c@d.com")

	code, body := doRequest(t, e, "POST", "/auth/login",
		map[string]string{"user": user, "pin": pin, "negocioID": id}, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, id, body["negocioID"])

	// Valid credentials scoped to the wrong negocio are rejected
	code, _ = doRequest(t, e, "POST", "/auth/login",
		map[string]string{"user": user, "pin": pin, "negocioID": otherID}, nil)
	assert.Equal(t, 401, code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e := setupServer(t)
	_, user, pin := createNegocio(t, e, "Café Luna", "a@b.com")

	// Wrong PIN and unknown user yield the same generic 401
	code, body := doRequest(t, e, "POST", "/auth/login",
		map[string]string{"user": user, "pin": "0000"}, nil)
	assert.Equal(t, 401, code)
	wrongPinError := body["error"]

	code, body = doRequest(t, e, "POST", "/auth/login",
		map[string]string{"user": "nobody2026", "pin": pin}, nil)
	assert.Equal(t, 401, code)
	assert.Equal(t, wrongPinError, body["error"])
}

func TestLoginRejectsMissingFields(t *testing.T) {
	e := setupServer(t)

	code, _ := doRequest(t, e, "POST", "/auth/login", map[string]string{"user": "x"}, nil)
	assert.Equal(t, 400, code)
}

func TestLoginRejectsInactiveNegocio(t *testing.T) {
	e := setupServer(t)
	id, user, pin := createNegocio(t, e, "Café Luna", "a@b.com")

	code, _ := doRequest(t, e, "PUT", "/api/super-admin/negocios/"+id,
		map[string]interface{}{"active": false}, adminHeaders())
	require.Equal(t, 200, code)

	code, _ = doRequest(t, e, "POST", "/auth/login",
		map[string]string{"user": user, "pin": pin}, nil)
	assert.Equal(t, 401, code)
}
