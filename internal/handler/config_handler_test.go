package handler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfig(t *testing.T) {
	e := setupServer(t)
	id, user, _ := createNegocio(t, e, "Café Luna", "a@b.com")

	code, body := doRequest(t, e, "GET", "/api/"+id+"/config", nil, nil)
	require.Equal(t, 200, code)

	assert.Equal(t, id, body["negocioID"])
	assert.Equal(t, "Café Luna", body["nombre"])
	assert.Equal(t, user, body["user"])
	assert.Equal(t, true, body["active"])
	assert.Equal(t, false, body["briefCompleted"])

	// The PIN never appears in the tenant-facing document
	assert.NotContains(t, body, "pin")

	config, ok := body["config"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, config, "colorPrimario")

	secciones, ok := body["secciones"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, secciones["productos"])
}

func TestGetConfigNotFound(t *testing.T) {
	e := setupServer(t)

	code, _ := doRequest(t, e, "GET", "/api/neg_missing/config", nil, nil)
	assert.Equal(t, 404, code)
}

func TestUpdateConfigMerges(t *testing.T) {
	e := setupServer(t)
	id, _, _ := createNegocio(t, e, "Café Luna", "a@b.com")

	code, _ := doRequest(t, e, "PUT", "/api/"+id+"/config",
		map[string]interface{}{"telefono": "555-1234"}, nil)
	require.Equal(t, 200, code)

	code, body := doRequest(t, e, "GET", "/api/"+id+"/config", nil, nil)
	require.Equal(t, 200, code)
	config := body["config"].(map[string]interface{})

	// The merged field is set and the seeded defaults survive
	assert.Equal(t, "555-1234", config["telefono"])
	assert.Equal(t, "#2563eb", config["colorPrimario"])

	// Path parameters must not leak into the stored config map
	assert.NotContains(t, config, "negocioID")
}

func TestUpdateConfigAcceptsArbitraryStructure(t *testing.T) {
	e := setupServer(t)
	id, _, _ := createNegocio(t, e, "Café Luna", "a@b.com")

	// No field name or type validation is performed
	code, _ := doRequest(t, e, "PUT", "/api/"+id+"/config",
		map[string]interface{}{"horario": map[string]interface{}{"lunes": "9-18"}}, nil)
	require.Equal(t, 200, code)

	code, body := doRequest(t, e, "GET", "/api/"+id+"/config", nil, nil)
	require.Equal(t, 200, code)
	config := body["config"].(map[string]interface{})
	horario := config["horario"].(map[string]interface{})
	assert.Equal(t, "9-18", horario["lunes"])
}

func TestUpdateSeccionesReplaces(t *testing.T) {
	e := setupServer(t)
	id, _, _ := createNegocio(t, e, "Café Luna", "a@b.com")

	code, _ := doRequest(t, e, "PUT", "/api/"+id+"/secciones",
		map[string]interface{}{"secciones": map[string]bool{"productos": false}}, nil)
	require.Equal(t, 200, code)

	code, body := doRequest(t, e, "GET", "/api/"+id+"/secciones", nil, nil)
	require.Equal(t, 200, code)
	secciones := body["secciones"].(map[string]interface{})

	// Replacement, not merge: toggles absent from the request are gone
	assert.Equal(t, false, secciones["productos"])
	assert.NotContains(t, secciones, "servicios")
}

func TestSubmitBrief(t *testing.T) {
	e := setupServer(t)
	id, _, _ := createNegocio(t, e, "Café Luna", "a@b.com")

	code, body := doRequest(t, e, "POST", "/api/"+id+"/brief",
		map[string]interface{}{
			"config": map[string]interface{}{"slogan": "El mejor café", "telefono": "555-1234"},
			"productos": []map[string]interface{}{
				{"nombre": "Café americano", "precio": 35},
				{"nombre": "Capuchino", "precio": 45},
			},
		}, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["productos"])

	code, body = doRequest(t, e, "GET", "/api/"+id+"/config", nil, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, true, body["briefCompleted"])
	config := body["config"].(map[string]interface{})
	assert.Equal(t, "555-1234", config["telefono"])

	code, items := doListRequest(t, e, "GET", "/api/"+id+"/productos", nil)
	require.Equal(t, 200, code)
	assert.Len(t, items, 2)
}

func TestGenerateText(t *testing.T) {
	e := setupServer(t)
	id, _, _ := createNegocio(t, e, "Café Luna", "a@b.com")

	code, body := doRequest(t, e, "POST", "/api/"+id+"/generar-texto",
		map[string]string{"tipo": "mision", "prompt": "café de especialidad"}, nil)
	require.Equal(t, 200, code)
	assert.Contains(t, body["texto"], "café de especialidad")

	code, _ = doRequest(t, e, "POST", "/api/"+id+"/generar-texto",
		map[string]string{"prompt": "sin tipo"}, nil)
	assert.Equal(t, 400, code)
}
