package handler_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expertec/api-web-negocios/internal/storage"
)

// fakeStore captures uploads in memory
type fakeStore struct {
	saved   map[string][]byte
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: map[string][]byte{}}
}

func (f *fakeStore) Save(negocioID string, data []byte, contentType, suggestedName string) (string, string, error) {
	key := storage.ObjectKey(negocioID, contentType, suggestedName)
	f.saved[key] = data
	return "https://cdn.example/" + key, key, nil
}

func (f *fakeStore) Delete(objectKey string) error {
	f.deleted = append(f.deleted, objectKey)
	delete(f.saved, objectKey)
	return nil
}

func TestUploadImage(t *testing.T) {
	e := setupServer(t)
	id, _, _ := createNegocio(t, e, "Café Luna", "a@b.com")

	fake := newFakeStore()
	storage.SetStore(fake)

	payload := []byte{0x89, 0x50, 0x4e, 0x47}
	imagen := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	code, body := doRequest(t, e, "POST", "/api/"+id+"/upload-imagen",
		map[string]string{"imagen": imagen, "nombre": "portada.png"}, nil)
	require.Equal(t, 200, code)

	fileName, _ := body["fileName"].(string)
	require.NotEmpty(t, fileName)
	assert.Contains(t, fileName, id+"/")
	assert.Contains(t, fileName, "portada")
	assert.Contains(t, body["url"], fileName)
	assert.Equal(t, payload, fake.saved[fileName])
}

func TestUploadImageRejectsBadPayload(t *testing.T) {
	e := setupServer(t)
	id, _, _ := createNegocio(t, e, "Café Luna", "a@b.com")
	storage.SetStore(newFakeStore())

	code, _ := doRequest(t, e, "POST", "/api/"+id+"/upload-imagen",
		map[string]string{"imagen": "%%%not-base64%%%"}, nil)
	assert.Equal(t, 400, code)

	code, _ = doRequest(t, e, "POST", "/api/"+id+"/upload-imagen",
		map[string]string{"nombre": "sin-imagen.png"}, nil)
	assert.Equal(t, 400, code)
}

func TestDeleteImage(t *testing.T) {
	e := setupServer(t)
	id, _, _ := createNegocio(t, e, "Café Luna", "a@b.com")

	fake := newFakeStore()
	storage.SetStore(fake)

	code, body := doRequest(t, e, "DELETE", "/api/"+id+"/delete-imagen",
		map[string]string{"fileName": id + "/123-portada.png"}, nil)
	require.Equal(t, 200, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []string{id + "/123-portada.png"}, fake.deleted)

	code, _ = doRequest(t, e, "DELETE", "/api/"+id+"/delete-imagen",
		map[string]string{}, nil)
	assert.Equal(t, 400, code)
}
