package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	key := ObjectKey("neg_abc", "image/png", "Portada Principal.png")

	parts := strings.SplitN(key, "/", 2)
	assert.Equal(t, "neg_abc", parts[0])
	assert.True(t, strings.HasSuffix(key, "-portadaprincipal.png"), key)
}

func TestObjectKeyDerivesExtensionFromContentType(t *testing.T) {
	key := ObjectKey("neg_abc", "image/png", "portada")
	assert.True(t, strings.HasSuffix(key, ".png"), key)
}

func TestObjectKeyFallbacks(t *testing.T) {
	key := ObjectKey("neg_abc", "application/octet-stream", "")
	assert.Contains(t, key, "imagen")
}
