package storage

import (
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/expertec/api-web-negocios/internal/model"
	"github.com/expertec/api-web-negocios/pkg/config"
)

// Store is the narrow blob-storage capability the service consumes. The
// storage service itself is an external collaborator; this package only
// builds object keys and talks to it over HTTP.
type Store interface {
	// Save uploads bytes under a deterministic object key and returns the
	// public URL plus the key needed to delete the object later
	Save(negocioID string, data []byte, contentType, suggestedName string) (url string, objectKey string, err error)
	// Delete removes a previously stored object
	Delete(objectKey string) error
}

// Client talks to the blob store over its HTTP API
type Client struct {
	BaseURL   string
	PublicURL string
	http      *resty.Client
	logger    *zap.Logger
}

var store Store

// Initialize creates the default blob store client from configuration
func Initialize(cfg *config.Config, logger *zap.Logger) {
	publicURL := cfg.Storage.PublicURL
	if publicURL == "" {
		publicURL = cfg.Storage.BaseURL
	}

	httpClient := resty.New().
		SetBaseURL(cfg.Storage.BaseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(0)
	if cfg.Storage.APIKey != "" {
		httpClient.SetHeader("X-API-Key", cfg.Storage.APIKey)
	}

	store = &Client{
		BaseURL:   cfg.Storage.BaseURL,
		PublicURL: publicURL,
		http:      httpClient,
		logger:    logger,
	}
}

// GetStore returns the blob store instance
func GetStore() Store {
	return store
}

// SetStore replaces the blob store instance, used by tests
func SetStore(s Store) {
	store = s
}

// ObjectKey builds the deterministic key a negocio's upload is stored
// under: negocioID/timestamp-name.ext
func ObjectKey(negocioID, contentType, suggestedName string) string {
	name := model.Slugify(strings.TrimSuffix(suggestedName, path.Ext(suggestedName)))
	if name == "" {
		name = "imagen"
	}

	ext := path.Ext(suggestedName)
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		} else {
			ext = ".bin"
		}
	}

	return fmt.Sprintf("%s/%d-%s%s", negocioID, time.Now().UnixMilli(), name, ext)
}

// Save implements Store over the blob service HTTP API
func (c *Client) Save(negocioID string, data []byte, contentType, suggestedName string) (string, string, error) {
	objectKey := ObjectKey(negocioID, contentType, suggestedName)

	resp, err := c.http.R().
		SetHeader("Content-Type", contentType).
		SetBody(data).
		Put("/" + objectKey)
	if err != nil {
		return "", "", err
	}
	if resp.IsError() {
		c.logger.Error("Blob store rejected upload",
			zap.String("object_key", objectKey),
			zap.Int("status", resp.StatusCode()))
		return "", "", fmt.Errorf("blob store returned status %d", resp.StatusCode())
	}

	return c.PublicURL + "/" + objectKey, objectKey, nil
}

// Delete implements Store over the blob service HTTP API. Deleting a
// missing object is not an error.
func (c *Client) Delete(objectKey string) error {
	resp, err := c.http.R().Delete("/" + objectKey)
	if err != nil {
		return err
	}
	if resp.IsError() && resp.StatusCode() != 404 {
		c.logger.Error("Blob store rejected delete",
			zap.String("object_key", objectKey),
			zap.Int("status", resp.StatusCode()))
		return fmt.Errorf("blob store returned status %d", resp.StatusCode())
	}
	return nil
}
