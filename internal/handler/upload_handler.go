package handler

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/expertec/api-web-negocios/internal/storage"
	"github.com/expertec/api-web-negocios/pkg/logger"
	"github.com/expertec/api-web-negocios/prometheus"
)

// UploadImage stores a base64-encoded image in the blob store and returns
// the public URL plus the object key needed to delete it later. The image
// may arrive as a raw base64 string or a data URL.
func UploadImage(c echo.Context) error {
	log := logger.FromContext(c)
	negocio := negocioFromContext(c)
	prometheus.RecordUpload("store")

	var req struct {
		Imagen string `json:"imagen"`
		Nombre string `json:"nombre"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse upload request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Imagen == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "imagen is required"})
	}

	contentType, data, err := decodeImage(req.Imagen)
	if err != nil {
		log.Warn("Rejected malformed image payload", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "imagen must be valid base64"})
	}

	url, objectKey, err := storage.GetStore().Save(negocio.ID, data, contentType, req.Nombre)
	if err != nil {
		log.Error("Failed to store image",
			zap.String("negocio_id", negocio.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store image"})
	}

	log.Info("Image stored",
		zap.String("negocio_id", negocio.ID),
		zap.String("file_name", objectKey),
		zap.Int("bytes", len(data)))
	return c.JSON(http.StatusOK, echo.Map{
		"url":      url,
		"fileName": objectKey,
	})
}

// DeleteImage removes a previously uploaded image by its object key
func DeleteImage(c echo.Context) error {
	log := logger.FromContext(c)
	negocio := negocioFromContext(c)
	prometheus.RecordUpload("delete")

	var req struct {
		FileName string `json:"fileName"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse delete request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.FileName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "fileName is required"})
	}

	if err := storage.GetStore().Delete(req.FileName); err != nil {
		log.Error("Failed to delete image",
			zap.String("negocio_id", negocio.ID),
			zap.String("file_name", req.FileName),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete image"})
	}

	log.Info("Image deleted",
		zap.String("negocio_id", negocio.ID),
		zap.String("file_name", req.FileName))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// decodeImage accepts either a data URL (data:image/png;base64,...) or a
// bare base64 string and returns the content type plus raw bytes
func decodeImage(payload string) (string, []byte, error) {
	contentType := "image/jpeg"

	if strings.HasPrefix(payload, "data:") {
		semi := strings.Index(payload, ";base64,")
		if semi > len("data:") {
			contentType = payload[len("data:"):semi]
			payload = payload[semi+len(";base64,"):]
		}
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, err
	}
	return contentType, data, nil
}
