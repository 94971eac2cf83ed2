package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/expertec/api-web-negocios/internal/model"
	"github.com/expertec/api-web-negocios/internal/textgen"
	"github.com/expertec/api-web-negocios/pkg/database"
	"github.com/expertec/api-web-negocios/pkg/logger"
	"github.com/expertec/api-web-negocios/prometheus"
)

// negocioFromContext returns the negocio loaded by the context middleware
func negocioFromContext(c echo.Context) *model.Negocio {
	negocio, _ := c.Get("negocio").(*model.Negocio)
	return negocio
}

// GetConfig returns the negocio document for a tenant
func GetConfig(c echo.Context) error {
	negocio := negocioFromContext(c)

	if negocio.Config == nil {
		negocio.Config = map[string]interface{}{}
	}
	if negocio.Secciones == nil {
		negocio.Secciones = map[string]interface{}{}
	}

	return c.JSON(http.StatusOK, negocio)
}

// UpdateConfig merges caller-supplied fields into the negocio's config map.
// Field names and value types are not validated; whatever structure the
// caller sends is persisted as-is.
func UpdateConfig(c echo.Context) error {
	log := logger.FromContext(c)
	negocio := negocioFromContext(c)

	// Bind the body only: a full Bind would merge path params into the map
	var fields map[string]interface{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &fields); err != nil {
		log.Error("Failed to parse config update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(fields) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	}

	merged := negocio.Config
	if merged == nil {
		merged = map[string]interface{}{}
	}
	for k, v := range fields {
		merged[k] = v
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	result := database.GetDB().Model(negocio).Update("config", merged)
	if result.Error != nil {
		log.Error("Failed to update config",
			zap.String("negocio_id", negocio.ID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update config"})
	}

	log.Info("Config updated", zap.String("negocio_id", negocio.ID), zap.Int("fields", len(fields)))
	return c.JSON(http.StatusOK, echo.Map{"config": merged})
}

// GetSecciones returns the section toggle map
func GetSecciones(c echo.Context) error {
	negocio := negocioFromContext(c)

	secciones := negocio.Secciones
	if secciones == nil {
		secciones = map[string]interface{}{}
	}
	return c.JSON(http.StatusOK, echo.Map{"secciones": secciones})
}

// UpdateSecciones replaces the whole toggle map. Unlike config this is not
// a merge: toggles absent from the request are dropped.
func UpdateSecciones(c echo.Context) error {
	log := logger.FromContext(c)
	negocio := negocioFromContext(c)

	var req struct {
		Secciones map[string]interface{} `json:"secciones"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse secciones update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Secciones == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "secciones is required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	result := database.GetDB().Model(negocio).Update("secciones", datatypes.JSONMap(req.Secciones))
	if result.Error != nil {
		log.Error("Failed to update secciones",
			zap.String("negocio_id", negocio.ID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update secciones"})
	}

	log.Info("Secciones updated", zap.String("negocio_id", negocio.ID))
	return c.JSON(http.StatusOK, echo.Map{"secciones": req.Secciones})
}

// SubmitBrief applies the onboarding brief: merges config fields, replaces
// secciones when supplied, batch-inserts the initial productos and marks
// the brief completed. The steps are best-effort in sequence; a failure
// partway is surfaced as 500 without undoing earlier writes.
func SubmitBrief(c echo.Context) error {
	log := logger.FromContext(c)
	negocio := negocioFromContext(c)
	prometheus.RecordNegocioOperation("brief")

	var req struct {
		Config    map[string]interface{}   `json:"config"`
		Secciones map[string]interface{}   `json:"secciones"`
		Productos []map[string]interface{} `json:"productos"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse brief", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	updates := map[string]interface{}{"brief_completed": true}
	if req.Config != nil {
		merged := negocio.Config
		if merged == nil {
			merged = map[string]interface{}{}
		}
		for k, v := range req.Config {
			merged[k] = v
		}
		updates["config"] = merged
	}
	if req.Secciones != nil {
		updates["secciones"] = datatypes.JSONMap(req.Secciones)
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Model(negocio).Updates(updates); result.Error != nil {
		log.Error("Failed to apply brief config",
			zap.String("negocio_id", negocio.ID),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit brief"})
	}

	// Batch-insert the initial product catalog
	inserted := 0
	if len(req.Productos) > 0 {
		productos := make([]model.Recurso, 0, len(req.Productos))
		for _, fields := range req.Productos {
			productos = append(productos, newRecurso(negocio.ID, model.KindProductos, fields))
		}

		defer prometheus.TrackDBOperation("insert")(time.Now())
		if result := database.GetDB().Create(&productos); result.Error != nil {
			log.Error("Failed to insert brief productos",
				zap.String("negocio_id", negocio.ID),
				zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to submit brief"})
		}
		inserted = len(productos)
		prometheus.RecordRecursoOperation(model.KindProductos, "create")
	}

	log.Info("Brief submitted",
		zap.String("negocio_id", negocio.ID),
		zap.Int("productos", inserted))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "productos": inserted})
}

// GenerateText produces placeholder marketing copy through the pluggable
// text generator
func GenerateText(c echo.Context) error {
	log := logger.FromContext(c)
	negocio := negocioFromContext(c)

	var req struct {
		Tipo   string `json:"tipo"`
		Prompt string `json:"prompt"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse text generation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Tipo == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tipo is required"})
	}

	texto, err := textgen.GetGenerator().Generate(req.Tipo, req.Prompt)
	if err != nil {
		log.Error("Text generation failed",
			zap.String("negocio_id", negocio.ID),
			zap.String("tipo", req.Tipo),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "text generation failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{"texto": texto})
}
