package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/expertec/api-web-negocios/internal/model"
	"github.com/expertec/api-web-negocios/pkg/database"
	"github.com/expertec/api-web-negocios/pkg/logger"
	"github.com/expertec/api-web-negocios/prometheus"
)

// CreateNegocio provisions a new negocio: generated ID, derived admin
// username, random 4-digit PIN and default config. The credentials are
// returned once in this response; after that only a super-admin read of the
// stored record can recover them.
func CreateNegocio(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNegocioOperation("create")

	// Parse request
	var req struct {
		NombreNegocio string `json:"nombreNegocio"`
		Email         string `json:"email"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse negocio creation request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.NombreNegocio == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "nombreNegocio and email are required"})
	}

	now := time.Now()
	negocio := model.Negocio{
		ID:        model.NewNegocioID(),
		Nombre:    req.NombreNegocio,
		AdminUser: model.NewAdminUser(req.NombreNegocio, now),
		AdminPin:  model.NewPin(),
		Email:     req.Email,
		Config:    model.DefaultConfig(),
		Secciones: model.DefaultSecciones(),
		Active:    true,
	}

	// Save to database - track DB insert operation
	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&negocio); result.Error != nil {
		log.Error("Failed to create negocio",
			zap.String("nombre", req.NombreNegocio),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create negocio"})
	}

	log.Info("Negocio created",
		zap.String("negocio_id", negocio.ID),
		zap.String("nombre", negocio.Nombre),
		zap.String("user", negocio.AdminUser))

	return c.JSON(http.StatusCreated, echo.Map{
		"negocioID": negocio.ID,
		"nombre":    negocio.Nombre,
		"email":     negocio.Email,
		"user":      negocio.AdminUser,
		"pin":       negocio.AdminPin,
	})
}

// ListNegocios returns every negocio with a normalized projection: missing
// config or secciones maps come back empty rather than null.
func ListNegocios(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNegocioOperation("list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	var negocios []model.Negocio
	if result := database.GetDB().Order("created_at ASC").Find(&negocios); result.Error != nil {
		log.Error("Failed to list negocios", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list negocios"})
	}

	active := 0
	projected := make([]echo.Map, 0, len(negocios))
	for _, n := range negocios {
		if n.Config == nil {
			n.Config = map[string]interface{}{}
		}
		if n.Secciones == nil {
			n.Secciones = map[string]interface{}{}
		}
		if n.Active {
			active++
		}
		projected = append(projected, echo.Map{
			"negocioID":      n.ID,
			"nombre":         n.Nombre,
			"slogan":         n.Slogan,
			"email":          n.Email,
			"user":           n.AdminUser,
			"pin":            n.AdminPin,
			"config":         n.Config,
			"secciones":      n.Secciones,
			"active":         n.Active,
			"briefCompleted": n.BriefCompleted,
			"created_at":     n.CreatedAt,
			"updated_at":     n.UpdatedAt,
		})
	}
	prometheus.UpdateActiveNegocios(active)

	log.Info("Negocios listed", zap.Int("count", len(negocios)))
	return c.JSON(http.StatusOK, echo.Map{"negocios": projected})
}

// UpdateNegocio applies a partial update to a negocio's root fields
func UpdateNegocio(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNegocioOperation("update")
	id := c.Param("id")

	var req struct {
		Nombre         *string                `json:"nombre"`
		Slogan         *string                `json:"slogan"`
		Email          *string                `json:"email"`
		Active         *bool                  `json:"active"`
		BriefCompleted *bool                  `json:"briefCompleted"`
		Config         map[string]interface{} `json:"config"`
		Secciones      map[string]interface{} `json:"secciones"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse negocio update request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var negocio model.Negocio
	if result := database.GetDB().First(&negocio, "id = ?", id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "negocio not found"})
		}
		log.Error("Failed to load negocio", zap.String("negocio_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load negocio"})
	}

	updates := map[string]interface{}{}
	if req.Nombre != nil {
		updates["nombre"] = *req.Nombre
	}
	if req.Slogan != nil {
		updates["slogan"] = *req.Slogan
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if req.BriefCompleted != nil {
		updates["brief_completed"] = *req.BriefCompleted
	}
	if req.Config != nil {
		// Merge field by field, same contract as the tenant config endpoint
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
		// Secciones is replaced whole, not merged
		updates["secciones"] = datatypes.JSONMap(req.Secciones)
	}

	if len(updates) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "no fields to update"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Model(&negocio).Updates(updates); result.Error != nil {
		log.Error("Failed to update negocio", zap.String("negocio_id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update negocio"})
	}

	log.Info("Negocio updated", zap.String("negocio_id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// DeleteNegocio removes a negocio and every document in its six
// subcollections. The whole cascade runs in one transaction so a failure
// partway leaves no orphaned tenant with half-deleted collections.
func DeleteNegocio(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordNegocioOperation("delete")
	id := c.Param("id")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	err := database.GetDB().Transaction(func(tx *gorm.DB) error {
		var negocio model.Negocio
		if result := tx.First(&negocio, "id = ?", id); result.Error != nil {
			return result.Error
		}
		if result := tx.Where("negocio_id = ?", id).Delete(&model.Recurso{}); result.Error != nil {
			return result.Error
		}
		return tx.Delete(&negocio).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "negocio not found"})
		}
		log.Error("Failed to delete negocio", zap.String("negocio_id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete negocio"})
	}

	log.Info("Negocio deleted", zap.String("negocio_id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}
