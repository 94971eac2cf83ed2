package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/expertec/api-web-negocios/internal/model"
	"github.com/expertec/api-web-negocios/pkg/database"
	"github.com/expertec/api-web-negocios/pkg/logger"
	"github.com/expertec/api-web-negocios/prometheus"
)

// kindFromPath validates the :recurso path segment against the canonical
// kind table
func kindFromPath(c echo.Context) (string, bool) {
	kind := c.Param("recurso")
	return kind, model.ValidKind(kind)
}

// newRecurso builds a resource row from caller-supplied fields, lifting
// orden, activo and estado out of the JSON blob into their columns
func newRecurso(negocioID, kind string, fields map[string]interface{}) model.Recurso {
	if fields == nil {
		fields = map[string]interface{}{}
	}

	recurso := model.Recurso{
		ID:        uuid.New().String(),
		NegocioID: negocioID,
		Kind:      kind,
		Active:    true,
	}

	spec := model.Kinds[kind]
	if spec.OrderByOrden {
		if orden, ok := numberField(fields, "orden"); ok {
			recurso.Orden = orden
			delete(fields, "orden")
		}
	}
	if spec.HasEstado {
		// Status is system-assigned at creation regardless of input
		recurso.Estado = model.EstadoPendiente
		delete(fields, "estado")
	}
	if spec.ActiveFilter {
		if activo, ok := fields["activo"].(bool); ok {
			recurso.Active = activo
			delete(fields, "activo")
		}
	}

	recurso.Fields = fields
	return recurso
}

// numberField reads a JSON number out of a bound map
func numberField(fields map[string]interface{}, key string) (int, bool) {
	switch v := fields[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// findRecurso loads one resource scoped to the negocio and kind
func findRecurso(negocioID, kind, id string) (*model.Recurso, error) {
	var recurso model.Recurso
	result := database.GetDB().
		Where("negocio_id = ? AND kind = ? AND id = ?", negocioID, kind, id).
		First(&recurso)
	if result.Error != nil {
		return nil, result.Error
	}
	return &recurso, nil
}

// ListRecursos returns a negocio's subcollection with the ordering its
// kind defines. Productos accept an optional ?activo= equality filter.
func ListRecursos(c echo.Context) error {
	log := logger.FromContext(c)
	kind, ok := kindFromPath(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown resource collection"})
	}
	negocioID := c.Param("negocioID")
	prometheus.RecordRecursoOperation(kind, "list")

	defer prometheus.TrackDBOperation("query")(time.Now())
	query := database.GetDB().Where("negocio_id = ? AND kind = ?", negocioID, kind)

	if model.Kinds[kind].ActiveFilter {
		if activoParam := c.QueryParam("activo"); activoParam != "" {
			activo, parseErr := strconv.ParseBool(activoParam)
			if parseErr != nil {
				log.Warn("Invalid activo parameter", zap.String("value", activoParam))
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "activo must be a boolean"})
			}
			query = query.Where("active = ?", activo)
		}
	}

	var recursos []model.Recurso
	if result := model.ApplyOrder(query, kind).Find(&recursos); result.Error != nil {
		log.Error("Failed to list resources",
			zap.String("negocio_id", negocioID),
			zap.String("kind", kind),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve resources"})
	}

	documents := make([]map[string]interface{}, 0, len(recursos))
	for i := range recursos {
		documents = append(documents, recursos[i].Document())
	}

	log.Info("Resources listed",
		zap.String("negocio_id", negocioID),
		zap.String("kind", kind),
		zap.Int("count", len(documents)))
	return c.JSON(http.StatusOK, documents)
}

// CreateRecurso appends a document to a negocio's subcollection
func CreateRecurso(c echo.Context) error {
	log := logger.FromContext(c)
	kind, ok := kindFromPath(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown resource collection"})
	}
	negocioID := c.Param("negocioID")
	prometheus.RecordRecursoOperation(kind, "create")

	// Bind the body only: a full Bind would merge path params into the map
	var fields map[string]interface{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &fields); err != nil {
		log.Error("Failed to parse resource fields", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(fields) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "resource fields are required"})
	}

	recurso := newRecurso(negocioID, kind, fields)

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if result := database.GetDB().Create(&recurso); result.Error != nil {
		log.Error("Failed to create resource",
			zap.String("negocio_id", negocioID),
			zap.String("kind", kind),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create resource"})
	}

	log.Info("Resource created",
		zap.String("negocio_id", negocioID),
		zap.String("kind", kind),
		zap.String("resource_id", recurso.ID))
	return c.JSON(http.StatusCreated, recurso.Document())
}

// UpdateRecurso merges partial fields into an existing document. Fields
// not present in the request are left untouched; the update timestamp is
// always refreshed.
func UpdateRecurso(c echo.Context) error {
	log := logger.FromContext(c)
	kind, ok := kindFromPath(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown resource collection"})
	}
	negocioID := c.Param("negocioID")
	id := c.Param("id")
	prometheus.RecordRecursoOperation(kind, "update")

	// Bind the body only: a full Bind would merge path params into the map
	var fields map[string]interface{}
	if err := (&echo.DefaultBinder{}).BindBody(c, &fields); err != nil {
		log.Error("Failed to parse resource fields", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if len(fields) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "resource fields are required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	recurso, findErr := findRecurso(negocioID, kind, id)
	if findErr != nil {
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
		}
		log.Error("Failed to load resource", zap.String("resource_id", id), zap.Error(findErr))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load resource"})
	}

	spec := model.Kinds[kind]
	if spec.OrderByOrden {
		if orden, ok := numberField(fields, "orden"); ok {
			recurso.Orden = orden
			delete(fields, "orden")
		}
	}
	if spec.HasEstado {
		if estado, ok := fields["estado"].(string); ok {
			recurso.Estado = estado
			delete(fields, "estado")
		}
	}
	if spec.ActiveFilter {
		if activo, ok := fields["activo"].(bool); ok {
			recurso.Active = activo
			delete(fields, "activo")
		}
	}

	if recurso.Fields == nil {
		recurso.Fields = map[string]interface{}{}
	}
	for k, v := range fields {
		recurso.Fields[k] = v
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Save(recurso); result.Error != nil {
		log.Error("Failed to update resource",
			zap.String("resource_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update resource"})
	}

	log.Info("Resource updated",
		zap.String("negocio_id", negocioID),
		zap.String("kind", kind),
		zap.String("resource_id", id))
	return c.JSON(http.StatusOK, recurso.Document())
}

// DeleteRecurso removes a document from a subcollection. Deleting a
// missing document reports 404 rather than silent success.
func DeleteRecurso(c echo.Context) error {
	log := logger.FromContext(c)
	kind, ok := kindFromPath(c)
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "unknown resource collection"})
	}
	negocioID := c.Param("negocioID")
	id := c.Param("id")
	prometheus.RecordRecursoOperation(kind, "delete")

	defer prometheus.TrackDBOperation("delete")(time.Now())
	result := database.GetDB().
		Where("negocio_id = ? AND kind = ? AND id = ?", negocioID, kind, id).
		Delete(&model.Recurso{})
	if result.Error != nil {
		log.Error("Failed to delete resource",
			zap.String("resource_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete resource"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "resource not found"})
	}

	log.Info("Resource deleted",
		zap.String("negocio_id", negocioID),
		zap.String("kind", kind),
		zap.String("resource_id", id))
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// UpdatePedidoEstado transitions an order's status. Any non-empty string
// is accepted and persisted; there is no fixed status enum.
func UpdatePedidoEstado(c echo.Context) error {
	log := logger.FromContext(c)
	negocioID := c.Param("negocioID")
	id := c.Param("id")
	prometheus.RecordRecursoOperation(model.KindPedidos, "estado")

	var req struct {
		Estado string `json:"estado"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse estado update", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Estado == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "estado is required"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	recurso, findErr := findRecurso(negocioID, model.KindPedidos, id)
	if findErr != nil {
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "pedido not found"})
		}
		log.Error("Failed to load pedido", zap.String("resource_id", id), zap.Error(findErr))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load pedido"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if result := database.GetDB().Model(recurso).Update("estado", req.Estado); result.Error != nil {
		log.Error("Failed to update pedido estado",
			zap.String("resource_id", id),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update pedido"})
	}
	recurso.Estado = req.Estado

	log.Info("Pedido estado updated",
		zap.String("negocio_id", negocioID),
		zap.String("resource_id", id),
		zap.String("estado", req.Estado))
	return c.JSON(http.StatusOK, recurso.Document())
}
