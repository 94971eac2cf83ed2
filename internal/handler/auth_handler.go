package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/expertec/api-web-negocios/internal/model"
	"github.com/expertec/api-web-negocios/pkg/database"
	"github.com/expertec/api-web-negocios/pkg/jwtutil"
	"github.com/expertec/api-web-negocios/pkg/logger"
	"github.com/expertec/api-web-negocios/prometheus"
)

// Login authenticates a negocio admin by username and PIN. When negocioID
// is supplied only that negocio is checked; otherwise the first match on a
// global scan wins (usernames are not unique across negocios). Every
// failure yields the same generic 401 so callers cannot tell a wrong user
// from a wrong PIN.
func Login(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.LoginCounter.Inc()

	// Parse request
	var req struct {
		User      string `json:"user"`
		Pin       string `json:"pin"`
		NegocioID string `json:"negocioID,omitempty"`
	}

	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse login request", zap.Error(err))
		prometheus.RecordAuthError("invalid_request")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}

	if req.User == "" || req.Pin == "" {
		prometheus.RecordAuthError("incomplete_login")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "user and pin are required"})
	}

	// Look up the negocio - track DB operation duration
	defer prometheus.TrackDBOperation("query")(time.Now())
	var negocio model.Negocio
	query := database.GetDB().Where("admin_user = ? AND admin_pin = ?", req.User, req.Pin)
	if req.NegocioID != "" {
		query = query.Where("id = ?", req.NegocioID)
	}
	result := query.First(&negocio)
	if result.Error != nil {
		log.Warn("Login failed", zap.String("user", req.User))
		prometheus.RecordAuthError("invalid_credentials")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// A deactivated negocio cannot log in
	if !negocio.Active {
		log.Warn("Login rejected for inactive negocio",
			zap.String("user", req.User),
			zap.String("negocio_id", negocio.ID))
		prometheus.RecordAuthError("negocio_inactive")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	// Issue a session token scoped to this negocio
	token, err := jwtutil.GenerateToken(negocio.ID, negocio.Nombre, negocio.AdminUser)
	if err != nil {
		log.Error("Failed to generate session token", zap.Error(err))
		prometheus.RecordAuthError("token_generation_failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "token error"})
	}

	log.Info("Negocio admin logged in",
		zap.String("user", negocio.AdminUser),
		zap.String("negocio_id", negocio.ID))

	return c.JSON(http.StatusOK, echo.Map{
		"token":     token,
		"negocioID": negocio.ID,
		"nombre":    negocio.Nombre,
	})
}
