package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/expertec/api-web-negocios/internal/model"
	"github.com/expertec/api-web-negocios/pkg/config"
	"github.com/expertec/api-web-negocios/pkg/database"
	"github.com/expertec/api-web-negocios/pkg/jwtutil"
	"github.com/expertec/api-web-negocios/pkg/logger"
	"github.com/expertec/api-web-negocios/prometheus"
)

var (
	superAdminKey  []byte
	sessionEnforce bool
)

// Initialize stores the guard configuration. Must be called once at startup
// before any request is served.
func Initialize(cfg *config.Config) {
	superAdminKey = []byte(cfg.SuperAdmin.Key)
	sessionEnforce = cfg.Session.Enforce
}

// SuperAdminMiddleware validates the shared super-admin key from the
// X-Admin-Key header. Fails closed on mismatch or absence.
func SuperAdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		supplied := c.Request().Header.Get("X-Admin-Key")
		if supplied == "" {
			log.Warn("Missing super-admin key")
			prometheus.RecordAuthError("missing_superadmin_key")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "admin key required"})
		}

		if subtle.ConstantTimeCompare([]byte(supplied), superAdminKey) != 1 {
			log.Warn("Invalid super-admin key")
			prometheus.RecordAuthError("invalid_superadmin_key")
			return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid admin key"})
		}

		return next(c)
	}
}

// RequireNegocioContext confirms the negocio named in the path exists and
// stores it in the request context. When session enforcement is enabled it
// additionally requires a Bearer token scoped to that negocio; without
// enforcement, anyone who knows a negocio ID can operate on its resources
// (the compatibility gap inherited from the original clients).
func RequireNegocioContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		negocioID := c.Param("negocioID")
		if negocioID == "" {
			log.Warn("Missing negocio ID in path")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "negocio ID required"})
		}

		var negocio model.Negocio
		result := database.GetDB().First(&negocio, "id = ?", negocioID)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				log.Warn("Negocio not found", zap.String("negocio_id", negocioID))
				return c.JSON(http.StatusNotFound, echo.Map{"error": "negocio not found"})
			}
			log.Error("Failed to load negocio", zap.String("negocio_id", negocioID), zap.Error(result.Error))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load negocio"})
		}

		if sessionEnforce {
			claims, err := bearerClaims(c)
			if err != nil {
				log.Warn("Session token rejected", zap.String("negocio_id", negocioID), zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "valid session token required"})
			}
			if claims.NegocioID != negocioID {
				log.Warn("Session token scoped to another negocio",
					zap.String("negocio_id", negocioID),
					zap.String("token_negocio_id", claims.NegocioID))
				prometheus.RecordAuthError("token_scope_mismatch")
				return c.JSON(http.StatusForbidden, echo.Map{"error": "token not valid for this negocio"})
			}
		}

		// Store the negocio for handlers downstream
		c.Set("negocio_id", negocio.ID)
		c.Set("negocio", &negocio)

		return next(c)
	}
}

// bearerClaims extracts and validates the Bearer token from the
// Authorization header
func bearerClaims(c echo.Context) (*jwtutil.SessionClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, errors.New("invalid authorization format, expected Bearer token")
	}

	return jwtutil.ValidateToken(parts[1])
}
