package model

import (
	"time"

	"gorm.io/datatypes"
)

// Negocio represents a tenant business stored in the database.
// Every other document in the system hangs off a negocio ID.
type Negocio struct {
	ID             string            `json:"negocioID" gorm:"type:varchar(40);primaryKey"`
	Nombre         string            `json:"nombre" gorm:"type:varchar(255);not null"`
	Slogan         string            `json:"slogan" gorm:"type:varchar(255)"`
	AdminUser      string            `json:"user" gorm:"type:varchar(64);index"`
	AdminPin       string            `json:"-" gorm:"type:varchar(8)"`
	Email          string            `json:"email" gorm:"type:varchar(255)"`
	Config         datatypes.JSONMap `json:"config" gorm:"type:jsonb"`
	Secciones      datatypes.JSONMap `json:"secciones" gorm:"type:jsonb"`
	Active         bool              `json:"active" gorm:"default:true"`
	BriefCompleted bool              `json:"briefCompleted" gorm:"default:false"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// DefaultConfig returns the config block seeded into a newly created negocio
func DefaultConfig() datatypes.JSONMap {
	return datatypes.JSONMap{
		"colorPrimario":   "#2563eb",
		"colorSecundario": "#f59e0b",
		"telefono":        "",
		"whatsapp":        "",
		"direccion":       "",
		"nosotros":        "",
		"mision":          "",
		"vision":          "",
	}
}

// DefaultSecciones returns the section toggle map with every storefront
// section enabled
func DefaultSecciones() datatypes.JSONMap {
	return datatypes.JSONMap{
		"productos":   true,
		"servicios":   true,
		"testimonios": true,
		"casosExito":  true,
		"galeria":     true,
		"contacto":    true,
	}
}
