package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Resource kind names as they appear in the URL path
const (
	KindProductos   = "productos"
	KindServicios   = "servicios"
	KindTestimonios = "testimonios"
	KindCasosExito  = "casos-exito"
	KindGaleria     = "galeria"
	KindPedidos     = "pedidos"
)

// EstadoPendiente is the status assigned to a newly created pedido
const EstadoPendiente = "pendiente"

// Recurso is a tenant-scoped document in one of the six typed
// subcollections. All caller-supplied fields live in the Fields JSON blob;
// orden, status and active are lifted into columns so listings can sort and
// filter in SQL.
type Recurso struct {
	ID        string            `json:"id" gorm:"type:varchar(40);primaryKey"`
	NegocioID string            `json:"negocioID" gorm:"type:varchar(40);index:idx_recurso_negocio_kind;not null"`
	Kind      string            `json:"-" gorm:"type:varchar(32);index:idx_recurso_negocio_kind;not null"`
	Fields    datatypes.JSONMap `json:"fields" gorm:"type:jsonb"`
	Orden     int               `json:"orden" gorm:"default:0"`
	Estado    string            `json:"estado,omitempty" gorm:"type:varchar(32)"`
	// No default tag: gorm would treat an explicit false as unset on insert
	// and apply the column default, losing activo=false products
	Active    bool              `json:"activo"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// KindSpec describes how a resource kind is listed
type KindSpec struct {
	// OrderByOrden lists the collection by the caller-supplied orden field
	// ascending; otherwise creation time descending applies to pedidos and
	// productos are left in insertion order.
	OrderByOrden bool
	// HasEstado marks kinds that carry a status field (pedidos)
	HasEstado bool
	// ActiveFilter marks kinds whose listing accepts an ?activo= filter
	ActiveFilter bool
}

// Kinds is the canonical table of supported resource kinds
var Kinds = map[string]KindSpec{
	KindProductos:   {ActiveFilter: true},
	KindServicios:   {OrderByOrden: true},
	KindTestimonios: {OrderByOrden: true},
	KindCasosExito:  {OrderByOrden: true},
	KindGaleria:     {OrderByOrden: true},
	KindPedidos:     {HasEstado: true},
}

// Document flattens a Recurso into the JSON shape clients receive: the
// caller-supplied fields at top level plus the system-assigned ones.
func (r *Recurso) Document() map[string]interface{} {
	doc := make(map[string]interface{}, len(r.Fields)+6)
	for k, v := range r.Fields {
		doc[k] = v
	}
	doc["id"] = r.ID
	doc["negocioID"] = r.NegocioID
	doc["created_at"] = r.CreatedAt
	doc["updated_at"] = r.UpdatedAt

	spec := Kinds[r.Kind]
	if spec.OrderByOrden {
		doc["orden"] = r.Orden
	}
	if spec.HasEstado {
		doc["estado"] = r.Estado
	}
	if spec.ActiveFilter {
		doc["activo"] = r.Active
	}
	return doc
}

// ValidKind reports whether kind names one of the six subcollections
func ValidKind(kind string) bool {
	_, ok := Kinds[kind]
	return ok
}

// ApplyOrder applies the kind's listing order to a query
func ApplyOrder(query *gorm.DB, kind string) *gorm.DB {
	spec := Kinds[kind]
	if spec.OrderByOrden {
		return query.Order("orden ASC")
	}
	if kind == KindPedidos {
		return query.Order("created_at DESC")
	}
	return query
}
