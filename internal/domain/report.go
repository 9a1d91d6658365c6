package domain

import (
	"errors"
	"time"
)

// ReportStatus enumerates moderation states for denuncias.
type ReportStatus string

const (
	ReportStatusInReview   ReportStatus = "En revisión"
	ReportStatusInProgress ReportStatus = "En proceso"
	ReportStatusResolved   ReportStatus = "Atendida"
)

// ValidStatus reports whether s is a member of the status enumeration. Any
// member-to-member transition is accepted; no strict order is imposed.
func ValidStatus(s ReportStatus) bool {
	switch s {
	case ReportStatusInReview, ReportStatusInProgress, ReportStatusResolved:
		return true
	}
	return false
}

// ReportCategory enumerates the closed category set for denuncias.
type ReportCategory string

const (
	CategorySecurity       ReportCategory = "Seguridad"
	CategoryInfrastructure ReportCategory = "Infraestructura"
	CategoryPollution      ReportCategory = "Contaminacion"
	CategoryNoise          ReportCategory = "Ruido"
	CategoryOther          ReportCategory = "Otro"
)

// ValidCategory reports whether c is a member of the category enumeration.
func ValidCategory(c ReportCategory) bool {
	switch c {
	case CategorySecurity, CategoryInfrastructure, CategoryPollution, CategoryNoise, CategoryOther:
		return true
	}
	return false
}

// GeoPoint is a GeoJSON Point. Coordinates are [longitude, latitude].
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// ErrInvalidGeoPoint is returned when a location is not a two-coordinate Point.
var ErrInvalidGeoPoint = errors.New("ubicacion must be a GeoJSON Point with two coordinates")

// Validate enforces the GeoJSON Point invariant.
func (p GeoPoint) Validate() error {
	if p.Type != "Point" || len(p.Coordinates) != 2 {
		return ErrInvalidGeoPoint
	}
	return nil
}

// Report is the aggregate for citizen denuncias. Reports are soft-deleted only
// so that aggregate statistics stay auditable.
type Report struct {
	ID          string         `json:"id"`
	Title       string         `json:"tituloDenuncia"`
	Description string         `json:"descripcion"`
	EvidenceURL string         `json:"evidencia"`
	Location    GeoPoint       `json:"ubicacion"`
	Category    ReportCategory `json:"categoria"`
	Status      ReportStatus   `json:"estado"`
	IsDeleted   bool           `json:"-"`
	OwnerID     string         `json:"denuncianteId"`
	OwnerName   string         `json:"denunciante"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	ResolvedAt  *time.Time     `json:"fechaHoraSolucion,omitempty"`
}
