package dto

// GeoPointRequest is the GeoJSON Point shape of a submission.
type GeoPointRequest struct {
	Type        string    `json:"type" validate:"required,eq=Point"`
	Coordinates []float64 `json:"coordinates" validate:"required,len=2"`
}

// NewReportRequest payload for filing a denuncia. The evidence image may
// arrive as a multipart file instead of the URL field.
type NewReportRequest struct {
	TituloDenuncia string          `json:"tituloDenuncia" form:"tituloDenuncia" validate:"required"`
	Descripcion    string          `json:"descripcion" form:"descripcion" validate:"required"`
	Evidencia      string          `json:"evidencia" form:"evidencia" validate:"omitempty,url"`
	Ubicacion      GeoPointRequest `json:"ubicacion" validate:"required"`
	Categoria      string          `json:"categoria" form:"categoria" validate:"required"`
}

// DeleteReportRequest soft-deletes one denuncia.
type DeleteReportRequest struct {
	ID string `json:"_id" validate:"required,uuid"`
}
