package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeoPointValidate(t *testing.T) {
	valid := GeoPoint{Type: "Point", Coordinates: []float64{-79.2, -3.99}}
	assert.NoError(t, valid.Validate())

	cases := map[string]GeoPoint{
		"wrong type":           {Type: "Polygon", Coordinates: []float64{-79.2, -3.99}},
		"missing coordinate":   {Type: "Point", Coordinates: []float64{-79.2}},
		"too many coordinates": {Type: "Point", Coordinates: []float64{-79.2, -3.99, 12}},
		"empty":                {},
	}
	for name, point := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, point.Validate(), ErrInvalidGeoPoint)
		})
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(ReportStatusInReview))
	assert.True(t, ValidStatus(ReportStatusInProgress))
	assert.True(t, ValidStatus(ReportStatusResolved))
	assert.False(t, ValidStatus("Cerrada"))
	assert.False(t, ValidStatus(""))
}

func TestValidCategory(t *testing.T) {
	assert.True(t, ValidCategory(CategorySecurity))
	assert.True(t, ValidCategory(CategoryInfrastructure))
	assert.True(t, ValidCategory(CategoryPollution))
	assert.True(t, ValidCategory(CategoryNoise))
	assert.True(t, ValidCategory(CategoryOther))
	assert.False(t, ValidCategory("Transito"))
}
