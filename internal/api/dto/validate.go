package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/denuncia-service/pkg/util"
)

var validate = newValidator()

// Letters (including Spanish accents) and spaces only.
var fullNameRe = regexp.MustCompile(`^[A-Za-záéíóúÁÉÍÓÚñÑ\s]+$`)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("fullname", func(fl validator.FieldLevel) bool {
		return fullNameRe.MatchString(fl.Field().String())
	})
	return v
}

var fieldMessages = map[string]string{
	"NombreCompleto": "El nombre completo debe tener entre 6 y 255 caracteres y solo contener letras y espacios",
	"Cedula":         "La cédula debe contener exactamente 10 dígitos",
	"NumTelefono":    "El número de teléfono debe contener exactamente 10 dígitos",
	"Email":          "El formato del correo electrónico es incorrecto",
	"Password":       "La contraseña debe tener al menos 6 caracteres y solo contener letras y números",
	"NewPassword":    "La nueva contraseña debe tener al menos 6 caracteres y solo contener letras y números",
	"TituloDenuncia": "El título de la denuncia es obligatorio",
	"Descripcion":    "La descripción es obligatoria",
	"Categoria":      "La categoría es obligatoria",
	"Ubicacion":      "La ubicación debe ser un punto GeoJSON con dos coordenadas",
	"Estado":         "El estado es obligatorio",
	"Status":         "El estado debe ser block o unblock",
	"PalabraSecreta": "La palabra secreta debe tener al menos 6 caracteres",
}

// Validate runs struct validation and converts the first failure into a
// user-facing validation error.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		field := errs[0].StructField()
		if msg, ok := fieldMessages[field]; ok {
			return apperrors.NewValidationError(msg, map[string]any{"field": errs[0].Field()})
		}
		return apperrors.NewValidationError("El campo "+errs[0].Field()+" es inválido", map[string]any{"field": errs[0].Field()})
	}
	return apperrors.NewValidationError("Datos de entrada inválidos", nil)
}
