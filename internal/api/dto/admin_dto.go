package dto

// AdminLoginRequest payload for admin login.
type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AddAdminRequest payload for creating an administrator.
type AddAdminRequest struct {
	NombreCompleto string `json:"nombreCompleto" validate:"required,min=6,max=255"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	PalabraSecreta string `json:"palabraSecreta" validate:"required,min=6"`
}

// ChangeReportStatusRequest updates a denuncia's moderation status.
type ChangeReportStatusRequest struct {
	ID     string `json:"_id" validate:"required,uuid"`
	Estado string `json:"estado" validate:"required"`
}

// AccountStatusRequest blocks or unblocks a citizen account.
type AccountStatusRequest struct {
	ID     string `json:"_id" validate:"required,uuid"`
	Status string `json:"status" validate:"required,oneof=block unblock"`
}
