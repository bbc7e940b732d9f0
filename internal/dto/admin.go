package dto

type CreateCoAdminRequest struct {
	FirstName     string `json:"firstName" validate:"required,max=60"`
	MiddleName    string `json:"middleName" validate:"max=60"`
	LastName      string `json:"lastName" validate:"required,max=60"`
	Email         string `json:"email" validate:"required,coopemail"`
	ContactNumber string `json:"contactNumber" validate:"required,contactnum"`
}

type UpdateCoAdminRequest struct {
	FirstName     *string `json:"firstName" validate:"omitempty,max=60"`
	MiddleName    *string `json:"middleName" validate:"omitempty,max=60"`
	LastName      *string `json:"lastName" validate:"omitempty,max=60"`
	ContactNumber *string `json:"contactNumber" validate:"omitempty,contactnum"`
}

type ChangePasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required"`
}
