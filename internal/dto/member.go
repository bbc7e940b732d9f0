package dto

type CreateMemberRequest struct {
	FirstName     string  `json:"firstName" validate:"required,max=60"`
	MiddleName    string  `json:"middleName" validate:"max=60"`
	LastName      string  `json:"lastName" validate:"required,max=60"`
	Email         string  `json:"email" validate:"required,coopemail"`
	ContactNumber string  `json:"contactNumber" validate:"required,contactnum"`
	Address       string  `json:"address" validate:"max=200"`
	Balance       float64 `json:"balance" validate:"gte=0"`
	Investment    float64 `json:"investment" validate:"gte=0"`
}

// UpdateMemberRequest only touches the fields that are set.
type UpdateMemberRequest struct {
	FirstName     *string  `json:"firstName" validate:"omitempty,max=60"`
	MiddleName    *string  `json:"middleName" validate:"omitempty,max=60"`
	LastName      *string  `json:"lastName" validate:"omitempty,max=60"`
	Email         *string  `json:"email" validate:"omitempty,coopemail"`
	ContactNumber *string  `json:"contactNumber" validate:"omitempty,contactnum"`
	Address       *string  `json:"address" validate:"omitempty,max=200"`
	Investment    *float64 `json:"investment" validate:"omitempty,gte=0"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type RegistrationRequest struct {
	FirstName       string  `json:"firstName" validate:"required,max=60"`
	MiddleName      string  `json:"middleName" validate:"max=60"`
	LastName        string  `json:"lastName" validate:"required,max=60"`
	Email           string  `json:"email" validate:"required,coopemail"`
	ContactNumber   string  `json:"contactNumber" validate:"required,contactnum"`
	Address         string  `json:"address" validate:"max=200"`
	Investment      float64 `json:"investment" validate:"gte=0"`
	OrientationCode string  `json:"orientationCode" validate:"required"`
}
