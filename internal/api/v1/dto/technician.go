package dto

// TechnicianCreateDTO is used for incoming technician creation requests
type TechnicianCreateDTO struct {
	Name   string  `json:"name" validate:"required"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone  *string `json:"phone,omitempty"`
	Status string  `json:"status" validate:"omitempty,oneof=active inactive"`
}

// TechnicianUpdateDTO is used for incoming technician update requests
type TechnicianUpdateDTO struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone  *string `json:"phone,omitempty"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}
