package dto

// EmailLeadDTO is a landing-page email capture request.
type EmailLeadDTO struct {
	Email  string `json:"email" validate:"required,email"`
	Source string `json:"source" validate:"omitempty,max=100"`
}

// ConsultationRequestDTO is a landing-page consultation form submission.
type ConsultationRequestDTO struct {
	Name        string  `json:"name" validate:"required"`
	Email       string  `json:"email" validate:"required,email"`
	CompanyName *string `json:"company_name,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	Message     *string `json:"message,omitempty" validate:"omitempty,max=2000"`
}
