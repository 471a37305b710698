package dto

// RecommendationCreateDTO is used for incoming recommendation creation
// requests
type RecommendationCreateDTO struct {
	Title    string `json:"title" validate:"required"`
	Body     string `json:"body" validate:"required"`
	Category string `json:"category" validate:"required"`
}

// RecommendationUpdateDTO is used for incoming recommendation update requests
type RecommendationUpdateDTO struct {
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body" validate:"required"`
	Category  string `json:"category" validate:"required"`
	Dismissed bool   `json:"dismissed"`
}
