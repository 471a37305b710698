package dto

// SettingsUpdateDTO is used for incoming profile settings updates
type SettingsUpdateDTO struct {
	CompanyName     string `json:"company_name" validate:"required"`
	ThemePreference string `json:"theme_preference" validate:"omitempty,oneof=light dark system"`
}
