package models

// CarDetails is the vehicle form. Only Brand and Model are expected to be set.
type CarDetails struct {
	Brand     string `json:"brand"`
	Model     string `json:"model"`
	Year      string `json:"year"`
	Mileage   string `json:"mileage"`
	Price     string `json:"price"`
	Equipment string `json:"equipment"`
	Condition string `json:"condition"`
}

type GenerateAdRequest struct {
	FormData     CarDetails `json:"formData"`
	APIKey       string     `json:"apiKey"`
	SystemPrompt string     `json:"systemPrompt"`
}

type GenerateAdResponse struct {
	GeneratedAd string `json:"generatedAd"`
}

type ErrorResponse struct {
	Error           string              `json:"error"`
	Code            string              `json:"code,omitempty"`
	ValidationError map[string][]string `json:"validationError,omitempty"`
}
