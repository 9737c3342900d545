package dto

// UpdateSettingsRequest payload. Omitted fields are left unchanged.
type UpdateSettingsRequest struct {
	AlwaysAuthenticate *bool `json:"alwaysAuthenticate"`
}

// LoginRequest payload.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the issued operator token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"`
}
