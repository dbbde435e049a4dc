package dto

// AdminLoginRequest carries dashboard credentials.
type AdminLoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}
