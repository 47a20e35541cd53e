package model

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// UpdateEmailRequest uses a pointer so a missing field is distinguishable
// from an empty string.
type UpdateEmailRequest struct {
	Email *string `json:"email"`
}

type UpdateStatusRequest struct {
	Status *string `json:"status"`
}

type DeletePostRequest struct {
	ID string `json:"id"`
}

type SendMessageRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}
