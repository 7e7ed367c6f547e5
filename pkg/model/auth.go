package model

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
	User        *Staff `json:"user"`
}
