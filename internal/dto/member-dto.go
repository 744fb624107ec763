package dto

import "time"

type RegisterMemberDTO struct {
	Email    string `json:"email" validate:"required,custom_email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	FName    string `json:"fname" validate:"required,max=100"`
	LName    string `json:"lname" validate:"required,max=100"`
}

type LoginDTO struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type TokenResponseDTO struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

type MemberDTO struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FName     string    `json:"fname"`
	LName     string    `json:"lname"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthenDTO is what a valid access token says about its holder.
type AuthenDTO struct {
	MemberID  int64     `json:"memberId"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"exp"`
}
