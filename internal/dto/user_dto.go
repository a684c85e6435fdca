package dto

import "github.com/google/uuid"

// ProfileResponse is the profile projection the client renders.
type ProfileResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	AvatarURL *string   `json:"avatar_url"`
}

// UpdateProfileRequest carries a partial update: nil fields are left as-is.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name"`
	AvatarURL *string `json:"avatar_url"`
}
