package dto

import "ndrop-api/modules/auth/entity"

type GoogleAuthURLResponse struct {
	AuthURL string `json:"auth_url"`
}

type GoogleTokenRequest struct {
	IDToken string `json:"id_token" validate:"required"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	Profile     *entity.Profile `json:"profile"`
}

type UpdateProfileRequest struct {
	DisplayName string   `json:"display_name"`
	Company     string   `json:"company"`
	JobTitle    string   `json:"job_title"`
	Bio         string   `json:"bio"`
	Interests   []string `json:"interests"`
}
