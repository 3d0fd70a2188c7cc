package auth

import (
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/validator"
)

type RegisterRequest struct {
	Username        string  `json:"username"`
	Email           string  `json:"email"`
	Fullname        string  `json:"fullname"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
	TeamID          *string `json:"team_id,omitempty"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	// Username
	if validator.IsEmpty(r.Username) {
		errs.Add("username", "username is required")
	} else if !validator.IsValidUsername(r.Username) {
		errs.Add("username", "username must be 3-50 characters of letters, numbers, dots, underscores, and hyphens")
	}

	// Email
	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if len(r.Email) > 254 {
		errs.Add("email", "email must not exceed 254 characters")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	if validator.IsEmpty(r.Fullname) {
		errs.Add("fullname", "fullname is required")
	} else if !validator.MaxLen(r.Fullname, 255) {
		errs.Add("fullname", "fullname must not exceed 255 characters")
	}

	// Password
	validatePassword(&errs, r.Password)
	if validator.IsEmpty(r.ConfirmPassword) {
		errs.Add("confirm_password", "confirm_password is required")
	} else if r.ConfirmPassword != r.Password {
		errs.Add("confirm_password", "password and confirm_password do not match")
	}

	if r.TeamID != nil && validator.IsEmpty(*r.TeamID) {
		errs.Add("team_id", "team_id must not be empty")
	}

	return errs.Err()
}

// LoginRequest accepts either an email address or a username in Login.
type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Login) {
		errs.Add("login", "login is required")
	} else if len(r.Login) > 254 {
		errs.Add("login", "login must not exceed 254 characters")
	}
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

func validatePassword(errs *validator.ValidationErrors, password string) {
	if validator.IsEmpty(password) {
		errs.Add("password", "password is required")
	} else if len(password) < 8 {
		errs.Add("password", "password must be at least 8 characters long")
	} else if len(password) > 72 {
		errs.Add("password", "password must not exceed 72 characters")
	}
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.RefreshToken) {
		errs.Add("refresh_token", "refresh_token is required")
	}

	return errs.Err()
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type TokenResponse struct {
	AccessToken           string            `json:"access_token"`
	AccessTokenExpiresIn  int64             `json:"access_token_expires_in"`
	RefreshToken          string            `json:"refresh_token"`
	RefreshTokenExpiresIn int64             `json:"refresh_token_expires_in"`
	User                  user.UserResponse `json:"user"`
}

type AccessTokenResponse struct {
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}

type GoogleLoginResponse struct {
	RedirectURL string `json:"redirect_url"`
	State       string `json:"state"`
}
