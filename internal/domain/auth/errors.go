package auth

import "errors"

var (
	ErrInvalidCredentials   = errors.New("invalid login or password")
	ErrAccountInactive      = errors.New("account is inactive")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrTokenExpired         = errors.New("token has expired")
	ErrRefreshTokenRevoked  = errors.New("refresh token has been revoked")
	ErrEmailAlreadyExists   = errors.New("email already registered")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrOAuthDisabled        = errors.New("google login is not configured")
	ErrOAuthEmailUnverified = errors.New("google account email is not verified")
)
