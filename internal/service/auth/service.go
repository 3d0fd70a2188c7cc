package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/cmlabs-hris/leave-management-go/internal/domain/auth"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-management-go/internal/domain/user"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/leave-management-go/internal/pkg/oauth"
	"github.com/cmlabs-hris/leave-management-go/internal/repository/postgresql"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var usernameUnsafe = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

type AuthServiceImpl struct {
	user.UserRepository
	jwt.Service
	postgresql.RefreshTokenRepository
	balances leave.BalanceService
	google   oauth.GoogleService
	tx       leave.Transactor
	now      func() time.Time
}

// NewAuthService wires authentication. google may be nil when Google login is not configured.
func NewAuthService(
	userRepository user.UserRepository,
	jwtService jwt.Service,
	refreshTokenRepository postgresql.RefreshTokenRepository,
	balanceService leave.BalanceService,
	googleService oauth.GoogleService,
	transactor leave.Transactor,
) auth.AuthService {
	return &AuthServiceImpl{
		UserRepository:         userRepository,
		Service:                jwtService,
		RefreshTokenRepository: refreshTokenRepository,
		balances:               balanceService,
		google:                 googleService,
		tx:                     transactor,
		now:                    time.Now,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Register implements auth.AuthService.
func (a *AuthServiceImpl) Register(ctx context.Context, req auth.RegisterRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	emailTaken, usernameTaken, err := a.UserRepository.ExistsByEmailOrUsername(ctx, req.Email, req.Username)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to check existing user: %w", err)
	}
	if emailTaken {
		return auth.TokenResponse{}, auth.ErrEmailAlreadyExists
	}
	if usernameTaken {
		return auth.TokenResponse{}, auth.ErrUsernameTaken
	}

	hashedPassword, err := a.hashPassword(req.Password)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := a.UserRepository.Create(ctx, user.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.TrimSpace(req.Email),
		Fullname:     strings.TrimSpace(req.Fullname),
		PasswordHash: &hashedPassword,
		Roles:        []user.Role{user.RoleEmployee},
		TeamID:       req.TeamID,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return auth.TokenResponse{}, auth.ErrEmailAlreadyExists
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.seedBalances(ctx, newUser.ID)

	return a.issueTokens(ctx, newUser, session)
}

// seedBalances never fails registration.
func (a *AuthServiceImpl) seedBalances(ctx context.Context, userID string) {
	if err := a.balances.EnsureInitialBalances(ctx, userID, a.now().Year()); err != nil {
		slog.Error("failed to seed initial leave balances", "user_id", userID, "error", err)
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	userData, err := a.UserRepository.GetByLogin(ctx, strings.TrimSpace(req.Login))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to get user by login: %w", err)
	}

	// Google-only accounts have no password
	if userData.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	return a.issueTokens(ctx, userData, session)
}

// GoogleRedirect implements auth.AuthService.
func (a *AuthServiceImpl) GoogleRedirect(userAgent string) (auth.GoogleLoginResponse, error) {
	if a.google == nil {
		return auth.GoogleLoginResponse{}, auth.ErrOAuthDisabled
	}
	state, err := a.google.GenerateState(userAgent)
	if err != nil {
		return auth.GoogleLoginResponse{}, err
	}
	return auth.GoogleLoginResponse{RedirectURL: a.google.RedirectURL(state), State: state}, nil
}

// LoginWithGoogle implements auth.AuthService.
func (a *AuthServiceImpl) LoginWithGoogle(ctx context.Context, code string, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if a.google == nil {
		return auth.TokenResponse{}, auth.ErrOAuthDisabled
	}

	info, err := a.google.FetchUser(ctx, code)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}
	if !info.VerifiedEmail || info.Email == "" {
		return auth.TokenResponse{}, auth.ErrOAuthEmailUnverified
	}

	userData, err := a.UserRepository.GetByEmail(ctx, info.Email)
	switch {
	case errors.Is(err, user.ErrUserNotFound):
		userData, err = a.createGoogleUser(ctx, info)
		if err != nil {
			return auth.TokenResponse{}, err
		}
		a.seedBalances(ctx, userData.ID)
	case err != nil:
		return auth.TokenResponse{}, fmt.Errorf("failed to get user data by email: %w", err)
	case userData.OAuthProviderID == nil:
		userData, err = a.UserRepository.LinkGoogleAccount(ctx, info.GoogleID, userData.Email)
		if err != nil {
			return auth.TokenResponse{}, fmt.Errorf("failed to link google account: %w", err)
		}
	}

	if !userData.IsActive {
		return auth.TokenResponse{}, auth.ErrAccountInactive
	}

	return a.issueTokens(ctx, userData, session)
}

func (a *AuthServiceImpl) createGoogleUser(ctx context.Context, info oauth.GoogleUser) (user.User, error) {
	provider := "google"
	googleID := info.GoogleID

	fullname := strings.TrimSpace(info.Name)
	if fullname == "" {
		fullname = info.Email
	}

	username, err := a.availableUsername(ctx, info.Email)
	if err != nil {
		return user.User{}, err
	}

	created, err := a.UserRepository.Create(ctx, user.User{
		Username:        username,
		Email:           info.Email,
		Fullname:        fullname,
		Roles:           []user.Role{user.RoleEmployee},
		IsActive:        true,
		OAuthProvider:   &provider,
		OAuthProviderID: &googleID,
	})
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	slog.Info("user registered with google", "user_id", created.ID)
	return created, nil
}

// availableUsername derives a username from the email local part, suffixing it on collision.
func (a *AuthServiceImpl) availableUsername(ctx context.Context, email string) (string, error) {
	local, _, _ := strings.Cut(email, "@")
	base := usernameUnsafe.ReplaceAllString(local, "")
	if len(base) < 3 {
		base = "user" + base
	}
	if len(base) > 40 {
		base = base[:40]
	}

	candidate := base
	for i := 0; i < 5; i++ {
		_, taken, err := a.UserRepository.ExistsByEmailOrUsername(ctx, "", candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check username: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + uuid.NewString()[:8]
	}
	return "", auth.ErrUsernameTaken
}

// issueTokens creates an access token and a persisted refresh token.
func (a *AuthServiceImpl) issueTokens(ctx context.Context, userData user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	var tokenResponse auth.TokenResponse

	err := a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		tokenResponse.AccessToken, tokenResponse.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.RoleStrings())
		if err != nil {
			return fmt.Errorf("failed to create access token: %w", err)
		}
		tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, err = a.Service.GenerateRefreshToken(userData.ID)
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}
		if err := a.CreateRefreshToken(txCtx, userData.ID, tokenResponse.RefreshToken, tokenResponse.RefreshTokenExpiresIn, session); err != nil {
			return fmt.Errorf("failed to save refresh token to database: %w", err)
		}
		return nil
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	tokenResponse.User = userData.ToResponse()
	return tokenResponse, nil
}

// RefreshToken implements auth.AuthService.
func (a *AuthServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.AccessTokenResponse{}, err
	}

	// 1. Verify signature, expiry and token type
	if _, err := a.Service.ParseRefreshToken(req.RefreshToken); err != nil {
		return auth.AccessTokenResponse{}, auth.ErrInvalidToken
	}

	// 2. Check DB for revocation/expiry
	userID, isRevoked, err := a.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to check refresh token: %w", err)
	}
	if isRevoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	// 3. Roles may have changed since login, so reload the user
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.AccessTokenResponse{}, auth.ErrInvalidToken
		}
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to get user: %w", err)
	}
	if !userData.IsActive {
		return auth.AccessTokenResponse{}, auth.ErrAccountInactive
	}

	var resp auth.AccessTokenResponse
	resp.AccessToken, resp.AccessTokenExpiresIn, err = a.Service.GenerateAccessToken(userData.ID, userData.Email, userData.RoleStrings())
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return resp, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return auth.ErrInvalidToken
	}
	return a.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, isRevoked, err := a.IsRefreshTokenRevoked(txCtx, refreshToken)
		if err != nil {
			return fmt.Errorf("failed to check if refresh token is revoked: %w", err)
		}
		if isRevoked {
			return nil
		}
		if err := a.RevokeRefreshToken(txCtx, refreshToken); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
		return nil
	})
}

// Me implements auth.AuthService.
func (a *AuthServiceImpl) Me(ctx context.Context, userID string) (user.UserResponse, error) {
	userData, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return user.UserResponse{}, err
	}
	return userData.ToResponse(), nil
}
