package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/kargo-erp/hr-backend-go/internal/domain/auth"
	"github.com/kargo-erp/hr-backend-go/internal/domain/company"
	"github.com/kargo-erp/hr-backend-go/internal/domain/user"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/database"
	"github.com/kargo-erp/hr-backend-go/internal/pkg/jwt"
	"github.com/kargo-erp/hr-backend-go/internal/repository/postgresql"

	"github.com/jackc/pgx/v5"
)

type authServiceImpl struct {
	db          *database.DB
	userRepo    user.UserRepository
	companyRepo company.CompanyRepository
	jwtRepo     postgresql.JWTRepository
	jwtService  jwt.Service
}

func NewAuthService(
	db *database.DB,
	userRepo user.UserRepository,
	companyRepo company.CompanyRepository,
	jwtRepo postgresql.JWTRepository,
	jwtService jwt.Service,
) auth.AuthService {
	return &authServiceImpl{
		db:          db,
		userRepo:    userRepo,
		companyRepo: companyRepo,
		jwtRepo:     jwtRepo,
		jwtService:  jwtService,
	}
}

// Register implements auth.AuthService. It creates the company and its
// owner user in one transaction and logs the owner in.
func (s *authServiceImpl) Register(ctx context.Context, req auth.RegisterRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	var owner user.User
	err := postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		created, err := s.companyRepo.Create(txCtx, company.Company{
			Name:     req.CompanyName,
			Username: req.CompanyUsername,
		})
		if err != nil {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		hashStr := string(hash)

		owner, err = s.userRepo.Create(txCtx, user.User{
			CompanyID:    &created.ID,
			Email:        req.Email,
			PasswordHash: &hashStr,
			Role:         user.RoleOwner,
		})
		return err
	})
	if err != nil {
		return auth.TokenResponse{}, err
	}

	return s.issueTokens(ctx, owner, session)
}

// Login implements auth.AuthService.
func (s *authServiceImpl) Login(ctx context.Context, req auth.LoginRequest, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, err
	}
	if u.PasswordHash == nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*u.PasswordHash), []byte(req.Password)); err != nil {
		return auth.TokenResponse{}, auth.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, u, session)
}

// LoginWithGoogle implements auth.AuthService. The Google account must map
// to an existing user; first-time OAuth logins link the provider id.
func (s *authServiceImpl) LoginWithGoogle(ctx context.Context, email string, googleID string, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return auth.TokenResponse{}, auth.ErrUserNotFound
		}
		return auth.TokenResponse{}, err
	}

	if u.OAuthProviderID == nil || *u.OAuthProviderID != googleID {
		u, err = s.userRepo.LinkGoogleAccount(ctx, googleID, email)
		if err != nil {
			return auth.TokenResponse{}, err
		}
	}

	return s.issueTokens(ctx, u, session)
}

// RefreshToken implements auth.AuthService.
func (s *authServiceImpl) RefreshToken(ctx context.Context, req auth.RefreshTokenRequest) (auth.AccessTokenResponse, error) {
	userID, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}

	revoked, err := s.jwtRepo.IsRefreshTokenRevoked(ctx, req.RefreshToken)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}
	if revoked {
		return auth.AccessTokenResponse{}, auth.ErrRefreshTokenRevoked
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return auth.AccessTokenResponse{}, err
	}

	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(
		u.ID, u.Email, u.EmployeeID, u.CompanyID, u.Role, u.IsOwner(),
	)
	if err != nil {
		return auth.AccessTokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.AccessTokenResponse{
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

// Logout implements auth.AuthService.
func (s *authServiceImpl) Logout(ctx context.Context, refreshToken string) error {
	if _, err := s.jwtService.ValidateRefreshToken(refreshToken); err != nil {
		return err
	}
	return s.jwtRepo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *authServiceImpl) issueTokens(ctx context.Context, u user.User, session auth.SessionTrackingRequest) (auth.TokenResponse, error) {
	accessToken, expiresAt, err := s.jwtService.GenerateAccessToken(
		u.ID, u.Email, u.EmployeeID, u.CompanyID, u.Role, u.IsOwner(),
	)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, refreshExpiresAt, err := s.jwtService.GenerateRefreshToken(u.ID)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.jwtRepo.CreateRefreshToken(ctx, u.ID, refreshToken, refreshExpiresAt, session); err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return auth.TokenResponse{
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		ExpiresAt:        expiresAt,
		RefreshExpiresAt: refreshExpiresAt,
	}, nil
}
