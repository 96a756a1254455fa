package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/utafrali/SupplierGo/internal/auth"
	"github.com/utafrali/SupplierGo/internal/domain"
	"github.com/utafrali/SupplierGo/internal/event"
	"github.com/utafrali/SupplierGo/internal/identity"
	apperrors "github.com/utafrali/SupplierGo/pkg/errors"
	"github.com/utafrali/SupplierGo/pkg/validator"
)

// Messages returned to clients by the authentication flows.
const (
	msgRegistrationFailed = "user registration failed"
	msgUserBlocked        = "User blocked"
	msgInvalidCredentials = "User or password invalid"
	msgUserNotFound       = "User was not found"
	msgDuplicateClaim     = "User already has this claim"
	msgClaimNotAdded      = "Could not associate the given claim to the user"
)

// CredentialStore is the part of the identity manager the auth flows use.
type CredentialStore interface {
	CreateUser(ctx context.Context, email, password string, emailConfirmed bool) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	PasswordSignIn(ctx context.Context, email, password string) (*domain.User, identity.SignInResult, error)
	Claims(ctx context.Context, userID string) ([]domain.Claim, error)
	Roles(ctx context.Context, userID string) ([]string, error)
	AddClaim(ctx context.Context, userID string, claim domain.Claim) error
}

// AuthService implements registration, login and claim grants.
type AuthService struct {
	store    CredentialStore
	issuer   *auth.Issuer
	producer *event.Producer
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(store CredentialStore, issuer *auth.Issuer, producer *event.Producer, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:    store,
		issuer:   issuer,
		producer: producer,
		logger:   logger,
	}
}

// Register creates a confirmed account and returns a token carrying no
// claims or roles.
func (s *AuthService) Register(ctx context.Context, input domain.RegisterInput) (*domain.UserResponse, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.store.CreateUser(ctx, input.Email, input.Password, true)
	if err != nil {
		var credErr *identity.CredentialError
		if errors.As(err, &credErr) {
			return nil, apperrors.BadRequest("REGISTRATION_FAILED", msgRegistrationFailed).WithDetails(credErr.Errors)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	resp, err := s.issuer.Issue(auth.TokenRequest{UserID: user.ID, Email: user.Email})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return resp, nil
}

// Login checks the password and returns a token with the user's current
// claims and roles. A locked account is reported before any password check.
func (s *AuthService) Login(ctx context.Context, input domain.LoginInput) (*domain.UserResponse, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	user, result, err := s.store.PasswordSignIn(ctx, input.Email, input.Password)
	if err != nil {
		return nil, fmt.Errorf("password sign-in: %w", err)
	}

	switch result {
	case identity.SignInLockedOut:
		s.logger.WarnContext(ctx, "login rejected: account locked", slog.String("email", input.Email))
		return nil, apperrors.BadRequest("ACCOUNT_LOCKED", msgUserBlocked)
	case identity.SignInFailed:
		s.logger.InfoContext(ctx, "login rejected: invalid credentials", slog.String("email", input.Email))
		return nil, apperrors.BadRequest("INVALID_CREDENTIALS", msgInvalidCredentials)
	}

	resp, err := s.tokenFor(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("user_id", user.ID))
	return resp, nil
}

// AddClaimToUser grants input.ClaimType to input.UserID and returns a fresh
// token for the caller.
func (s *AuthService) AddClaimToUser(ctx context.Context, callerID string, input domain.AddClaimInput) (*domain.UserResponse, error) {
	if err := validator.Validate(input); err != nil {
		return nil, err
	}

	target, err := s.store.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.BadRequest("USER_NOT_FOUND", msgUserNotFound)
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	held, err := s.store.Claims(ctx, target.ID)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	if domain.HasClaimType(held, input.ClaimType) {
		return nil, apperrors.BadRequest("DUPLICATE_CLAIM", msgDuplicateClaim)
	}

	claim := domain.Claim{Type: input.ClaimType, Value: input.ClaimValue}
	if err := s.store.AddClaim(ctx, target.ID, claim); err != nil {
		if errors.Is(err, apperrors.ErrAlreadyExists) {
			return nil, apperrors.BadRequest("DUPLICATE_CLAIM", msgDuplicateClaim)
		}
		s.logger.ErrorContext(ctx, "failed to add claim",
			slog.String("user_id", target.ID),
			slog.String("claim_type", claim.Type),
			slog.String("error", err.Error()),
		)
		return nil, apperrors.BadRequest("CLAIM_NOT_ADDED", msgClaimNotAdded)
	}

	caller, err := s.store.FindByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("caller no longer exists")
		}
		return nil, fmt.Errorf("find caller: %w", err)
	}

	resp, err := s.tokenFor(ctx, caller)
	if err != nil {
		return nil, err
	}

	if err := s.producer.PublishClaimAdded(ctx, target.ID, claim, caller.ID); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.claim_added event",
			slog.String("user_id", target.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "claim added",
		slog.String("user_id", target.ID),
		slog.String("claim_type", claim.Type),
		slog.String("granted_by", caller.ID),
	)

	return resp, nil
}

func (s *AuthService) tokenFor(ctx context.Context, user *domain.User) (*domain.UserResponse, error) {
	claims, err := s.store.Claims(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	roles, err := s.store.Roles(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	resp, err := s.issuer.Issue(auth.TokenRequest{
		UserID: user.ID,
		Email:  user.Email,
		Claims: claims,
		Roles:  roles,
	})
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return resp, nil
}
