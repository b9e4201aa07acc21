package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sprayshop/backend/internal/domain/identity"
	"github.com/sprayshop/backend/internal/domain/shared"
	"github.com/sprayshop/backend/internal/infrastructure/auth"
	"github.com/sprayshop/backend/internal/infrastructure/config"
)

// ErrInvalidCredentials is returned for any sign-in failure that should
// not reveal whether the email exists.
var ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// ErrAccountLocked is returned when too many failed attempts have locked
// the account.
var ErrAccountLocked = shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked, try again later")

// AuthService handles sign-up, sign-in, token refresh, and sign-out.
// Every session passes through here; there are no side-door credentials.
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	authCfg    config.AuthConfig
	logger     *zap.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	authCfg config.AuthConfig,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		authCfg:    authCfg,
		logger:     logger,
	}
}

// SignUp creates an account and signs it in.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*SessionResponse, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An account with this email already exists")
	}

	user, err := identity.NewUser(req.Email, req.Password, req.DisplayName)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.drainUserEvents(user)

	tokens, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &SessionResponse{User: ToUserResponse(user), Tokens: tokens}, nil
}

// SignIn authenticates a user and issues a token pair. Failed attempts
// count toward a temporary lockout; the error never discloses whether the
// email is registered.
func (s *AuthService) SignIn(ctx context.Context, req SignInRequest, clientIP string) (*SessionResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.IsLocked() {
		return nil, ErrAccountLocked
	}
	if !user.CanLogin() {
		// Deactivated; locked accounts were already rejected above.
		return nil, ErrInvalidCredentials
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(s.authCfg.MaxFailedAttempts, s.authCfg.LockDuration)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Warn("Failed to persist login failure", zap.Error(err))
		}
		s.drainUserEvents(user)
		if locked {
			return nil, ErrAccountLocked
		}
		return nil, ErrInvalidCredentials
	}

	// An expired lock is lifted by the first correct password.
	if user.Status == identity.UserStatusLocked {
		if err := user.Unlock(); err != nil {
			return nil, err
		}
	}
	user.RecordLoginSuccess(clientIP)
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Warn("Failed to persist login success", zap.Error(err))
	}
	s.drainUserEvents(user)

	tokens, err := s.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &SessionResponse{User: ToUserResponse(user), Tokens: tokens}, nil
}

// Refresh rotates a refresh token into a new token pair. The old refresh
// token is blacklisted so it cannot be replayed.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*SessionResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	blacklisted, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, auth.ErrTokenBlacklisted
	}

	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return nil, err
	}
	if invalidated {
		return nil, auth.ErrTokenBlacklisted
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, auth.ErrInvalidClaims
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.CanLogin() {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.jwtService.RefreshTokenPair(refreshToken)
	if err != nil {
		return nil, err
	}

	if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Warn("Failed to blacklist rotated refresh token", zap.Error(err))
	}

	return &SessionResponse{User: ToUserResponse(user), Tokens: tokens}, nil
}

// SignOut invalidates the current access token and, when provided, the
// refresh token as well.
func (s *AuthService) SignOut(ctx context.Context, accessClaims *auth.Claims, refreshToken string) error {
	if err := s.blacklist.AddToBlacklist(ctx, accessClaims.ID, accessClaims.GetRemainingTTL()); err != nil {
		return err
	}

	if refreshToken != "" {
		claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
		if err == nil {
			if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				s.logger.Warn("Failed to blacklist refresh token on sign-out", zap.Error(err))
			}
		}
	}
	return nil
}

// drainUserEvents writes the account's buffered domain events to the
// audit log. Lockouts surface as warnings.
func (s *AuthService) drainUserEvents(user *identity.User) {
	for _, event := range user.GetDomainEvents() {
		switch e := event.(type) {
		case *identity.UserLockedEvent:
			s.logger.Warn("Account locked after repeated failures",
				zap.String("user_id", e.UserID.String()))
		default:
			s.logger.Info("Identity event",
				zap.String("event", event.EventType()),
				zap.String("user_id", event.AggregateID().String()))
		}
	}
	user.ClearDomainEvents()
}

// GetSession returns the account behind a validated token.
func (s *AuthService) GetSession(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := ToUserResponse(user)
	return &response, nil
}
