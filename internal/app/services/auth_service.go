package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fringe-app/fringe/internal/app/models"
	"github.com/fringe-app/fringe/internal/app/repositories"
	"github.com/fringe-app/fringe/internal/app/session"
	"github.com/fringe-app/fringe/internal/pkg/apperrors"
	"github.com/fringe-app/fringe/internal/pkg/auth"
	"github.com/fringe-app/fringe/internal/pkg/dberrors"
	"github.com/fringe-app/fringe/internal/pkg/validation"
)

// RegisterRequest carries sign-up input
type RegisterRequest struct {
	Email    string      `validate:"required,email"`
	Password string      `validate:"required,min=8,password"`
	FullName string      `validate:"required,min=2,max=100"`
	Role     models.Role `validate:"required,role"`
}

// LoginRequest carries sign-in input
type LoginRequest struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// AuthService handles registration, sign-in and session restoration. It is
// the session gate's Authenticator.
type AuthService struct {
	profileRepo      *repositories.ProfileRepository
	jwtService       *auth.JWTService
	sessionStore     auth.SessionStore
	defaultAvatarURL string
	logger           zerolog.Logger

	mu        sync.Mutex
	observers map[int]func(*session.Identity)
	nextObs   int
}

// NewAuthService creates a new AuthService
func NewAuthService(
	profileRepo *repositories.ProfileRepository,
	jwtService *auth.JWTService,
	sessionStore auth.SessionStore,
	defaultAvatarURL string,
	logger zerolog.Logger,
) *AuthService {
	return &AuthService{
		profileRepo:      profileRepo,
		jwtService:       jwtService,
		sessionStore:     sessionStore,
		defaultAvatarURL: defaultAvatarURL,
		logger:           logger,
		observers:        make(map[int]func(*session.Identity)),
	}
}

// SignUp registers a new profile and signs it in. Every new account gets
// the default avatar so the feed never renders a broken image.
func (s *AuthService) SignUp(ctx context.Context, req RegisterRequest) (*session.Identity, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	exists, err := s.profileRepo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	avatar := s.defaultAvatarURL
	profile := &models.Profile{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		Role:         req.Role,
		AvatarURL:    &avatar,
	}
	id, err := s.profileRepo.Create(ctx, profile)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	profile.ID = id

	s.logger.Info().Int64("userId", id).Str("role", string(req.Role)).Msg("Profile registered")
	return s.openSession(profile)
}

// SignIn verifies credentials and starts a session.
func (s *AuthService) SignIn(ctx context.Context, req LoginRequest) (*session.Identity, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrProfileNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}
	if !auth.CheckPassword(profile.PasswordHash, req.Password) {
		s.logger.Warn().Str("email", req.Email).Msg("Sign-in rejected")
		return nil, apperrors.ErrInvalidCredentials
	}

	s.logger.Info().Int64("userId", profile.ID).Msg("Signed in")
	return s.openSession(profile)
}

// SignOut clears the persisted session and notifies observers.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.sessionStore.Clear(); err != nil {
		return err
	}
	s.logger.Info().Msg("Signed out")
	s.notify(nil)
	return nil
}

// Resume restores a persisted session. A missing, expired or invalid token
// resolves to signed out, never to an error the caller must handle.
func (s *AuthService) Resume(ctx context.Context) (*session.Identity, error) {
	pair, err := s.sessionStore.Load()
	if err != nil {
		return nil, err
	}
	if pair == nil {
		return nil, nil
	}

	claims, err := s.jwtService.ValidateToken(pair.AccessToken)
	if err != nil {
		s.logger.Debug().Err(err).Msg("Persisted session no longer valid")
		if clearErr := s.sessionStore.Clear(); clearErr != nil {
			s.logger.Warn().Err(clearErr).Msg("Failed to clear stale session")
		}
		return nil, nil
	}

	profile, err := s.profileRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrProfileNotFound) {
			if clearErr := s.sessionStore.Clear(); clearErr != nil {
				s.logger.Warn().Err(clearErr).Msg("Failed to clear orphaned session")
			}
			return nil, nil
		}
		return nil, fmt.Errorf("failed to restore session: %w", err)
	}
	return identityOf(profile), nil
}

// OnChange registers a session change observer. The returned function
// unregisters it.
func (s *AuthService) OnChange(fn func(*session.Identity)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *AuthService) openSession(profile *models.Profile) (*session.Identity, error) {
	pair, err := s.jwtService.GenerateTokenPair(profile)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session tokens: %w", err)
	}
	if err := s.sessionStore.Save(pair); err != nil {
		return nil, err
	}
	identity := identityOf(profile)
	s.notify(identity)
	return identity, nil
}

func (s *AuthService) notify(identity *session.Identity) {
	s.mu.Lock()
	observers := make([]func(*session.Identity), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()
	for _, fn := range observers {
		fn(identity)
	}
}

func identityOf(profile *models.Profile) *session.Identity {
	identity := &session.Identity{
		ID:       profile.ID,
		Email:    profile.Email,
		FullName: profile.FullName,
		Role:     profile.Role,
	}
	if profile.AvatarURL != nil {
		identity.AvatarURL = *profile.AvatarURL
	}
	return identity
}
