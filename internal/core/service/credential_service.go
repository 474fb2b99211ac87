package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicreport/civic-portal/internal/core/domain"
	"github.com/civicreport/civic-portal/internal/core/ports"
)

// dummyHash is compared against when login hits an unknown email, so the
// unknown-email and wrong-password paths cost the same and fail the same.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("civic-portal-dummy"), bcrypt.DefaultCost)

// CredentialService implements registration, login, and session resolution.
type CredentialService struct {
	users       ports.UserRepository
	store       ports.SessionStore
	tokenSecret []byte
	sessionTTL  time.Duration
	log         zerolog.Logger
}

func NewCredentialService(users ports.UserRepository, store ports.SessionStore, tokenSecret string, sessionTTL time.Duration, log zerolog.Logger) *CredentialService {
	if sessionTTL <= 0 {
		sessionTTL = 24 * time.Hour
	}
	return &CredentialService{
		users:       users,
		store:       store,
		tokenSecret: []byte(tokenSecret),
		sessionTTL:  sessionTTL,
		log:         log,
	}
}

// Register creates a citizen identity and logs it in immediately. The session
// is persisted before the call returns success.
func (s *CredentialService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Session, error) {
	for field, value := range map[string]string{
		"name":     in.Name,
		"email":    in.Email,
		"phone":    in.Phone,
		"password": in.Password,
		"location": in.Location,
		"address":  in.Address,
	} {
		if strings.TrimSpace(value) == "" {
			return nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
		}
	}

	email := domain.NormalizeEmail(in.Email)
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: check email: %w", err)
	}

	phone := strings.TrimSpace(in.Phone)
	if _, err := s.users.FindByPhone(ctx, phone); err == nil {
		return nil, domain.ErrPhoneTaken
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: check phone: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         domain.RoleCitizen,
		Location:     strings.TrimSpace(in.Location),
		Address:      strings.TrimSpace(in.Address),
		CreatedAt:    time.Now().UTC(),
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	sess, err := s.establishSession(ctx, created)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", created.ID).Str("email", created.Email).Msg("user registered")
	return sess, nil
}

// Login authenticates an email/password pair. An unknown email and a wrong
// password yield the same error.
func (s *CredentialService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrValidation)
	}

	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	updated, err := s.users.UpdateLastLogin(ctx, user.ID)
	if err != nil {
		// Login still succeeds; the timestamp is best effort.
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last login")
		updated = user
	}

	sess, err := s.establishSession(ctx, updated)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", updated.ID).Msg("user logged in")
	return sess, nil
}

// Logout clears the session behind the token. Malformed or already-expired
// tokens are a no-op: logging out twice ends in the same state as once.
func (s *CredentialService) Logout(ctx context.Context, token string) error {
	id, _, err := s.verifyToken(token)
	if err != nil {
		return nil
	}
	if err := s.store.Clear(ctx, id); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear session")
	}
	return nil
}

// Resolve turns a bearer token into a live identity: signature check, session
// lookup, then revalidation that the identity still exists. Every failure
// collapses to ErrUnauthenticated so callers fail closed.
func (s *CredentialService) Resolve(ctx context.Context, token string) (*domain.User, error) {
	id, userID, err := s.verifyToken(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	sess, ok, err := s.store.Load(ctx, id)
	if err != nil {
		s.log.Warn().Err(err).Msg("session load failed")
		return nil, domain.ErrUnauthenticated
	}
	if !ok || sess.User.ID != userID {
		return nil, domain.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Identity was deleted server-side since the session was issued.
			_ = s.store.Clear(ctx, id)
		} else {
			s.log.Warn().Err(err).Str("user_id", userID).Msg("session revalidation failed")
		}
		return nil, domain.ErrUnauthenticated
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// UpdateProfile applies a partial update to the identity behind the token and
// rewrites the persisted session copy under the same session id.
func (s *CredentialService) UpdateProfile(ctx context.Context, token string, update ports.ProfileUpdate) (*domain.User, error) {
	id, userID, err := s.verifyToken(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	sess, ok, err := s.store.Load(ctx, id)
	if err != nil || !ok {
		return nil, domain.ErrUnauthenticated
	}

	updated, err := s.users.UpdateProfile(ctx, userID, update)
	if err != nil {
		return nil, err
	}

	sess.User = updated.Sanitized()
	if err := s.store.Persist(ctx, sess); err != nil {
		return nil, fmt.Errorf("update profile: refresh session: %w", err)
	}

	sanitized := updated.Sanitized()
	return &sanitized, nil
}

// establishSession mints a signed token for the user and persists the session
// record. Persist must succeed before the session is reported to the caller.
func (s *CredentialService) establishSession(ctx context.Context, user *domain.User) (*domain.Session, error) {
	id, err := newSessionID()
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}

	claims := jwt.MapClaims{
		"sub": user.ID,
		"jti": id,
		"rol": user.Role,
		"exp": time.Now().Add(s.sessionTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.tokenSecret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	sess := &domain.Session{
		ID:    id,
		Token: token,
		User:  user.Sanitized(),
	}
	if err := s.store.Persist(ctx, sess); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return sess, nil
}

// verifyToken checks the signature and expiry and extracts the session id
// and subject.
func (s *CredentialService) verifyToken(token string) (id, userID string, err error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.tokenSecret, nil
	})
	if err != nil || !tkn.Valid {
		return "", "", domain.ErrUnauthenticated
	}

	id, _ = claims["jti"].(string)
	userID, _ = claims["sub"].(string)
	if id == "" || userID == "" {
		return "", "", domain.ErrUnauthenticated
	}
	return id, userID, nil
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
