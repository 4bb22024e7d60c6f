package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/school-results-api/internal/dto"
	"github.com/noah-isme/school-results-api/internal/models"
	"github.com/noah-isme/school-results-api/internal/repository"
	appErrors "github.com/noah-isme/school-results-api/pkg/errors"
)

type adminRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Admin, error)
	Upsert(ctx context.Context, admin *models.Admin) error
}

type sessionStore interface {
	Save(ctx context.Context, session *models.AdminSession, ttl time.Duration) error
	Find(ctx context.Context, id string) (*models.AdminSession, error)
	Delete(ctx context.Context, id string) error
}

type loginRecorder interface {
	RecordLogin(success bool)
}

// AuthConfig defines configuration for admin sessions.
type AuthConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// LoginRequest holds admin credentials.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// AdminCredentials is used to create or reset the admin account.
type AdminCredentials struct {
	Username string `validate:"required,min=3,max=50"`
	Password string `validate:"required,min=8,max=72"`
}

// AuthService authenticates the admin and manages server side sessions.
type AuthService struct {
	admins    adminRepository
	sessions  sessionStore
	metrics   loginRecorder
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

func NewAuthService(admins adminRepository, sessions sessionStore, metrics loginRecorder, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.TTL <= 0 {
		config.TTL = 24 * time.Hour
	}
	if config.Issuer == "" {
		config.Issuer = "school-results-api"
	}
	return &AuthService{admins: admins, sessions: sessions, metrics: metrics, validator: validate, logger: logger, config: config, now: time.Now}
}

// Login checks the password against the stored bcrypt hash and opens a session.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*dto.LoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "username and password are required")
	}

	admin, err := s.admins.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.recordLogin(false)
			s.logger.Warn("admin login rejected", zap.String("username", req.Username), zap.String("ip", req.IP))
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, storeError(err, "failed to load admin")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.recordLogin(false)
		s.logger.Warn("admin login rejected", zap.String("username", req.Username), zap.String("ip", req.IP))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	issuedAt := s.now().UTC()
	session := &models.AdminSession{
		ID:        uuid.NewString(),
		AdminID:   admin.ID,
		Username:  admin.Username,
		IP:        req.IP,
		UserAgent: req.UserAgent,
		CreatedAt: issuedAt,
		ExpiresAt: issuedAt.Add(s.config.TTL),
	}
	if err := s.sessions.Save(ctx, session, s.config.TTL); err != nil {
		return nil, appErrors.Internal(err, "failed to create session")
	}

	token, err := s.signToken(session)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to sign session token")
	}

	s.recordLogin(true)
	s.logger.Info("admin logged in", zap.String("username", admin.Username), zap.String("session_id", session.ID))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: session.ExpiresAt,
		Session:   sessionInfo(session),
	}, nil
}

// Authenticate verifies the token signature and that its session is still open.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.AdminSession, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid session token")
	}

	session, err := s.sessions.Find(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session expired")
		}
		return nil, appErrors.Internal(err, "failed to load session")
	}
	if session.Username != claims.Username {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "session does not match token")
	}
	return session, nil
}

// Logout closes the session. Closing an unknown session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return appErrors.Internal(err, "failed to end session")
	}
	s.logger.Info("admin logged out", zap.String("session_id", sessionID))
	return nil
}

// EnsureAdmin creates the admin account or resets its password.
func (s *AuthService) EnsureAdmin(ctx context.Context, creds AdminCredentials) (*models.Admin, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if err := s.validator.Struct(creds); err != nil {
		return nil, validationError(err, "invalid admin credentials")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}
	admin := &models.Admin{Username: creds.Username, PasswordHash: string(hash)}
	if err := s.admins.Upsert(ctx, admin); err != nil {
		return nil, storeError(err, "failed to save admin")
	}
	return admin, nil
}

// SessionInfo converts a session into its public description.
func SessionInfo(session *models.AdminSession) dto.SessionInfo {
	return sessionInfo(session)
}

func sessionInfo(session *models.AdminSession) dto.SessionInfo {
	return dto.SessionInfo{SessionID: session.ID, Username: session.Username, ExpiresAt: session.ExpiresAt}
}

func (s *AuthService) signToken(session *models.AdminSession) (string, error) {
	claims := models.SessionClaims{
		SessionID: session.ID,
		Username:  session.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.AdminID,
			Issuer:    s.config.Issuer,
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			NotBefore: jwt.NewNumericDate(session.CreatedAt),
			ID:        session.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func (s *AuthService) parseToken(tokenString string) (*models.SessionClaims, error) {
	if tokenString == "" {
		return nil, errors.New("missing token")
	}
	token, err := jwt.ParseWithClaims(tokenString, &models.SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithIssuer(s.config.Issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*models.SessionClaims)
	if !ok || !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) recordLogin(success bool) {
	if s.metrics != nil {
		s.metrics.RecordLogin(success)
	}
}
