package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zenbild/backend/internal/models"
	"github.com/zenbild/backend/pkg/crypto"
	"github.com/zenbild/backend/pkg/logger"
	"github.com/zenbild/backend/pkg/mail"
)

const (
	defaultMagicLinkTTL    = 15 * time.Minute
	defaultLoginTokenBytes = 32 // 256 bits of entropy
)

var (
	// ErrUserNotFound signals that no account exists for the requested
	// email and creation was not permitted. Returned as a non-error
	// outcome at the HTTP boundary; see the request handler.
	ErrUserNotFound = errors.New("magic link: user not found")
	// ErrRateLimited signals too many login requests for the requester IP or email.
	ErrRateLimited = errors.New("magic link: too many requests")
	// ErrFrontendURLMissing signals the callback base URL is not configured.
	ErrFrontendURLMissing = errors.New("magic link: frontend base url is not configured")
	// ErrTokenMissing signals an empty consume secret.
	ErrTokenMissing = errors.New("magic link: token is required")
	// ErrTokenInvalid conflates never-issued, expired, and wrong secrets
	// so callers cannot distinguish which case occurred.
	ErrTokenInvalid = errors.New("magic link: invalid or expired token")
	// ErrTokenUsed signals the token lost the single-use race or was consumed earlier.
	ErrTokenUsed = errors.New("magic link: token already used")
	// ErrDeliveryFailed signals the notifier could not deliver the email.
	ErrDeliveryFailed = errors.New("magic link: email delivery failed")
)

// MagicLinkOption customises the MagicLinkService.
type MagicLinkOption func(*MagicLinkService)

// WithMagicLinkTTL overrides the token lifetime.
func WithMagicLinkTTL(d time.Duration) MagicLinkOption {
	return func(s *MagicLinkService) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithMagicLinkTokenSize adjusts the number of random bytes in generated secrets.
func WithMagicLinkTokenSize(size int) MagicLinkOption {
	return func(s *MagicLinkService) {
		if size > 0 {
			s.tokenLength = size
		}
	}
}

// WithMagicLinkClock injects a custom time source.
func WithMagicLinkClock(clock func() time.Time) MagicLinkOption {
	return func(s *MagicLinkService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithMagicLinkRateLimiter plugs in request rate limiting.
func WithMagicLinkRateLimiter(limiter RateLimiter) MagicLinkOption {
	return func(s *MagicLinkService) {
		if limiter != nil {
			s.limiter = limiter
		}
	}
}

// MagicLinkService orchestrates the passwordless login flow: issue a
// single-use token, email the callback link, and later exchange the raw
// secret for an authenticated user.
type MagicLinkService struct {
	db          *gorm.DB
	mailer      mail.Mailer
	limiter     RateLimiter
	baseURL     string
	ttl         time.Duration
	tokenLength int
	now         func() time.Time
}

// NewMagicLinkService constructs the service. The mailer may be nil when
// no provider is configured; delivery then fails at request time.
func NewMagicLinkService(db *gorm.DB, mailer mail.Mailer, frontendBaseURL string, opts ...MagicLinkOption) (*MagicLinkService, error) {
	if db == nil {
		return nil, errors.New("magic link service: db is required")
	}

	service := &MagicLinkService{
		db:          db,
		mailer:      mailer,
		limiter:     NewNoopRateLimiter(),
		baseURL:     strings.TrimRight(strings.TrimSpace(frontendBaseURL), "/"),
		ttl:         defaultMagicLinkTTL,
		tokenLength: defaultLoginTokenBytes,
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(service)
	}

	return service, nil
}

// RequestInput carries everything the request step needs.
type RequestInput struct {
	Email           string
	CreateIfMissing bool
	IP              string
	UserAgent       string
}

// RequestResult reports the outcome of a login request. Beyond the
// Created flag the response does not reveal whether the account already
// existed.
type RequestResult struct {
	Created bool
}

// Request issues a magic-link token for the given email and dispatches
// the callback link by email.
func (s *MagicLinkService) Request(ctx context.Context, input RequestInput) (*RequestResult, error) {
	ctx = ensuredContext(ctx)
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, errors.New("magic link service: email is required")
	}

	user, err := s.findUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	created := false
	if user == nil {
		if !input.CreateIfMissing {
			return nil, ErrUserNotFound
		}
		if user, created, err = s.getOrCreateUser(ctx, email); err != nil {
			return nil, err
		}
	}

	if err := s.checkRateLimits(ctx, input.IP, email); err != nil {
		return nil, err
	}

	if s.baseURL == "" {
		return nil, ErrFrontendURLMissing
	}

	raw, err := crypto.GenerateToken(s.tokenLength)
	if err != nil {
		return nil, fmt.Errorf("magic link service: generate token: %w", err)
	}

	token := models.LoginToken{
		Email:     email,
		TokenHash: crypto.HashToken(raw),
		UserID:    &user.ID,
		IP:        input.IP,
		UserAgent: input.UserAgent,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.db.WithContext(ctx).Create(&token).Error; err != nil {
		return nil, fmt.Errorf("magic link service: save token: %w", err)
	}

	link := fmt.Sprintf("%s/auth/callback?token=%s", s.baseURL, raw)

	if err := s.deliver(ctx, email, link); err != nil {
		return nil, err
	}

	return &RequestResult{Created: created}, nil
}

// ConsumeResult identifies the authenticated user after a successful exchange.
type ConsumeResult struct {
	UserID  string
	IsGuest bool
}

// Consume exchanges a raw magic-link secret for the authenticated user.
// The token transitions to consumed exactly once; racing callers past
// the first receive ErrTokenUsed.
func (s *MagicLinkService) Consume(ctx context.Context, rawSecret string) (*ConsumeResult, error) {
	ctx = ensuredContext(ctx)
	if strings.TrimSpace(rawSecret) == "" {
		return nil, ErrTokenMissing
	}

	hash := crypto.HashToken(rawSecret)
	now := s.now()

	// Consumed rows are intentionally kept in the lookup: "already used"
	// is a distinct, more specific answer than "invalid", and only the
	// conditional write below can tell the two apart race-safely.
	var token models.LoginToken
	err := s.db.WithContext(ctx).
		Where("token_hash = ?", hash).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("magic link service: find token: %w", err)
	}
	if !token.ExpiresAt.After(now) {
		return nil, ErrTokenInvalid
	}

	// Single conditional write keeps the single-use guarantee race-safe:
	// exactly one concurrent consumer observes RowsAffected == 1.
	res := s.db.WithContext(ctx).
		Model(&models.LoginToken{}).
		Where("token_hash = ? AND consumed_at IS NULL", hash).
		Update("consumed_at", now)
	if res.Error != nil {
		return nil, fmt.Errorf("magic link service: consume token: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrTokenUsed
	}

	user, err := s.resolveUser(ctx, &token)
	if err != nil {
		return nil, err
	}

	return &ConsumeResult{UserID: user.ID, IsGuest: user.IsGuest}, nil
}

func (s *MagicLinkService) checkRateLimits(ctx context.Context, ip, email string) error {
	probes := [][2]string{
		{"magic_request_ip", ip},
		{"magic_request_email", email},
	}
	for _, probe := range probes {
		key := probe[1]
		if key == "" {
			key = "unknown"
		}
		allowed, err := s.limiter.Allow(ctx, probe[0], key)
		if err != nil {
			// Limiter backend trouble should not lock users out.
			logger.WithModule("auth").Warn("rate limiter unavailable", zap.Error(err))
			continue
		}
		if !allowed {
			return ErrRateLimited
		}
	}
	return nil
}

func (s *MagicLinkService) deliver(ctx context.Context, email, link string) error {
	if s.mailer == nil {
		return fmt.Errorf("%w: no email provider configured", ErrDeliveryFailed)
	}

	message := mail.Message{
		To:      []string{email},
		Subject: "Your Zenbild sign-in link",
		Body: fmt.Sprintf(
			"Use this link to sign in (expires in %d minutes): %s\n\nIf you did not request it, you can ignore this message.\n",
			int(s.ttl.Minutes()), link,
		),
	}
	if err := s.mailer.Send(ctx, message); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

func (s *MagicLinkService) findUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("magic link service: find user: %w", err)
	}
	return &user, nil
}

func (s *MagicLinkService) findUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("magic link service: find user: %w", err)
	}
	return &user, nil
}

// getOrCreateUser inserts a user row for the email, recovering from a
// lost unique-constraint race by re-reading the winning row.
func (s *MagicLinkService) getOrCreateUser(ctx context.Context, email string) (*models.User, bool, error) {
	user := models.User{Email: email}
	err := s.db.WithContext(ctx).Create(&user).Error
	if err == nil {
		return &user, true, nil
	}
	if !isUniqueConstraintError(err) {
		return nil, false, fmt.Errorf("magic link service: create user: %w", err)
	}

	existing, findErr := s.findUserByEmail(ctx, email)
	if findErr != nil {
		return nil, false, findErr
	}
	if existing == nil {
		return nil, false, fmt.Errorf("magic link service: create user: %w", err)
	}
	return existing, false, nil
}

func (s *MagicLinkService) resolveUser(ctx context.Context, token *models.LoginToken) (*models.User, error) {
	if token.UserID != nil && *token.UserID != "" {
		user, err := s.findUserByID(ctx, *token.UserID)
		if err != nil {
			return nil, err
		}
		if user != nil {
			return user, nil
		}
	}

	user, _, err := s.getOrCreateUser(ctx, NormalizeEmail(token.Email))
	return user, err
}
