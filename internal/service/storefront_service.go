package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"shopease-service/internal/catalog"
	"shopease-service/internal/entity"
	"shopease-service/internal/events"
	"shopease-service/internal/idempotency"
	"shopease-service/internal/payment"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

var ErrSessionNotFound = errors.New("session not found")

const publishTimeout = 5 * time.Second

// SessionClaims is the payload of a session token.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

type Options struct {
	Gateway   payment.Gateway
	Guard     idempotency.Guard
	Publisher events.Publisher
	JWTSecret string
	TokenTTL  time.Duration
	Shards    int
}

// StorefrontService opens shopper sessions over a shared catalog and wires
// each session's events to the publisher.
type StorefrontService struct {
	catalog   *catalog.Store
	sessions  *Registry
	guard     idempotency.Guard
	publisher events.Publisher
	secret    []byte
	tokenTTL  time.Duration
}

// NewStorefrontService creates a new instance of StorefrontService. Nil
// options fall back to the in-memory implementations.
func NewStorefrontService(store *catalog.Store, opts Options) *StorefrontService {
	if opts.Gateway == nil {
		opts.Gateway = payment.NewSimulatedGateway(payment.DefaultDelay)
	}
	if opts.Guard == nil {
		opts.Guard = idempotency.NewMemoryGuard(idempotency.DefaultTTL)
	}
	if opts.Publisher == nil {
		opts.Publisher = events.LogPublisher{}
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}

	s := &StorefrontService{
		catalog:   store,
		guard:     opts.Guard,
		publisher: opts.Publisher,
		secret:    []byte(opts.JWTSecret),
		tokenTTL:  opts.TokenTTL,
	}
	s.sessions = NewRegistry(opts.Shards, func(id string) *Session {
		sess := NewSession(id, store, opts.Gateway)
		sess.Subscribe(s.publish)
		return sess
	})
	return s
}

func (s *StorefrontService) publish(evt events.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := s.publisher.Publish(ctx, evt); err != nil {
		logger.Error().Err(err).Str("type", string(evt.Type)).Str("session_id", evt.SessionID).Msg("Error publishing session event")
	}
}

func (s *StorefrontService) Catalog() *catalog.Store {
	return s.catalog
}

// OpenSession starts a session and returns it with its signed token.
func (s *StorefrontService) OpenSession() (*Session, string, error) {
	sess := s.sessions.Create()
	token, err := s.issueToken(sess.ID())
	if err != nil {
		s.sessions.Delete(sess.ID())
		return nil, "", err
	}
	logger.Info().Str("session_id", sess.ID()).Msg("session opened")
	return sess, token, nil
}

func (s *StorefrontService) issueToken(sessionID string) (string, error) {
	claims := &SessionClaims{
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.tokenTTL)),
		},
	}
	tkn := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tkn.SignedString(s.secret)
}

// ParseToken verifies a session token and returns its session id.
func (s *StorefrontService) ParseToken(token string) (string, error) {
	claims := &SessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return claims.SessionID, nil
}

// SigningKey is the key session tokens are signed with.
func (s *StorefrontService) SigningKey() []byte {
	return s.secret
}

func (s *StorefrontService) Session(id string) (*Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return sess, nil
}

func (s *StorefrontService) CloseSession(id string) {
	s.sessions.Delete(id)
}

// SubmitPayment claims idempotencyKey, when given, before handing the payment
// to the session. A key already used by a completed or running payment
// returns idempotency.ErrDuplicateKey. A submission that fails validation or
// payment gives the key back so the shopper can retry with it.
func (s *StorefrontService) SubmitPayment(ctx context.Context, sess *Session, idempotencyKey string, details entity.PaymentDetails) (*entity.Order, error) {
	if idempotencyKey == "" {
		return sess.SubmitPayment(ctx, details)
	}

	key := sess.ID() + ":" + idempotencyKey
	if err := s.guard.Claim(ctx, key); err != nil {
		logger.Warn().Err(err).Str("session_id", sess.ID()).Msg("payment submission rejected")
		return nil, err
	}
	order, err := sess.SubmitPayment(ctx, details)
	if err != nil {
		if relErr := s.guard.Release(context.WithoutCancel(ctx), key); relErr != nil {
			logger.Error().Err(relErr).Str("session_id", sess.ID()).Msg("Error releasing idempotency key")
		}
		return nil, err
	}
	return order, nil
}

// SweepIdle closes sessions idle for longer than maxIdle.
func (s *StorefrontService) SweepIdle(maxIdle time.Duration) int {
	n := s.sessions.Sweep(time.Now().Add(-maxIdle))
	if n > 0 {
		logger.Info().Int("sessions", n).Msg("idle sessions closed")
	}
	return n
}

// RunSweeper calls SweepIdle every interval until ctx is done.
func (s *StorefrontService) RunSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepIdle(maxIdle)
		}
	}
}

func (s *StorefrontService) SessionCount() int {
	return s.sessions.Len()
}
