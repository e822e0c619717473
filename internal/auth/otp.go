// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/narcomap/narcomap/internal/config"
	"github.com/narcomap/narcomap/internal/database"
	"github.com/narcomap/narcomap/internal/logging"
	"github.com/narcomap/narcomap/internal/metrics"
	"github.com/narcomap/narcomap/internal/models"
)

// ErrInvalidCode is returned when a verification code is wrong, expired,
// or already used. Callers get no hint which.
var ErrInvalidCode = errors.New("invalid or expired code")

// ErrUserInactive is returned when a deactivated account tries to log in.
var ErrUserInactive = errors.New("account is deactivated")

// OTPStore is the persistence surface for the OTP flow. *database.DB
// implements it.
type OTPStore interface {
	SaveOTP(ctx context.Context, phone, code string, expiresAt time.Time) error
	ConsumeOTP(ctx context.Context, phone, code string) error
	GetOrCreateUserByPhone(ctx context.Context, phone string) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
}

// OTPService runs the request/verify login flow.
type OTPService struct {
	store  OTPStore
	sender SMSSender
	length int
	ttl    time.Duration
	region string
}

// NewOTPService wires the flow together.
func NewOTPService(store OTPStore, sender SMSSender, cfg config.AuthConfig) *OTPService {
	return &OTPService{
		store:  store,
		sender: sender,
		length: cfg.OTPLength,
		ttl:    cfg.OTPTTL,
		region: cfg.DefaultRegion,
	}
}

// Request issues a fresh code for the phone number and delivers it.
// Issuing a new code invalidates any earlier unused ones for the number.
func (s *OTPService) Request(ctx context.Context, rawPhone string) error {
	phone, err := NormalizePhone(rawPhone, s.region)
	if err != nil {
		return err
	}

	code, err := generateCode(s.length)
	if err != nil {
		return fmt.Errorf("generating code: %w", err)
	}

	expiresAt := time.Now().UTC().Add(s.ttl)
	if err := s.store.SaveOTP(ctx, phone, code, expiresAt); err != nil {
		return fmt.Errorf("saving code: %w", err)
	}

	message := fmt.Sprintf("Narcomap login code: %s. Valid for %d minutes.",
		code, int(s.ttl.Minutes()))
	if err := s.sender.Send(ctx, phone, message); err != nil {
		return fmt.Errorf("delivering code: %w", err)
	}

	metrics.OTPIssuedTotal.Inc()
	logging.Ctx(ctx).Info().Str("phone", phone).Msg("otp issued")
	return nil
}

// Verify burns the code and returns the account for the phone number,
// creating it on first login.
func (s *OTPService) Verify(ctx context.Context, rawPhone, code string) (*models.User, error) {
	phone, err := NormalizePhone(rawPhone, s.region)
	if err != nil {
		return nil, err
	}

	if err := s.store.ConsumeOTP(ctx, phone, code); err != nil {
		metrics.OTPVerifyFailuresTotal.Inc()
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCode
		}
		return nil, fmt.Errorf("verifying code: %w", err)
	}

	u, err := s.store.GetOrCreateUserByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, ErrUserInactive
	}
	logging.Ctx(ctx).Info().Str("user_id", u.ID).Msg("otp verified")
	return u, nil
}

// RefreshUser re-reads the account behind a refresh token so role changes
// and deactivations take effect at refresh time.
func (s *OTPService) RefreshUser(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.Active {
		return nil, ErrUserInactive
	}
	return u, nil
}

// generateCode returns a crypto-random numeric string of the given length.
func generateCode(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}
