// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package auth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"

	"github.com/narcomap/narcomap/internal/config"
	"github.com/narcomap/narcomap/internal/logging"
)

// SMSSender delivers one-time codes to phones.
type SMSSender interface {
	Send(ctx context.Context, phone, message string) error
}

// LogSMSSender writes codes to the log instead of sending them. For
// development and tests only.
type LogSMSSender struct{}

// Send implements SMSSender.
func (LogSMSSender) Send(_ context.Context, phone, message string) error {
	logging.Info().Str("phone", phone).Str("message", message).Msg("sms (log sender)")
	return nil
}

// HTTPSMSSender posts messages to an SMS gateway. Calls go through a
// circuit breaker so a dead gateway fails fast instead of holding request
// goroutines for the full timeout.
type HTTPSMSSender struct {
	url     string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewHTTPSMSSender builds a gateway sender from config.
func NewHTTPSMSSender(cfg config.SMSConfig) *HTTPSMSSender {
	settings := gobreaker.Settings{
		Name:    "sms-gateway",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &HTTPSMSSender{
		url:     cfg.URL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Send implements SMSSender.
func (s *HTTPSMSSender) Send(ctx context.Context, phone, message string) error {
	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.post(ctx, phone, message)
	})
	if err != nil {
		return fmt.Errorf("sending sms: %w", err)
	}
	return nil
}

func (s *HTTPSMSSender) post(ctx context.Context, phone, message string) error {
	payload, err := json.Marshal(map[string]string{
		"to":   phone,
		"text": message,
	})
	if err != nil {
		return fmt.Errorf("encoding sms payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling sms gateway: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned %d", resp.StatusCode)
	}
	return nil
}

// NewSMSSender picks the sender for the configured provider.
func NewSMSSender(cfg config.SMSConfig) SMSSender {
	if cfg.Provider == "http" {
		return NewHTTPSMSSender(cfg)
	}
	return LogSMSSender{}
}
