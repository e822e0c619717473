// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/narcomap/narcomap/internal/auth"
	"github.com/narcomap/narcomap/internal/models"
)

// Rate limit tiers. OTP issuance is the tightest because each request
// costs an SMS; login attempts are capped to slow code guessing.
const (
	rateLimitOTPRequests     = 5
	rateLimitOTPWindow       = 1 * time.Minute
	rateLimitLoginRequests   = 5
	rateLimitLoginWindow     = 5 * time.Minute
	rateLimitWriteRequests   = 30
	rateLimitWriteWindow     = 1 * time.Minute
	rateLimitDefaultRequests = 100
	rateLimitDefaultWindow   = 1 * time.Minute
	rateLimitHealthRequests  = 1000
	rateLimitHealthWindow    = 1 * time.Minute
)

// RateLimitOTP limits code issuance per client IP.
func RateLimitOTP() func(http.Handler) http.Handler {
	return httprate.LimitByIP(rateLimitOTPRequests, rateLimitOTPWindow)
}

// RateLimitLogin limits verification and refresh attempts per client IP.
func RateLimitLogin() func(http.Handler) http.Handler {
	return httprate.LimitByIP(rateLimitLoginRequests, rateLimitLoginWindow)
}

// RateLimitWrite limits mutating endpoints per client IP.
func RateLimitWrite() func(http.Handler) http.Handler {
	return httprate.LimitByIP(rateLimitWriteRequests, rateLimitWriteWindow)
}

// RateLimitDefault is the baseline for read endpoints.
func RateLimitDefault() func(http.Handler) http.Handler {
	return httprate.LimitByIP(rateLimitDefaultRequests, rateLimitDefaultWindow)
}

// RateLimitHealth is generous so probes and scrapers are never starved.
func RateLimitHealth() func(http.Handler) http.Handler {
	return httprate.LimitByIP(rateLimitHealthRequests, rateLimitHealthWindow)
}

// CORS builds the cross-origin policy from configured origins.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// SecurityHeaders sets conservative defaults for an API-only service.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// Authenticate validates the bearer token and stores the actor in the
// request context. Role comes from the token; a role change takes effect
// when the client refreshes.
func Authenticate(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				NewResponseWriter(w, r).Unauthorized("missing authorization header")
				return
			}
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || token == "" {
				NewResponseWriter(w, r).Unauthorized("authorization header must be a bearer token")
				return
			}

			claims, err := jwtManager.ValidateToken(token, auth.TokenTypeAccess)
			if err != nil {
				NewResponseWriter(w, r).Error(http.StatusUnauthorized, ErrCodeInvalidToken,
					"invalid or expired token")
				return
			}

			actor := models.Actor{ID: claims.UserID, Role: claims.Role}
			ctx := auth.ContextWithActor(r.Context(), actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles guards a route group to the given roles. Must run after
// Authenticate.
func RequireRoles(roles ...models.Role) func(http.Handler) http.Handler {
	allowed := make(map[models.Role]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := auth.ActorFromContext(r.Context())
			if !ok {
				NewResponseWriter(w, r).Unauthorized("authentication required")
				return
			}
			if !allowed[actor.Role] {
				NewResponseWriter(w, r).Forbidden("insufficient role")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
