// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

// Package moderation owns the marker status state machine.
//
// Every status change in the system flows through Authority.Transition
// and its single transition table; there is no other code path that
// writes a marker status. Each applied transition appends a
// ModerationRecord in the same transaction as the status update.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/narcomap/narcomap/internal/database"
	"github.com/narcomap/narcomap/internal/logging"
	"github.com/narcomap/narcomap/internal/metrics"
	"github.com/narcomap/narcomap/internal/models"
)

// Errors returned by Transition.
var (
	// ErrInvalidTransition rejects an action the current status does not
	// permit. Repeating an already-applied action fails with this too;
	// there is no silent idempotence.
	ErrInvalidTransition = errors.New("transition not allowed from current status")

	// ErrForbidden rejects an actor whose role may not perform the action.
	ErrForbidden = errors.New("role not allowed to perform this action")

	// ErrReportRequired rejects a resolve without a resolution report.
	ErrReportRequired = errors.New("resolve requires a resolution report")
)

// rule is one row of the transition table.
type rule struct {
	from         models.MarkerStatus
	to           models.MarkerStatus
	roles        map[models.Role]bool
	requiresNote bool
}

// transitionTable is the complete authorization and state matrix. Adding
// a moderation capability means adding a row here, nowhere else.
var transitionTable = map[models.ModerationAction]rule{
	models.ActionApprove: {
		from:  models.StatusNew,
		to:    models.StatusApproved,
		roles: map[models.Role]bool{models.RoleModerator: true, models.RoleAdmin: true},
	},
	models.ActionReject: {
		from:  models.StatusNew,
		to:    models.StatusRejected,
		roles: map[models.Role]bool{models.RoleModerator: true, models.RoleAdmin: true},
	},
	models.ActionResolve: {
		from:         models.StatusApproved,
		to:           models.StatusResolved,
		roles:        map[models.Role]bool{models.RolePolice: true, models.RoleAdmin: true},
		requiresNote: true,
	},
}

// Store is the persistence surface the authority needs. *database.DB
// implements it.
type Store interface {
	GetMarker(ctx context.Context, id string) (*models.Marker, error)
	ApplyTransition(ctx context.Context, markerID string, from, to models.MarkerStatus, resolutionReport string, rec *models.ModerationRecord) error
	ModerationHistory(ctx context.Context, markerID string) ([]*models.ModerationRecord, error)
	PendingMarkers(ctx context.Context, limit, offset int) ([]*models.Marker, int64, error)
	ModeratorStats(ctx context.Context, actorID string) (*models.ModeratorStats, error)
}

// Authority applies moderation actions to markers.
type Authority struct {
	store Store
}

// NewAuthority wires the authority to its store.
func NewAuthority(store Store) *Authority {
	return &Authority{store: store}
}

// Transition applies one moderation action. The note doubles as the
// resolution report for resolve, where it is mandatory. The status update
// and the audit record commit atomically; when a concurrent transition
// wins the race this one fails with ErrInvalidTransition.
func (a *Authority) Transition(ctx context.Context, actor models.Actor, markerID string, action models.ModerationAction, note string) (*models.Marker, error) {
	r, ok := transitionTable[action]
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", ErrInvalidTransition, action)
	}
	if !r.roles[actor.Role] {
		return nil, fmt.Errorf("%w: %s may not %s", ErrForbidden, actor.Role, action)
	}

	note = strings.TrimSpace(note)
	if r.requiresNote && note == "" {
		return nil, ErrReportRequired
	}

	m, err := a.store.GetMarker(ctx, markerID)
	if err != nil {
		return nil, err
	}
	if m.Status != r.from {
		return nil, fmt.Errorf("%w: cannot %s a %s marker", ErrInvalidTransition, action, m.Status)
	}

	rec := models.NewModerationRecord(markerID, actor.ID, actor.Role, action, note)

	report := ""
	if action == models.ActionResolve {
		report = note
	}
	if err := a.store.ApplyTransition(ctx, markerID, r.from, r.to, report, rec); err != nil {
		if errors.Is(err, database.ErrStatusConflict) {
			return nil, fmt.Errorf("%w: status changed concurrently", ErrInvalidTransition)
		}
		return nil, err
	}

	metrics.ModerationActionsTotal.WithLabelValues(string(action)).Inc()
	logging.Ctx(ctx).Info().
		Str("marker_id", markerID).
		Str("action", string(action)).
		Str("actor_role", string(actor.Role)).
		Msg("moderation action applied")

	m.Status = r.to
	if action == models.ActionResolve {
		m.ResolutionReport = note
	}
	return m, nil
}

// History returns a marker's full audit trail, oldest first. The marker
// must exist; privileged access is enforced at the API layer.
func (a *Authority) History(ctx context.Context, markerID string) ([]*models.ModerationRecord, error) {
	if _, err := a.store.GetMarker(ctx, markerID); err != nil {
		return nil, err
	}
	return a.store.ModerationHistory(ctx, markerID)
}

// Pending returns the moderation queue, oldest first.
func (a *Authority) Pending(ctx context.Context, limit, offset int) ([]*models.Marker, int64, error) {
	return a.store.PendingMarkers(ctx, limit, offset)
}

// ActorStats counts the actor's own moderation activity.
func (a *Authority) ActorStats(ctx context.Context, actorID string) (*models.ModeratorStats, error) {
	return a.store.ModeratorStats(ctx, actorID)
}
