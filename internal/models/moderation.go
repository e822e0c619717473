// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package models

import (
	"time"

	"github.com/google/uuid"
)

// ModerationAction is a moderation verb applied to a marker.
type ModerationAction string

// Moderation actions.
const (
	ActionApprove ModerationAction = "approve"
	ActionReject  ModerationAction = "reject"
	ActionResolve ModerationAction = "resolve"
)

// ModerationActions lists every valid action.
var ModerationActions = []ModerationAction{ActionApprove, ActionReject, ActionResolve}

// IsValidModerationAction reports whether a is a known action.
func IsValidModerationAction(a ModerationAction) bool {
	for _, v := range ModerationActions {
		if a == v {
			return true
		}
	}
	return false
}

// ModerationRecord is one entry of a marker's append-only audit trail.
// Records are never updated or deleted.
type ModerationRecord struct {
	ID        string           `json:"id"`
	MarkerID  string           `json:"marker_id"`
	ActorID   string           `json:"actor_id"`
	ActorRole Role             `json:"actor_role"`
	Action    ModerationAction `json:"action"`
	Note      string           `json:"note,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewModerationRecord builds a record for an action taken now.
func NewModerationRecord(markerID, actorID string, actorRole Role, action ModerationAction, note string) *ModerationRecord {
	return &ModerationRecord{
		ID:        uuid.New().String(),
		MarkerID:  markerID,
		ActorID:   actorID,
		ActorRole: actorRole,
		Action:    action,
		Note:      note,
		CreatedAt: time.Now().UTC(),
	}
}

// ModeratorStats counts one actor's moderation activity.
type ModeratorStats struct {
	ActorID  string                     `json:"actor_id"`
	Total    int64                      `json:"total"`
	ByAction map[ModerationAction]int64 `json:"by_action"`
}
