// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

// Package models defines the core Narcomap domain types shared by the
// storage, service, and API layers.
package models

import "time"

// MarkerType classifies what a marker reports.
type MarkerType string

// Marker types.
const (
	MarkerTypeDen     MarkerType = "den"
	MarkerTypeAd      MarkerType = "ad"
	MarkerTypeCourier MarkerType = "courier"
	MarkerTypeUser    MarkerType = "user"
	MarkerTypeTrash   MarkerType = "trash"
)

// MarkerTypes lists every valid marker type.
var MarkerTypes = []MarkerType{
	MarkerTypeDen,
	MarkerTypeAd,
	MarkerTypeCourier,
	MarkerTypeUser,
	MarkerTypeTrash,
}

// IsValidMarkerType reports whether t is a known marker type.
func IsValidMarkerType(t MarkerType) bool {
	for _, v := range MarkerTypes {
		if t == v {
			return true
		}
	}
	return false
}

// MarkerColor is the display palette color for a marker. Color is derived
// from the marker type at creation and is never accepted from clients.
type MarkerColor string

// Marker colors.
const (
	ColorRed    MarkerColor = "red"
	ColorOrange MarkerColor = "orange"
	ColorYellow MarkerColor = "yellow"
	ColorGreen  MarkerColor = "green"
	ColorWhite  MarkerColor = "white"
)

var typeColors = map[MarkerType]MarkerColor{
	MarkerTypeDen:     ColorRed,
	MarkerTypeAd:      ColorOrange,
	MarkerTypeCourier: ColorYellow,
	MarkerTypeUser:    ColorGreen,
	MarkerTypeTrash:   ColorWhite,
}

// ColorForType returns the palette color for a marker type. The second
// return value is false for unknown types.
func ColorForType(t MarkerType) (MarkerColor, bool) {
	c, ok := typeColors[t]
	return c, ok
}

// MarkerStatus is the moderation state of a marker.
type MarkerStatus string

// Marker statuses. Every marker starts as StatusNew; all later changes go
// through the moderation transition table.
const (
	StatusNew      MarkerStatus = "new"
	StatusApproved MarkerStatus = "approved"
	StatusRejected MarkerStatus = "rejected"
	StatusResolved MarkerStatus = "resolved"
)

// MarkerStatuses lists every valid marker status.
var MarkerStatuses = []MarkerStatus{StatusNew, StatusApproved, StatusRejected, StatusResolved}

// IsValidMarkerStatus reports whether s is a known status.
func IsValidMarkerStatus(s MarkerStatus) bool {
	for _, v := range MarkerStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// PublicStatuses are the statuses visible to unprivileged callers.
var PublicStatuses = []MarkerStatus{StatusApproved, StatusResolved}

// Marker is a geolocated community report.
type Marker struct {
	ID               string       `json:"id"`
	OwnerID          string       `json:"owner_id"`
	Latitude         float64      `json:"latitude"`
	Longitude        float64      `json:"longitude"`
	Type             MarkerType   `json:"type"`
	Color            MarkerColor  `json:"color"`
	Description      string       `json:"description"`
	Address          string       `json:"address,omitempty"`
	PhotoRef         string       `json:"photo_ref,omitempty"`
	Status           MarkerStatus `json:"status"`
	ResolutionReport string       `json:"resolution_report,omitempty"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// MarkerStats aggregates marker counts for dashboards.
type MarkerStats struct {
	Total    int64                  `json:"total"`
	ByStatus map[MarkerStatus]int64 `json:"by_status"`
	ByType   map[MarkerType]int64   `json:"by_type"`
}
