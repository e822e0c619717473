// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package database

import (
	"fmt"
	"strings"

	"github.com/narcomap/narcomap/internal/models"
)

// MarkerFilter narrows ListMarkers results. Zero values mean "no
// constraint" except Statuses, which the service layer always sets
// according to caller privilege.
type MarkerFilter struct {
	Statuses []models.MarkerStatus
	Types    []models.MarkerType
	OwnerID  string

	// Bounding box; applied only when HasBounds is true.
	HasBounds bool
	MinLat    float64
	MaxLat    float64
	MinLon    float64
	MaxLon    float64

	Limit  int
	Offset int
}

// whereClause renders the filter as a WHERE fragment plus its parameters.
func (f *MarkerFilter) whereClause() (string, []interface{}) {
	var conds []string
	var args []interface{}

	if len(f.Statuses) > 0 {
		ph := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			ph[i] = "?"
			args = append(args, string(s))
		}
		conds = append(conds, fmt.Sprintf("status IN (%s)", strings.Join(ph, ", ")))
	}
	if len(f.Types) > 0 {
		ph := make([]string, len(f.Types))
		for i, t := range f.Types {
			ph[i] = "?"
			args = append(args, string(t))
		}
		conds = append(conds, fmt.Sprintf("type IN (%s)", strings.Join(ph, ", ")))
	}
	if f.OwnerID != "" {
		conds = append(conds, "owner_id = ?")
		args = append(args, f.OwnerID)
	}
	if f.HasBounds {
		conds = append(conds, "latitude BETWEEN ? AND ?", "longitude BETWEEN ? AND ?")
		args = append(args, f.MinLat, f.MaxLat, f.MinLon, f.MaxLon)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// limitClause renders LIMIT/OFFSET with a sane cap.
func (f *MarkerFilter) limitClause() string {
	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}
