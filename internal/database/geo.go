// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package database

import "math"

const earthRadiusMeters = 6371000.0

// haversineMeters returns the great-circle distance between two points.
func haversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	const rad = math.Pi / 180
	phi1 := lat1 * rad
	phi2 := lat2 * rad
	dPhi := (lat2 - lat1) * rad
	dLambda := (lon2 - lon1) * rad

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * earthRadiusMeters * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// boundingBox returns a lat/lon window that contains the circle of the
// given radius around a point. Used as an index-friendly prefilter before
// the exact haversine check.
//
// The longitude window wraps across the antimeridian: minLon > maxLon
// means the window covers [minLon, 180] plus [-180, maxLon].
func boundingBox(lat, lon, radiusMeters float64) (minLat, maxLat, minLon, maxLon float64) {
	// One degree of latitude is ~111.32 km everywhere.
	dLat := radiusMeters / 111320.0

	// Longitude degrees shrink with latitude; near the poles the window
	// degenerates to the full range.
	cosLat := math.Cos(lat * math.Pi / 180)
	var dLon float64
	if cosLat < 1e-6 {
		dLon = 180
	} else {
		dLon = radiusMeters / (111320.0 * cosLat)
	}

	minLat = math.Max(lat-dLat, -90)
	maxLat = math.Min(lat+dLat, 90)

	if dLon >= 180 {
		return minLat, maxLat, -180, 180
	}
	minLon = wrapLon(lon - dLon)
	maxLon = wrapLon(lon + dLon)
	return minLat, maxLat, minLon, maxLon
}

// wrapLon normalizes a longitude into [-180, 180].
func wrapLon(lon float64) float64 {
	switch {
	case lon < -180:
		return lon + 360
	case lon > 180:
		return lon - 360
	default:
		return lon
	}
}
