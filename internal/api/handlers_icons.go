// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/narcomap/narcomap/internal/models"
)

// Hex values for the marker palette.
var colorHex = map[models.MarkerColor]string{
	models.ColorRed:    "#e53935",
	models.ColorOrange: "#fb8c00",
	models.ColorYellow: "#fdd835",
	models.ColorGreen:  "#43a047",
	models.ColorWhite:  "#fafafa",
}

// MarkerIcon handles GET /api/v1/icons/marker/{color}.svg and renders the
// pin for one palette color. Icons are static per color, so clients and
// proxies may cache them hard.
func (h *Handler) MarkerIcon(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSuffix(chi.URLParam(r, "color"), ".svg")
	hex, ok := colorHex[models.MarkerColor(name)]
	if !ok {
		NewResponseWriter(w, r).NotFound(fmt.Sprintf("unknown color %q", name))
		return
	}

	svg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="32" height="44" viewBox="0 0 32 44">
<path d="M16 0C7.2 0 0 7.2 0 16c0 11 16 28 16 28s16-17 16-28C32 7.2 24.8 0 16 0z" fill="%s" stroke="#212121" stroke-width="1"/>
<circle cx="16" cy="16" r="6" fill="#ffffff" fill-opacity="0.9"/>
</svg>`, hex)

	writeSVG(w, svg)
}

// ClusterIcon handles GET /api/v1/icons/cluster.svg, the badge used when
// the client collapses nearby markers.
func (h *Handler) ClusterIcon(w http.ResponseWriter, _ *http.Request) {
	svg := `<svg xmlns="http://www.w3.org/2000/svg" width="40" height="40" viewBox="0 0 40 40">
<circle cx="20" cy="20" r="18" fill="#1e88e5" fill-opacity="0.85" stroke="#0d47a1" stroke-width="2"/>
<circle cx="20" cy="20" r="11" fill="#ffffff" fill-opacity="0.25"/>
</svg>`

	writeSVG(w, svg)
}

func writeSVG(w http.ResponseWriter, svg string) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	_, _ = w.Write([]byte(svg))
}
