// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package api

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/narcomap/narcomap/internal/auth"
	"github.com/narcomap/narcomap/internal/config"
	"github.com/narcomap/narcomap/internal/database"
	"github.com/narcomap/narcomap/internal/marker"
	"github.com/narcomap/narcomap/internal/moderation"
	"github.com/narcomap/narcomap/internal/models"
)

// fakeBackend implements the store interfaces of the marker, moderation,
// and auth services against plain maps, so handler tests can exercise the
// full router without a database.
type fakeBackend struct {
	markers map[string]*models.Marker
	records []*models.ModerationRecord
	users   map[string]*models.User
	codes   map[string]string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		markers: make(map[string]*models.Marker),
		users:   make(map[string]*models.User),
		codes:   make(map[string]string),
	}
}

func (b *fakeBackend) CreateMarker(_ context.Context, m *models.Marker) error {
	cp := *m
	b.markers[m.ID] = &cp
	return nil
}

func (b *fakeBackend) GetMarker(_ context.Context, id string) (*models.Marker, error) {
	m, ok := b.markers[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (b *fakeBackend) ListMarkers(_ context.Context, f *database.MarkerFilter) ([]*models.Marker, int64, error) {
	var out []*models.Marker
	for _, m := range b.markers {
		if len(f.Statuses) > 0 {
			match := false
			for _, st := range f.Statuses {
				if m.Status == st {
					match = true
				}
			}
			if !match {
				continue
			}
		}
		if f.OwnerID != "" && m.OwnerID != f.OwnerID {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (b *fakeBackend) CountMarkersForOwnerBetween(_ context.Context, ownerID string, from, to time.Time) (int64, error) {
	var n int64
	for _, m := range b.markers {
		if m.OwnerID == ownerID && !m.CreatedAt.Before(from) && m.CreatedAt.Before(to) {
			n++
		}
	}
	return n, nil
}

func (b *fakeBackend) HasMarkerWithin(_ context.Context, lat, lon, radius float64) (bool, error) {
	for _, m := range b.markers {
		dLat := (m.Latitude - lat) * 111320
		dLon := (m.Longitude - lon) * 111320
		if dLat*dLat+dLon*dLon <= radius*radius {
			return true, nil
		}
	}
	return false, nil
}

func (b *fakeBackend) UpdateMarkerInfo(_ context.Context, id string, description, address *string) error {
	m, ok := b.markers[id]
	if !ok {
		return database.ErrNotFound
	}
	if description != nil {
		m.Description = *description
	}
	if address != nil {
		m.Address = *address
	}
	return nil
}

func (b *fakeBackend) SetMarkerPhoto(_ context.Context, id, ref string) error {
	m, ok := b.markers[id]
	if !ok {
		return database.ErrNotFound
	}
	m.PhotoRef = ref
	return nil
}

func (b *fakeBackend) DeleteMarker(_ context.Context, id string) error {
	if _, ok := b.markers[id]; !ok {
		return database.ErrNotFound
	}
	delete(b.markers, id)
	return nil
}

func (b *fakeBackend) MarkerStats(_ context.Context) (*models.MarkerStats, error) {
	stats := &models.MarkerStats{
		ByStatus: map[models.MarkerStatus]int64{},
		ByType:   map[models.MarkerType]int64{},
	}
	for _, m := range b.markers {
		stats.ByStatus[m.Status]++
		stats.ByType[m.Type]++
		stats.Total++
	}
	return stats, nil
}

func (b *fakeBackend) OwnerMarkerStats(_ context.Context, ownerID string) (*models.UserStats, error) {
	stats := &models.UserStats{UserID: ownerID, ByStatus: map[models.MarkerStatus]int64{}}
	for _, m := range b.markers {
		if m.OwnerID == ownerID {
			stats.ByStatus[m.Status]++
			stats.Total++
		}
	}
	return stats, nil
}

func (b *fakeBackend) ApplyTransition(_ context.Context, markerID string, from, to models.MarkerStatus, report string, rec *models.ModerationRecord) error {
	m, ok := b.markers[markerID]
	if !ok {
		return database.ErrNotFound
	}
	if m.Status != from {
		return database.ErrStatusConflict
	}
	m.Status = to
	if report != "" {
		m.ResolutionReport = report
	}
	b.records = append(b.records, rec)
	return nil
}

func (b *fakeBackend) ModerationHistory(_ context.Context, markerID string) ([]*models.ModerationRecord, error) {
	var out []*models.ModerationRecord
	for _, rec := range b.records {
		if rec.MarkerID == markerID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (b *fakeBackend) PendingMarkers(_ context.Context, _, _ int) ([]*models.Marker, int64, error) {
	var out []*models.Marker
	for _, m := range b.markers {
		if m.Status == models.StatusNew {
			cp := *m
			out = append(out, &cp)
		}
	}
	return out, int64(len(out)), nil
}

func (b *fakeBackend) ModeratorStats(_ context.Context, actorID string) (*models.ModeratorStats, error) {
	stats := &models.ModeratorStats{ActorID: actorID, ByAction: map[models.ModerationAction]int64{}}
	for _, rec := range b.records {
		if rec.ActorID == actorID {
			stats.ByAction[rec.Action]++
			stats.Total++
		}
	}
	return stats, nil
}

func (b *fakeBackend) SaveOTP(_ context.Context, phone, code string, _ time.Time) error {
	b.codes[phone] = code
	return nil
}

func (b *fakeBackend) ConsumeOTP(_ context.Context, phone, code string) error {
	if b.codes[phone] != code || code == "" {
		return database.ErrNotFound
	}
	delete(b.codes, phone)
	return nil
}

func (b *fakeBackend) GetOrCreateUserByPhone(_ context.Context, phone string) (*models.User, error) {
	for _, u := range b.users {
		if u.Phone == phone {
			return u, nil
		}
	}
	u := &models.User{
		ID: "u-" + phone, Phone: phone,
		Role: models.RoleUser, Active: true,
		CreatedAt: time.Now().UTC(),
	}
	b.users[u.ID] = u
	return u, nil
}

func (b *fakeBackend) GetUser(_ context.Context, id string) (*models.User, error) {
	u, ok := b.users[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return u, nil
}

type memPhotos struct{ objects map[string][]byte }

func (p *memPhotos) Save(_ context.Context, ext string, data []byte) (string, error) {
	ref := fmt.Sprintf("obj-%d%s", len(p.objects), ext)
	p.objects[ref] = data
	return ref, nil
}

func (p *memPhotos) Delete(_ context.Context, ref string) error {
	delete(p.objects, ref)
	return nil
}

type testEnv struct {
	backend *fakeBackend
	jwt     *auth.JWTManager
	router  http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	backend := newFakeBackend()
	cfg := config.Default()
	cfg.Auth.JWTSecret = testSecret

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL)
	markers := marker.NewService(backend, &memPhotos{objects: map[string][]byte{}}, cfg.Markers, cfg.Media.MaxUploadBytes)
	authority := moderation.NewAuthority(backend)
	otp := auth.NewOTPService(backend, auth.NewSMSSender(cfg.SMS), cfg.Auth)

	h := NewHandler(nil, markers, authority, otp, jwtManager, &cfg)
	return &testEnv{
		backend: backend,
		jwt:     jwtManager,
		router:  NewRouter(h, jwtManager, cfg.CORS.AllowedOrigins),
	}
}

func (e *testEnv) tokenFor(t *testing.T, u *models.User) string {
	t.Helper()
	e.backend.users[u.ID] = u
	pair, err := e.jwt.GeneratePair(u)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return "Bearer " + pair.AccessToken
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func dataField(t *testing.T, rec *httptest.ResponseRecorder, key string) interface{} {
	t.Helper()
	resp := decodeEnvelope(t, rec)
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is not an object: %v", resp.Data)
	}
	return data[key]
}

func TestOTPLoginFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/auth/request-otp", "",
		map[string]string{"phone": "+79261234567"})
	if rec.Code != http.StatusOK {
		t.Fatalf("request-otp: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	code := env.backend.codes["+79261234567"]
	if code == "" {
		t.Fatal("no code stored")
	}

	rec = env.do(t, http.MethodPost, "/api/v1/auth/verify-otp", "",
		map[string]string{"phone": "+79261234567", "code": code})
	if rec.Code != http.StatusOK {
		t.Fatalf("verify-otp: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	tokens, ok := dataField(t, rec, "tokens").(map[string]interface{})
	if !ok || tokens["access_token"] == "" {
		t.Fatalf("expected tokens in response: %s", rec.Body.String())
	}

	// The issued access token works against an authenticated endpoint.
	access, _ := tokens["access_token"].(string)
	rec = env.do(t, http.MethodGet, "/api/v1/markers", "Bearer "+access, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("markers with fresh token: expected 200, got %d", rec.Code)
	}
}

func TestVerifyOTPWrongCode(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/v1/auth/request-otp", "",
		map[string]string{"phone": "+79261234567"})

	rec := env.do(t, http.MethodPost, "/api/v1/auth/verify-otp", "",
		map[string]string{"phone": "+79261234567", "code": "000000"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeInvalidCode {
		t.Errorf("expected INVALID_CODE, got %+v", resp.Error)
	}
}

func TestRefreshFlow(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	u := &models.User{ID: "u1", Phone: "+79261234567", Role: models.RoleUser, Active: true}
	env.backend.users[u.ID] = u
	pair, err := env.jwt.GeneratePair(u)
	if err != nil {
		t.Fatal(err)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/auth/refresh", "",
		map[string]string{"refresh_token": pair.RefreshToken})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// A deactivated account cannot refresh.
	u.Active = false
	rec = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "",
		map[string]string{"refresh_token": pair.RefreshToken})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for deactivated account, got %d", rec.Code)
	}

	// An access token is not accepted here.
	rec = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "",
		map[string]string{"refresh_token": pair.AccessToken})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for access token, got %d", rec.Code)
	}
}

func TestCreateMarkerEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.tokenFor(t, &models.User{ID: "u1", Phone: "+79261234567", Role: models.RoleUser, Active: true})

	rec := env.do(t, http.MethodPost, "/api/v1/markers", token, map[string]interface{}{
		"latitude":    55.7558,
		"longitude":   37.6173,
		"type":        "den",
		"description": "basement entrance",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	m, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected data: %v", resp.Data)
	}
	if m["status"] != "new" || m["color"] != "red" {
		t.Errorf("server-derived fields wrong: %v", m)
	}

	// Duplicate location gets 409 DUPLICATE_LOCATION.
	rec = env.do(t, http.MethodPost, "/api/v1/markers", token, map[string]interface{}{
		"latitude":    55.7558,
		"longitude":   37.6173,
		"type":        "ad",
		"description": "same spot",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	resp = decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeDuplicateLocation {
		t.Errorf("expected DUPLICATE_LOCATION, got %+v", resp.Error)
	}
}

func TestCreateMarkerUnauthenticated(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/v1/markers", "", map[string]interface{}{
		"latitude": 1.0, "longitude": 1.0, "type": "den", "description": "x",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCreateMarkerQuotaEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	token := env.tokenFor(t, &models.User{ID: "u1", Phone: "+79261234567", Role: models.RoleUser, Active: true})

	for i := 0; i < 10; i++ {
		rec := env.do(t, http.MethodPost, "/api/v1/markers", token, map[string]interface{}{
			"latitude":    float64(i),
			"longitude":   float64(i),
			"type":        "trash",
			"description": "dump",
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("create %d: expected 201, got %d", i, rec.Code)
		}
	}

	rec := env.do(t, http.MethodPost, "/api/v1/markers", token, map[string]interface{}{
		"latitude": 80.0, "longitude": 80.0, "type": "trash", "description": "over",
	})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeQuotaExceeded {
		t.Errorf("expected QUOTA_EXCEEDED, got %+v", resp.Error)
	}
}

func TestMarkerVisibilityEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	now := time.Now().UTC()
	env.backend.markers["m-new"] = &models.Marker{
		ID: "m-new", OwnerID: "owner", Status: models.StatusNew,
		Type: models.MarkerTypeDen, Color: models.ColorRed, CreatedAt: now,
	}
	env.backend.markers["m-approved"] = &models.Marker{
		ID: "m-approved", OwnerID: "owner", Status: models.StatusApproved,
		Type: models.MarkerTypeDen, Color: models.ColorRed, CreatedAt: now,
	}

	userToken := env.tokenFor(t, &models.User{ID: "u2", Phone: "+79260000001", Role: models.RoleUser, Active: true})

	// A stranger's GET of an unmoderated marker is a plain 404.
	rec := env.do(t, http.MethodGet, "/api/v1/markers/m-new", userToken, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/markers/m-approved", userToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Listing hides the unmoderated one.
	rec = env.do(t, http.MethodGet, "/api/v1/markers", userToken, nil)
	resp := decodeEnvelope(t, rec)
	list, ok := resp.Data.([]interface{})
	if !ok {
		t.Fatalf("unexpected data: %v", resp.Data)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 visible marker, got %d", len(list))
	}
}

func TestModerationEndpoints(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.backend.markers["m1"] = &models.Marker{
		ID: "m1", OwnerID: "owner", Status: models.StatusNew,
		Type: models.MarkerTypeDen, Color: models.ColorRed, CreatedAt: time.Now().UTC(),
	}

	userToken := env.tokenFor(t, &models.User{ID: "u1", Phone: "+79260000001", Role: models.RoleUser, Active: true})
	modToken := env.tokenFor(t, &models.User{ID: "mod1", Phone: "+79260000002", Role: models.RoleModerator, Active: true})
	policeToken := env.tokenFor(t, &models.User{ID: "p1", Phone: "+79260000003", Role: models.RolePolice, Active: true})

	// Plain users never reach the moderation surface.
	rec := env.do(t, http.MethodPost, "/api/v1/moderation/markers/m1/approve", userToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for user, got %d", rec.Code)
	}

	// Police pass the route guard but the transition table refuses approve.
	rec = env.do(t, http.MethodPost, "/api/v1/moderation/markers/m1/approve", policeToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for police approve, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/moderation/markers/m1/approve", modToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Approving twice is an INVALID_TRANSITION conflict.
	rec = env.do(t, http.MethodPost, "/api/v1/moderation/markers/m1/approve", modToken, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != ErrCodeInvalidTransition {
		t.Errorf("expected INVALID_TRANSITION, got %+v", resp.Error)
	}

	// Resolving without a report fails validation.
	rec = env.do(t, http.MethodPost, "/api/v1/moderation/markers/m1/resolve", policeToken,
		map[string]string{"report": ""})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty report, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/v1/moderation/markers/m1/resolve", policeToken,
		map[string]string{"report": "site cleared by patrol"})
	if rec.Code != http.StatusOK {
		t.Fatalf("resolve: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// History shows both actions in order.
	rec = env.do(t, http.MethodGet, "/api/v1/moderation/markers/m1/history", modToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", rec.Code)
	}
	resp = decodeEnvelope(t, rec)
	records, ok := resp.Data.([]interface{})
	if !ok || len(records) != 2 {
		t.Fatalf("expected 2 history records, got %v", resp.Data)
	}
}

func TestAttachPhotoEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.backend.markers["m1"] = &models.Marker{
		ID: "m1", OwnerID: "u1", Status: models.StatusNew,
		Type: models.MarkerTypeDen, Color: models.ColorRed, CreatedAt: time.Now().UTC(),
	}
	token := env.tokenFor(t, &models.User{ID: "u1", Phone: "+79261234567", Role: models.RoleUser, Active: true})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("photo", "evidence.png")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(append([]byte("\x89PNG\r\n\x1a\n"), []byte("pixels")...)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/markers/m1/photo", &buf)
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.backend.markers["m1"].PhotoRef == "" {
		t.Error("photo_ref not recorded")
	}
}

func TestUpdateMarkerEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.backend.markers["m1"] = &models.Marker{
		ID: "m1", OwnerID: "u1", Status: models.StatusNew,
		Type: models.MarkerTypeDen, Color: models.ColorRed,
		Description: "old", CreatedAt: time.Now().UTC(),
	}
	token := env.tokenFor(t, &models.User{ID: "u1", Phone: "+79261234567", Role: models.RoleUser, Active: true})

	rec := env.do(t, http.MethodPatch, "/api/v1/markers/m1", token,
		map[string]string{"description": "updated text"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	// Empty patch body is rejected.
	rec = env.do(t, http.MethodPatch, "/api/v1/markers/m1", token, map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty patch, got %d", rec.Code)
	}

	// Status is not an editable field.
	rec = env.do(t, http.MethodPatch, "/api/v1/markers/m1", token,
		map[string]string{"status": "approved"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestDeleteMarkerEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	env.backend.markers["m1"] = &models.Marker{
		ID: "m1", OwnerID: "u1", Status: models.StatusNew,
		Type: models.MarkerTypeDen, Color: models.ColorRed, CreatedAt: time.Now().UTC(),
	}
	token := env.tokenFor(t, &models.User{ID: "u1", Phone: "+79261234567", Role: models.RoleUser, Active: true})

	rec := env.do(t, http.MethodDelete, "/api/v1/markers/m1", token, nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body.String())
	}
	if _, ok := env.backend.markers["m1"]; ok {
		t.Error("marker still present after delete")
	}
}

func TestMarkerIconEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/icons/marker/red.svg", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.Contains(ct, "image/svg+xml") {
		t.Errorf("unexpected content type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("body is not SVG")
	}

	rec = env.do(t, http.MethodGet, "/api/v1/icons/marker/magenta.svg", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown color, got %d", rec.Code)
	}
}
