package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/strandworks/strand-core/internal/catalog"
	"github.com/strandworks/strand-core/internal/controller"
	"github.com/strandworks/strand-core/internal/infrastructure/logging"
	"github.com/strandworks/strand-core/internal/pattern"
	"github.com/strandworks/strand-core/internal/zone"
)

// fakeZoneService is a scripted ZoneService for handler tests.
type fakeZoneService struct {
	state      zone.State
	setEffect  func(name string) error
	onErr      error
	offErr     error
	capture    func() (pattern.Pattern, error)
	pollErr    error
	effectList []string
}

func (f *fakeZoneService) Zone() int         { return 1 }
func (f *fakeZoneService) State() zone.State { return f.state }

func (f *fakeZoneService) SetEffect(_ context.Context, name string) error {
	if f.setEffect != nil {
		return f.setEffect(name)
	}
	return nil
}

func (f *fakeZoneService) On(context.Context) error  { return f.onErr }
func (f *fakeZoneService) Off(context.Context) error { return f.offErr }

func (f *fakeZoneService) Capture(context.Context) (pattern.Pattern, error) {
	if f.capture != nil {
		return f.capture()
	}
	return pattern.Pattern{}, nil
}

func (f *fakeZoneService) Poll(context.Context) error { return f.pollErr }
func (f *fakeZoneService) EffectNames() []string      { return f.effectList }

// newTestServer builds a server around a fake zone service.
func newTestServer(t *testing.T, svc ZoneService) (*Server, *pattern.Store) {
	t.Helper()

	cat, err := catalog.Load("")
	if err != nil {
		t.Fatalf("catalog.Load() error = %v", err)
	}
	store := pattern.NewStore()

	s, err := New(Deps{
		Logger:  logging.Default(),
		Zone:    svc,
		Store:   store,
		Catalog: cat,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s, store
}

// doRequest runs a request through the full router.
func doRequest(s *Server, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body) //nolint:errcheck // test fixture
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.buildRouter().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	s, _ := newTestServer(t, &fakeZoneService{})

	rec := doRequest(s, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["status"] != "ok" || body["version"] != "test" {
		t.Errorf("body = %v", body)
	}
}

func TestHandleGetZone(t *testing.T) {
	s, _ := newTestServer(t, &fakeZoneService{
		state: zone.State{Switch: zone.SwitchOn, CurrentPattern: "river", EffectName: "River Blue"},
	})

	rec := doRequest(s, http.MethodGet, "/api/v1/zone", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Zone  int        `json:"zone"`
		State zone.State `json:"state"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Zone != 1 || body.State.CurrentPattern != "river" {
		t.Errorf("body = %+v", body)
	}
}

func TestHandleSetEffect(t *testing.T) {
	var gotName string
	s, _ := newTestServer(t, &fakeZoneService{
		setEffect: func(name string) error {
			gotName = name
			return nil
		},
	})

	rec := doRequest(s, http.MethodPost, "/api/v1/zone/effect", setEffectRequest{Name: "River Blue"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202 (body %s)", rec.Code, rec.Body.String())
	}
	if gotName != "River Blue" {
		t.Errorf("effect name = %q, want River Blue", gotName)
	}
}

func TestHandleSetEffect_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		serviceErr error
		wantStatus int
	}{
		{name: "missing name", body: setEffectRequest{}, wantStatus: http.StatusBadRequest},
		{name: "not json", body: "nope", wantStatus: http.StatusBadRequest},
		{name: "unknown effect", body: setEffectRequest{Name: "x"}, serviceErr: zone.ErrUnknownEffect, wantStatus: http.StatusNotFound},
		{name: "controller down", body: setEffectRequest{Name: "x"}, serviceErr: controller.ErrUnreachable, wantStatus: http.StatusBadGateway},
		{name: "no ack", body: setEffectRequest{Name: "x"}, serviceErr: controller.ErrNoAck, wantStatus: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, &fakeZoneService{
				setEffect: func(string) error { return tt.serviceErr },
			})

			rec := doRequest(s, http.MethodPost, "/api/v1/zone/effect", tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestHandleSetPower(t *testing.T) {
	s, _ := newTestServer(t, &fakeZoneService{})

	rec := doRequest(s, http.MethodPost, "/api/v1/zone/power", setPowerRequest{On: false})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body) //nolint:errcheck // test fixture
	if body["on"] != false {
		t.Errorf("body = %v, want on=false", body)
	}
}

func TestHandleCapture(t *testing.T) {
	entry := pattern.Pattern{ID: "river_speed20", Name: "river_speed20"}
	s, _ := newTestServer(t, &fakeZoneService{
		capture: func() (pattern.Pattern, error) { return entry, nil },
	})

	rec := doRequest(s, http.MethodPost, "/api/v1/zone/capture", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var got pattern.Pattern
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.ID != entry.ID {
		t.Errorf("ID = %q, want %q", got.ID, entry.ID)
	}
}

func TestHandleCapture_Conflicts(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "device off", err: pattern.ErrDeviceOff},
		{name: "store full", err: pattern.ErrStoreFull},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t, &fakeZoneService{
				capture: func() (pattern.Pattern, error) { return pattern.Pattern{}, tt.err },
			})

			rec := doRequest(s, http.MethodPost, "/api/v1/zone/capture", nil)
			if rec.Code != http.StatusConflict {
				t.Errorf("status = %d, want 409", rec.Code)
			}
		})
	}
}

func TestHandleListEffects(t *testing.T) {
	s, _ := newTestServer(t, &fakeZoneService{
		effectList: []string{"my river", "River Blue"},
	})

	rec := doRequest(s, http.MethodGet, "/api/v1/effects", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Effects []string `json:"effects"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if len(body.Effects) != 2 || body.Effects[0] != "my river" {
		t.Errorf("effects = %v", body.Effects)
	}
}

func TestPatternLibraryEndpoints(t *testing.T) {
	s, store := newTestServer(t, &fakeZoneService{})

	on := true
	store.Capture(controller.ZoneStatus{Zone: 1, Pattern: "river", Speed: 20, IsOn: &on}) //nolint:errcheck // test fixture

	// List
	rec := doRequest(s, http.MethodGet, "/api/v1/patterns", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want 200", rec.Code)
	}
	var listBody struct {
		Patterns []pattern.Pattern `json:"patterns"`
		Capacity int               `json:"capacity"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listBody); err != nil {
		t.Fatalf("decoding list: %v", err)
	}
	if len(listBody.Patterns) != 1 || listBody.Capacity != pattern.Capacity {
		t.Errorf("list = %+v", listBody)
	}

	// Rename
	rec = doRequest(s, http.MethodPatch, "/api/v1/patterns/river_speed20", renamePatternRequest{Name: "lounge"})
	if rec.Code != http.StatusOK {
		t.Fatalf("rename status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	// Rename missing
	rec = doRequest(s, http.MethodPatch, "/api/v1/patterns/ghost", renamePatternRequest{Name: "x"})
	if rec.Code != http.StatusNotFound {
		t.Errorf("rename missing status = %d, want 404", rec.Code)
	}

	// Delete
	rec = doRequest(s, http.MethodDelete, "/api/v1/patterns/lounge", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", rec.Code)
	}
	if store.Len() != 0 {
		t.Errorf("store.Len() = %d, want 0 after delete", store.Len())
	}

	// Delete again
	rec = doRequest(s, http.MethodDelete, "/api/v1/patterns/lounge", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestNew_MissingDeps(t *testing.T) {
	cat, _ := catalog.Load("")

	tests := []struct {
		name string
		deps Deps
	}{
		{name: "no logger", deps: Deps{Zone: &fakeZoneService{}, Store: pattern.NewStore(), Catalog: cat}},
		{name: "no zone", deps: Deps{Logger: logging.Default(), Store: pattern.NewStore(), Catalog: cat}},
		{name: "no store", deps: Deps{Logger: logging.Default(), Zone: &fakeZoneService{}, Catalog: cat}},
		{name: "no catalog", deps: Deps{Logger: logging.Default(), Zone: &fakeZoneService{}, Store: pattern.NewStore()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.deps); err == nil {
				t.Error("New() error = nil, want missing dependency error")
			}
		})
	}
}
