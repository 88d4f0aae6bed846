package pattern

import (
	"errors"
	"fmt"
	"testing"

	"github.com/strandworks/strand-core/internal/controller"
)

func runningRecord(patternType string) controller.ZoneStatus {
	on := true
	return controller.ZoneStatus{
		Zone:    1,
		Pattern: patternType,
		IsOn:    &on,
	}
}

func TestIdentityFor(t *testing.T) {
	tests := []struct {
		name string
		rec  controller.ZoneStatus
		want string
	}{
		{
			name: "bare pattern",
			rec:  controller.ZoneStatus{Pattern: "glow"},
			want: "glow",
		},
		{
			name: "default direction F suppressed",
			rec:  controller.ZoneStatus{Pattern: "glow", Direction: "F"},
			want: "glow",
		},
		{
			name: "default direction 0 suppressed",
			rec:  controller.ZoneStatus{Pattern: "glow", Direction: "0"},
			want: "glow",
		},
		{
			name: "single colour suppressed",
			rec:  controller.ZoneStatus{Pattern: "glow", NumberOfColors: 1},
			want: "glow",
		},
		{
			name: "all descriptors",
			rec:  controller.ZoneStatus{Pattern: "river", Direction: "R", Speed: 20, NumberOfColors: 4},
			want: "river_dir R_speed20_4colors",
		},
		{
			name: "speed only",
			rec:  controller.ZoneStatus{Pattern: "twinkle", Speed: 15},
			want: "twinkle_speed15",
		},
		{
			name: "colours only",
			rec:  controller.ZoneStatus{Pattern: "fade", NumberOfColors: 3},
			want: "fade_3colors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IdentityFor(tt.rec); got != tt.want {
				t.Errorf("IdentityFor() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIdentityFor_Deterministic(t *testing.T) {
	rec := controller.ZoneStatus{Pattern: "river", Direction: "R", Speed: 20, NumberOfColors: 4}
	first := IdentityFor(rec)
	for i := 0; i < 10; i++ {
		if got := IdentityFor(rec); got != first {
			t.Fatalf("IdentityFor() = %q on iteration %d, want %q", got, i, first)
		}
	}
}

func TestStore_Capture(t *testing.T) {
	s := NewStore()

	entry, err := s.Capture(runningRecord("river"))
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if entry.ID != "river" || entry.Name != "river" {
		t.Errorf("entry = %+v, want id and name river", entry)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestStore_Capture_DeviceOff(t *testing.T) {
	s := NewStore()

	_, err := s.Capture(controller.ZoneStatus{Pattern: "off"})
	if !errors.Is(err, ErrDeviceOff) {
		t.Errorf("Capture() error = %v, want ErrDeviceOff", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestStore_Capture_Idempotent(t *testing.T) {
	s := NewStore()

	rec := runningRecord("river")
	rec.Speed = 20
	if _, err := s.Capture(rec); err != nil {
		t.Fatalf("first Capture() error = %v", err)
	}

	// Same identity, different opaque timing: refresh, don't duplicate.
	rec.Gap = 7
	entry, err := s.Capture(rec)
	if err != nil {
		t.Fatalf("second Capture() error = %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (dedupe)", s.Len())
	}
	if entry.Params.Gap != 7 {
		t.Errorf("Params.Gap = %d, want 7 (refreshed)", entry.Params.Gap)
	}
}

func TestStore_Capture_PreservesNameAcrossRecapture(t *testing.T) {
	s := NewStore()

	rec := runningRecord("river")
	if _, err := s.Capture(rec); err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if err := s.Rename("river", "lounge blue"); err != nil {
		t.Fatalf("Rename() error = %v", err)
	}

	entry, err := s.Capture(rec)
	if err != nil {
		t.Fatalf("recapture error = %v", err)
	}
	if entry.Name != "lounge blue" {
		t.Errorf("Name = %q, want %q preserved", entry.Name, "lounge blue")
	}
	if entry.ID != "river" {
		t.Errorf("ID = %q, want river unchanged", entry.ID)
	}
}

func TestStore_Capture_Full(t *testing.T) {
	s := NewStore()

	for i := 0; i < Capacity; i++ {
		if _, err := s.Capture(runningRecord(fmt.Sprintf("show%d", i))); err != nil {
			t.Fatalf("Capture(%d) error = %v", i, err)
		}
	}

	_, err := s.Capture(runningRecord("overflow"))
	if !errors.Is(err, ErrStoreFull) {
		t.Fatalf("21st Capture() error = %v, want ErrStoreFull", err)
	}

	// Recapturing an existing identity still works at capacity.
	if _, err := s.Capture(runningRecord("show0")); err != nil {
		t.Errorf("recapture at capacity error = %v", err)
	}

	// Freeing a slot makes the rejected capture possible.
	if err := s.Delete("show5"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := s.Capture(runningRecord("overflow")); err != nil {
		t.Errorf("Capture() after delete error = %v", err)
	}
	if s.Len() != Capacity {
		t.Errorf("Len() = %d, want %d", s.Len(), Capacity)
	}
}

func TestStore_Rename(t *testing.T) {
	s := NewStore()
	s.Capture(runningRecord("river"))
	s.Capture(runningRecord("twinkle"))

	tests := []struct {
		name    string
		from    string
		to      string
		wantErr error
	}{
		{name: "ok", from: "river", to: "hallway"},
		{name: "missing", from: "nope", to: "x", wantErr: ErrNotFound},
		{name: "taken", from: "twinkle", to: "hallway", wantErr: ErrNameTaken},
		{name: "noop same name", from: "twinkle", to: "twinkle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Rename(tt.from, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Rename(%q, %q) error = %v, want %v", tt.from, tt.to, err, tt.wantErr)
			}
		})
	}

	if _, ok := s.Resolve("hallway"); !ok {
		t.Error("renamed entry not resolvable by new name")
	}
	if _, ok := s.Resolve("river"); ok {
		t.Error("renamed entry still resolvable by old name")
	}
}

func TestStore_Delete_Compacts(t *testing.T) {
	s := NewStore()
	s.Capture(runningRecord("a"))
	s.Capture(runningRecord("b"))
	s.Capture(runningRecord("c"))

	if err := s.Delete("b"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	names := s.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "c" {
		t.Errorf("Names() = %v, want [a c] in capture order", names)
	}

	if err := s.Delete("b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestStore_FindByType(t *testing.T) {
	s := NewStore()
	rec := runningRecord("river")
	rec.Speed = 20
	s.Capture(rec)
	s.Rename("river_speed20", "my river")

	entry, ok := s.FindByType("river")
	if !ok {
		t.Fatal("FindByType(river) not found")
	}
	if entry.Name != "my river" {
		t.Errorf("Name = %q, want %q", entry.Name, "my river")
	}

	if _, ok := s.FindByType("ghost"); ok {
		t.Error("FindByType(ghost) found, want miss")
	}
}

func TestStore_List_ReturnsCopies(t *testing.T) {
	s := NewStore()
	s.Capture(runningRecord("river"))

	list := s.List()
	list[0].Name = "mutated"

	if entry, _ := s.Resolve("river"); entry.Name != "river" {
		t.Error("List() exposes internal state")
	}
}
