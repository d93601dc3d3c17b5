package store

import (
	"errors"
	"testing"
)

func TestSettingRepository_SetGet(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if _, err := repo.Get(SettingColor); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unset key, got %v", err)
	}

	if err := repo.Set(SettingColor, "RED"); err != nil {
		t.Fatalf("set: %v", err)
	}
	st, err := repo.Get(SettingColor)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.Value != "RED" {
		t.Errorf("value = %q, want RED", st.Value)
	}

	// Overwrite.
	if err := repo.Set(SettingColor, "BLUE"); err != nil {
		t.Fatalf("set: %v", err)
	}
	st, err = repo.Get(SettingColor)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if st.Value != "BLUE" {
		t.Errorf("value = %q, want BLUE", st.Value)
	}
}

func TestSettingRepository_Value(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	v, err := repo.Value(SettingKind, "STROKE")
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != "STROKE" {
		t.Errorf("expected default, got %q", v)
	}

	if err := repo.Set(SettingKind, "CIRCLE"); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, err = repo.Value(SettingKind, "STROKE")
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != "CIRCLE" {
		t.Errorf("expected CIRCLE, got %q", v)
	}
}

func TestSettingRepository_SetManyAndAll(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	err := repo.SetMany(map[string]string{
		SettingColor:    "GREEN",
		SettingKind:     "RECTANGLE",
		SettingBlackout: "true",
	})
	if err != nil {
		t.Fatalf("set many: %v", err)
	}

	all, err := repo.All()
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 settings, got %d", len(all))
	}
	if all[SettingKind] != "RECTANGLE" || all[SettingBlackout] != "true" {
		t.Errorf("unexpected settings: %v", all)
	}
}

func TestSettingRepository_Delete(t *testing.T) {
	s := newTestStore(t)
	repo := s.Settings()

	if err := repo.Set("custom", "1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Delete("custom"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.Delete("custom"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
