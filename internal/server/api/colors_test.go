package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestColorHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewColorHandler(s, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/colors", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %s", ct)
	}

	var response listColorsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Colors) != 3 {
		t.Fatalf("expected 3 seeded colors, got %d", len(response.Colors))
	}
	if response.Colors[0].Name != "BLUE" || response.Colors[0].B != 255 {
		t.Errorf("unexpected first color: %+v", response.Colors[0])
	}
}

func TestColorHandler_Create(t *testing.T) {
	s := newTestStore(t)
	engine := newFakeEngine(s)
	handler := NewColorHandler(s, engine)

	t.Run("creates and reloads palette", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/colors", body(`{"name":"yellow","r":255,"g":255}`))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
		}

		var c colorResponse
		if err := json.NewDecoder(rec.Body).Decode(&c); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if c.ID == "" || c.Name != "YELLOW" || c.Position != 3 {
			t.Errorf("unexpected color: %+v", c)
		}
		if engine.reloads != 1 {
			t.Errorf("expected 1 palette reload, got %d", engine.reloads)
		}
		if p := engine.Snapshot().Palette; len(p) != 4 || p[3].Name != "YELLOW" {
			t.Errorf("engine palette not updated: %+v", p)
		}
	})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"missing name", `{"r":1}`, http.StatusBadRequest},
		{"channel out of range", `{"name":"x","r":256}`, http.StatusBadRequest},
		{"duplicate", `{"name":"Red","r":200}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/colors", body(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestColorHandler_GetUpdateDelete(t *testing.T) {
	s := newTestStore(t)
	handler := NewColorHandler(s, newFakeEngine(s))

	red, err := s.Colors().GetByName("RED")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	path := "/api/colors/" + red.ID

	t.Run("get", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
	})

	t.Run("partial update", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, body(`{"g":64}`)))
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		var c colorResponse
		json.NewDecoder(rec.Body).Decode(&c)
		if c.Name != "RED" || c.R != 255 || c.G != 64 {
			t.Errorf("unexpected color after update: %+v", c)
		}
	})

	t.Run("delete", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, path, nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
		}

		rec = httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusNotFound {
			t.Errorf("expected status %d after delete, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(method, "/api/colors/missing", body(`{}`)))
			if rec.Code != http.StatusNotFound {
				t.Errorf("%s: expected status %d, got %d", method, http.StatusNotFound, rec.Code)
			}
		}
	})
}

func TestColorHandler_KeepsLastColor(t *testing.T) {
	s := newTestStore(t)
	handler := NewColorHandler(s, nil)

	colors, err := s.Colors().List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, c := range colors[1:] {
		if err := s.Colors().Delete(c.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/colors/"+colors[0].ID, nil))
	if rec.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rec.Code)
	}
}

func TestColorHandler_MethodNotAllowed(t *testing.T) {
	handler := NewColorHandler(newTestStore(t), nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/api/colors", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
