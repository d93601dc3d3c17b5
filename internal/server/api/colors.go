package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/ayusman/airdraw/internal/store"
)

// ColorHandler serves CRUD for the toolbar palette. Every change is pushed
// to the engine so the toolbar updates immediately.
type ColorHandler struct {
	store  *store.Store
	engine Engine
}

// NewColorHandler creates a ColorHandler. engine may be nil.
func NewColorHandler(s *store.Store, engine Engine) *ColorHandler {
	return &ColorHandler{store: s, engine: engine}
}

// ServeHTTP routes /api/colors and /api/colors/{id}.
func (h *ColorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/colors")
	id = strings.TrimPrefix(id, "/")

	if id == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// colorRequest uses pointers so a PUT can change single channels.
type colorRequest struct {
	Name     string `json:"name"`
	R        *int   `json:"r"`
	G        *int   `json:"g"`
	B        *int   `json:"b"`
	Position *int   `json:"position"`
}

type colorResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	R         uint8  `json:"r"`
	G         uint8  `json:"g"`
	B         uint8  `json:"b"`
	Position  int    `json:"position"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type listColorsResponse struct {
	Colors []colorResponse `json:"colors"`
}

func toColorResponse(c *store.Color) colorResponse {
	return colorResponse{
		ID:        c.ID,
		Name:      c.Name,
		R:         c.R,
		G:         c.G,
		B:         c.B,
		Position:  c.Position,
		CreatedAt: c.CreatedAt.Format(timeLayout),
		UpdatedAt: c.UpdatedAt.Format(timeLayout),
	}
}

// apply copies the request onto c, validating channel ranges.
func (req colorRequest) apply(c *store.Color) error {
	if req.Name != "" {
		c.Name = req.Name
	}
	channels := []struct {
		v   *int
		dst *uint8
	}{{req.R, &c.R}, {req.G, &c.G}, {req.B, &c.B}}
	for _, ch := range channels {
		if ch.v == nil {
			continue
		}
		if *ch.v < 0 || *ch.v > 255 {
			return errors.New("Channels must be between 0 and 255")
		}
		*ch.dst = uint8(*ch.v)
	}
	if req.Position != nil {
		c.Position = *req.Position
	}
	return nil
}

func (h *ColorHandler) reload() {
	if h.engine == nil {
		return
	}
	if err := h.engine.ReloadPalette(); err != nil {
		log.Printf("Failed to reload palette: %v", err)
	}
}

// list handles GET /api/colors.
func (h *ColorHandler) list(w http.ResponseWriter, r *http.Request) {
	colors, err := h.store.Colors().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list colors")
		return
	}

	response := listColorsResponse{Colors: make([]colorResponse, 0, len(colors))}
	for _, c := range colors {
		response.Colors = append(response.Colors, toColorResponse(c))
	}
	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/colors/{id}.
func (h *ColorHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	c, err := h.store.Colors().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Color not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get color")
		return
	}
	writeJSON(w, http.StatusOK, toColorResponse(c))
}

// create handles POST /api/colors. New colors go to the end of the toolbar
// unless a position is given.
func (h *ColorHandler) create(w http.ResponseWriter, r *http.Request) {
	var req colorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}

	n, err := h.store.Colors().Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create color")
		return
	}
	c := &store.Color{Position: n}
	if err := req.apply(c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Colors().Create(c); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			writeError(w, http.StatusConflict, "Color name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to create color")
		return
	}

	h.reload()
	writeJSON(w, http.StatusCreated, toColorResponse(c))
}

// update handles PUT /api/colors/{id}.
func (h *ColorHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	c, err := h.store.Colors().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Color not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get color")
		return
	}

	var req colorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := req.apply(c); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.store.Colors().Update(c); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			writeError(w, http.StatusConflict, "Color name already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update color")
		return
	}

	h.reload()
	writeJSON(w, http.StatusOK, toColorResponse(c))
}

// delete handles DELETE /api/colors/{id}. The last color cannot be removed.
func (h *ColorHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	n, err := h.store.Colors().Count()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete color")
		return
	}
	if n <= 1 {
		if _, err := h.store.Colors().GetByID(id); err == nil {
			writeError(w, http.StatusConflict, "Palette needs at least one color")
			return
		}
	}

	if err := h.store.Colors().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Color not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete color")
		return
	}

	h.reload()
	w.WriteHeader(http.StatusNoContent)
}
