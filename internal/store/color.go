package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayusman/airdraw/internal/canvas"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateName is returned when a color name is already taken.
var ErrDuplicateName = errors.New("duplicate name")

// Color is a palette entry stored in the database.
type Color struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	R         uint8     `json:"r"`
	G         uint8     `json:"g"`
	B         uint8     `json:"b"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Canvas converts the entry to the engine's color type.
func (c *Color) Canvas() canvas.Color {
	return canvas.Color{Name: c.Name, R: c.R, G: c.G, B: c.B}
}

// ColorRepository provides CRUD operations for palette colors.
type ColorRepository struct {
	db *sql.DB
}

// Colors returns the color repository for this store.
func (s *Store) Colors() *ColorRepository {
	return &ColorRepository{db: s.db}
}

// Create inserts a new color. An empty ID is filled with a fresh UUID. Names
// are stored upper-case.
func (r *ColorRepository) Create(c *Color) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	c.Name = strings.ToUpper(strings.TrimSpace(c.Name))
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.Exec(
		`INSERT INTO colors (id, name, r, g, b, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, c.R, c.G, c.B, c.Position, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return wrapConstraint(err)
	}

	return nil
}

// GetByID retrieves a color by its ID.
func (r *ColorRepository) GetByID(id string) (*Color, error) {
	return r.getOne(`SELECT id, name, r, g, b, position, created_at, updated_at
		 FROM colors WHERE id = ?`, id)
}

// GetByName retrieves a color by its name, ignoring case.
func (r *ColorRepository) GetByName(name string) (*Color, error) {
	return r.getOne(`SELECT id, name, r, g, b, position, created_at, updated_at
		 FROM colors WHERE name = ?`, strings.TrimSpace(name))
}

func (r *ColorRepository) getOne(query string, arg any) (*Color, error) {
	c := &Color{}
	err := r.db.QueryRow(query, arg).
		Scan(&c.ID, &c.Name, &c.R, &c.G, &c.B, &c.Position, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// List retrieves all colors in toolbar order.
func (r *ColorRepository) List() ([]*Color, error) {
	rows, err := r.db.Query(
		`SELECT id, name, r, g, b, position, created_at, updated_at
		 FROM colors ORDER BY position, created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var colors []*Color
	for rows.Next() {
		c := &Color{}
		if err := rows.Scan(&c.ID, &c.Name, &c.R, &c.G, &c.B, &c.Position, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		colors = append(colors, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return colors, nil
}

// Palette returns the stored colors in toolbar order as engine colors.
func (r *ColorRepository) Palette() ([]canvas.Color, error) {
	colors, err := r.List()
	if err != nil {
		return nil, err
	}
	palette := make([]canvas.Color, len(colors))
	for i, c := range colors {
		palette[i] = c.Canvas()
	}
	return palette, nil
}

// Update updates an existing color.
func (r *ColorRepository) Update(c *Color) error {
	c.Name = strings.ToUpper(strings.TrimSpace(c.Name))
	c.UpdatedAt = time.Now()

	result, err := r.db.Exec(
		`UPDATE colors SET name = ?, r = ?, g = ?, b = ?, position = ?, updated_at = ?
		 WHERE id = ?`,
		c.Name, c.R, c.G, c.B, c.Position, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return wrapConstraint(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a color by its ID.
func (r *ColorRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM colors WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Count returns the number of stored colors.
func (r *ColorRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM colors`).Scan(&n)
	return n, err
}

// seed stores palette, or canvas.DefaultPalette when it is empty, into an
// empty table.
func (r *ColorRepository) seed(palette []canvas.Color) error {
	n, err := r.Count()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	if len(palette) == 0 {
		palette = canvas.DefaultPalette()
	}
	for i, c := range palette {
		if err := r.Create(&Color{Name: c.Name, R: c.R, G: c.G, B: c.B, Position: i}); err != nil {
			return fmt.Errorf("seed %s: %w", c.Name, err)
		}
	}
	return nil
}

func wrapConstraint(err error) error {
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", ErrDuplicateName, err)
	}
	return err
}
