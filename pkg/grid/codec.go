package grid

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
)

// Marshal serializes a grid to indented JSON.
func Marshal(g *Grid) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}

// Unmarshal deserializes JSON into a grid and checks that its cells tile
// the rectangle.
func Unmarshal(data []byte) (*Grid, error) {
	var g Grid
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("unmarshal grid: %w", err)
	}
	if _, err := g.Occupancy(); err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}
	return &g, nil
}

// WriteFile writes a grid to a JSON file.
func WriteFile(g *Grid, path string) error {
	data, err := Marshal(g)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a grid from a JSON file.
func ReadFile(path string) (*Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Unmarshal(data)
}
