// Package site defines the Site model and its flat field encoding.
package site

import (
	"encoding/json"
	"fmt"
	"io"
)

// Coordinate is a WGS84 position.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Site is a solar installation. Sites are compared by value; two Sites are
// equal when their ID and every attribute match.
type Site struct {
	ID         int64      `json:"id"`
	Capacity   float64    `json:"capacity"`
	Panels     int        `json:"panels"`
	Address    string     `json:"address"`
	City       string     `json:"city"`
	State      string     `json:"state"`
	PostalCode string     `json:"postal_code"`
	Coordinate Coordinate `json:"coordinate"`
}

// ReadJSON decodes a JSON array of sites, as found in sample data files.
// A single JSON object is accepted as a one-element list.
func ReadJSON(r io.Reader) ([]Site, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse sites: %w", err)
	}

	var sites []Site
	if err := json.Unmarshal(raw, &sites); err == nil {
		return sites, nil
	}

	var one Site
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("failed to parse sites: %w", err)
	}
	return []Site{one}, nil
}
