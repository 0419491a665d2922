package models

import (
	"encoding/json"
	"fmt"
)

// Entity is a ship or an outfit from the dataset snapshot.
// Names are unique within their collection and serve as identity.
type Entity interface {
	EntityName() string
	entity()
}

// Ship represents a hull as exported in the snapshot
type Ship struct {
	Name           string   `json:"name"`
	Race           string   `json:"race"`
	Category       string   `json:"category"`
	Cost           float64  `json:"cost"`
	Hull           float64  `json:"hull"`
	Shields        float64  `json:"shields"`
	Mass           float64  `json:"mass"`
	EngineCapacity float64  `json:"engineCapacity"`
	WeaponCapacity float64  `json:"weaponCapacity"`
	FuelCapacity   float64  `json:"fuelCapacity"`
	OutfitSpace    float64  `json:"outfitSpace"`
	CargoSpace     float64  `json:"cargoSpace"`
	Licenses       []string `json:"licenses"`

	// The exporter omits these when they are zero.
	RequiredCrew float64 `json:"requiredCrew,omitempty"`
	Bunks        float64 `json:"bunks,omitempty"`
	Guns         float64 `json:"guns,omitempty"`
	Turrets      float64 `json:"turrets,omitempty"`
	Drones       float64 `json:"drones,omitempty"`
	Fighters     float64 `json:"fighters,omitempty"`

	// SelfDestruct is a probability in [0, 1], nil when the ship has none.
	SelfDestruct *float64 `json:"selfDestruct,omitempty"`

	Sprite      Sprite       `json:"sprite"`
	Description []string     `json:"description"`
	Outfits     []OutfitItem `json:"outfits"`
}

func (s Ship) EntityName() string { return s.Name }
func (Ship) entity()              {}

// OutfitItem is an installed outfit with its quantity
type OutfitItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Sprite is encoded as a two element array: [path, animated].
type Sprite struct {
	Path     string
	Animated bool
}

func (s Sprite) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{s.Path, s.Animated})
}

func (s *Sprite) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("sprite: %w", err)
	}
	*s = Sprite{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw[0], &s.Path); err != nil {
			return fmt.Errorf("sprite path: %w", err)
		}
	}
	if len(raw) > 1 {
		// the exporter writes either a bool or a frame count here
		var animated interface{}
		if err := json.Unmarshal(raw[1], &animated); err != nil {
			return fmt.Errorf("sprite animation: %w", err)
		}
		switch v := animated.(type) {
		case bool:
			s.Animated = v
		case float64:
			s.Animated = v != 0
		}
	}
	return nil
}

// ShipModification is a named variant of a ship with a different default loadout
type ShipModification struct {
	Original string       `json:"original"`
	Name     string       `json:"name"`
	Outfits  []OutfitItem `json:"outfits"`
}
