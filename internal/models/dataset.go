package models

import (
	"errors"
	"fmt"
)

// ErrInvalidDataset is wrapped by every Validate failure
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset is the static snapshot the catalog is built from
type Dataset struct {
	Ships             []Ship             `json:"ships"`
	Outfits           []Outfit           `json:"outfits"`
	ShipModifications []ShipModification `json:"shipModifications"`
}

// Validate checks name uniqueness within each collection and that every
// modification refers to a known ship.
func (d *Dataset) Validate() error {
	ships := make(map[string]struct{}, len(d.Ships))
	for _, s := range d.Ships {
		if s.Name == "" {
			return fmt.Errorf("%w: ship without a name", ErrInvalidDataset)
		}
		if _, dup := ships[s.Name]; dup {
			return fmt.Errorf("%w: duplicate ship %q", ErrInvalidDataset, s.Name)
		}
		ships[s.Name] = struct{}{}
	}

	outfits := make(map[string]struct{}, len(d.Outfits))
	for _, o := range d.Outfits {
		if o.Name == "" {
			return fmt.Errorf("%w: outfit without a name", ErrInvalidDataset)
		}
		if _, dup := outfits[o.Name]; dup {
			return fmt.Errorf("%w: duplicate outfit %q", ErrInvalidDataset, o.Name)
		}
		outfits[o.Name] = struct{}{}
	}

	mods := make(map[[2]string]struct{}, len(d.ShipModifications))
	for _, m := range d.ShipModifications {
		if _, ok := ships[m.Original]; !ok {
			return fmt.Errorf("%w: modification %q of unknown ship %q", ErrInvalidDataset, m.Name, m.Original)
		}
		key := [2]string{m.Original, m.Name}
		if _, dup := mods[key]; dup {
			return fmt.Errorf("%w: duplicate modification %q of %q", ErrInvalidDataset, m.Name, m.Original)
		}
		mods[key] = struct{}{}
	}
	return nil
}
