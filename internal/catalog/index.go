package catalog

import (
	"errors"
	"fmt"

	"github.com/meur/skyatlas/internal/models"
)

// ErrNotFound is returned for slugs that match nothing
var ErrNotFound = errors.New("not found")

// Index answers slug lookups over a loaded dataset
type Index struct {
	data          *models.Dataset
	spriteBase    string
	shipsBySlug   map[string]int
	outfitsBySlug map[string]int
	modifications map[string][]models.ShipModification
}

// NewIndex builds the slug maps. When two names share a slug the first one wins.
func NewIndex(d *models.Dataset, spriteBase string) *Index {
	idx := &Index{
		data:          d,
		spriteBase:    spriteBase,
		shipsBySlug:   make(map[string]int, len(d.Ships)),
		outfitsBySlug: make(map[string]int, len(d.Outfits)),
		modifications: make(map[string][]models.ShipModification),
	}
	for i, s := range d.Ships {
		slug := Slug(s.Name)
		if _, taken := idx.shipsBySlug[slug]; !taken {
			idx.shipsBySlug[slug] = i
		}
	}
	for i, o := range d.Outfits {
		slug := Slug(o.Name)
		if _, taken := idx.outfitsBySlug[slug]; !taken {
			idx.outfitsBySlug[slug] = i
		}
	}
	for _, m := range d.ShipModifications {
		idx.modifications[m.Original] = append(idx.modifications[m.Original], m)
	}
	return idx
}

// Dataset returns the indexed snapshot
func (idx *Index) Dataset() *models.Dataset {
	return idx.data
}

// Ship looks a ship up by slug
func (idx *Index) Ship(slug string) (models.Ship, error) {
	i, ok := idx.shipsBySlug[slug]
	if !ok {
		return models.Ship{}, fmt.Errorf("ship %q: %w", slug, ErrNotFound)
	}
	return idx.data.Ships[i], nil
}

// Outfit looks an outfit up by slug
func (idx *Index) Outfit(slug string) (models.Outfit, error) {
	i, ok := idx.outfitsBySlug[slug]
	if !ok {
		return models.Outfit{}, fmt.Errorf("outfit %q: %w", slug, ErrNotFound)
	}
	return idx.data.Outfits[i], nil
}

// Modifications returns the variants of a ship in dataset order
func (idx *Index) Modifications(shipName string) []models.ShipModification {
	return idx.modifications[shipName]
}

// ModificationLink is one entry of a ship page's variant navigation
type ModificationLink struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Path string `json:"path"`
}

// ShipPage is everything the ship detail view shows
type ShipPage struct {
	Ship          models.Ship         `json:"ship"`
	Slug          string              `json:"slug"`
	ImageURL      string              `json:"imageUrl"`
	Modifications []ModificationLink  `json:"modifications"`
	Selected      string              `json:"selected"`
	Outfits       []models.OutfitItem `json:"outfits"`
}

// ShipPage resolves a ship and, when modSlug is not empty, one of its modifications.
// The outfit list is the modification's loadout if one is selected.
func (idx *Index) ShipPage(shipSlug, modSlug string) (*ShipPage, error) {
	ship, err := idx.Ship(shipSlug)
	if err != nil {
		return nil, err
	}

	slug := Slug(ship.Name)
	page := &ShipPage{
		Ship:     ship,
		Slug:     slug,
		ImageURL: ImageURL(idx.spriteBase, ship),
		Selected: slug,
		Outfits:  ship.Outfits,
	}

	var selected *models.ShipModification
	mods := idx.Modifications(ship.Name)
	page.Modifications = make([]ModificationLink, 0, len(mods))
	for i, m := range mods {
		ms := Slug(m.Name)
		page.Modifications = append(page.Modifications, ModificationLink{
			Name: m.Name,
			Slug: ms,
			Path: "/ships/" + slug + "/" + ms,
		})
		if modSlug != "" && ms == modSlug && selected == nil {
			selected = &mods[i]
		}
	}

	if modSlug != "" {
		if selected == nil {
			return nil, fmt.Errorf("modification %q of %s: %w", modSlug, ship.Name, ErrNotFound)
		}
		page.Selected = modSlug
		page.Outfits = selected.Outfits
	}
	if page.Outfits == nil {
		page.Outfits = []models.OutfitItem{}
	}
	return page, nil
}
