// Package catalog binds the ship and outfit entities to the generic table
// engine: row projections, the concrete column sets, slugs and lookups.
package catalog

import (
	"github.com/meur/skyatlas/internal/models"
)

// Row is a projected, display-ready record. Cells returns typed values
// (float64, string, []string or CrewBunks) in column order; formatting is
// left to the renderer.
type Row interface {
	Cells() []interface{}
}

// CrewBunks is the combined crew / bunks cell. It renders empty when no crew is required.
type CrewBunks struct {
	Crew  float64 `json:"crew"`
	Bunks float64 `json:"bunks"`
}

// ShipRow is a ship projected for the ships table
type ShipRow struct {
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Race           string    `json:"race"`
	Cost           float64   `json:"cost"`
	Category       string    `json:"category"`
	Hull           float64   `json:"hull"`
	Shields        float64   `json:"shields"`
	Mass           float64   `json:"mass"`
	EngineCapacity float64   `json:"engineCapacity"`
	WeaponCapacity float64   `json:"weaponCapacity"`
	FuelCapacity   float64   `json:"fuelCapacity"`
	OutfitSpace    float64   `json:"outfitSpace"`
	CargoSpace     float64   `json:"cargoSpace"`
	CrewBunks      CrewBunks `json:"crewBunks"`
	Licenses       []string  `json:"licenses"`
}

func (r ShipRow) Cells() []interface{} {
	return []interface{}{
		r.Name, r.Race, r.Cost, r.Category, r.Hull, r.Shields, r.Mass,
		r.EngineCapacity, r.WeaponCapacity, r.FuelCapacity, r.OutfitSpace,
		r.CargoSpace, r.CrewBunks, r.Licenses,
	}
}

// ProjectShip derives the ships table row
func ProjectShip(s models.Ship) Row {
	return ShipRow{
		Name:           s.Name,
		Slug:           Slug(s.Name),
		Race:           s.Race,
		Cost:           s.Cost,
		Category:       s.Category,
		Hull:           s.Hull,
		Shields:        s.Shields,
		Mass:           s.Mass,
		EngineCapacity: s.EngineCapacity,
		WeaponCapacity: s.WeaponCapacity,
		FuelCapacity:   s.FuelCapacity,
		OutfitSpace:    s.OutfitSpace,
		CargoSpace:     s.CargoSpace,
		CrewBunks:      CrewBunks{Crew: s.RequiredCrew, Bunks: s.Bunks},
		Licenses:       licenses(s.Licenses),
	}
}

// OutfitRow is an outfit projected for the general outfits table
type OutfitRow struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Category    string   `json:"category"`
	Cost        float64  `json:"cost"`
	Mass        float64  `json:"mass"`
	OutfitSpace float64  `json:"outfitSpace"`
	Licenses    []string `json:"licenses"`
}

func (r OutfitRow) Cells() []interface{} {
	return []interface{}{r.Name, r.Category, r.Cost, r.Mass, r.OutfitSpace, r.Licenses}
}

func ProjectOutfit(o models.Outfit) Row {
	return OutfitRow{
		Name:        o.Name,
		Slug:        Slug(o.Name),
		Category:    o.Category,
		Cost:        o.Cost,
		Mass:        o.Mass,
		OutfitSpace: o.OutfitSpace,
		Licenses:    licenses(o.Licenses),
	}
}

// CoolerRow is an outfit projected for the coolers table
type CoolerRow struct {
	Name            string   `json:"name"`
	Slug            string   `json:"slug"`
	Cost            float64  `json:"cost"`
	OutfitSpace     float64  `json:"outfitSpace"`
	Cooling         float64  `json:"cooling"`
	CoolingPerSpace float64  `json:"coolingPerSpace"`
	CoolingEnergy   float64  `json:"coolingEnergy"`
	Licenses        []string `json:"licenses"`
}

func (r CoolerRow) Cells() []interface{} {
	return []interface{}{r.Name, r.Cost, r.OutfitSpace, r.Cooling, r.CoolingPerSpace, r.CoolingEnergy, r.Licenses}
}

func ProjectCooler(o models.Outfit) Row {
	return CoolerRow{
		Name:            o.Name,
		Slug:            Slug(o.Name),
		Cost:            o.Cost,
		OutfitSpace:     o.OutfitSpace,
		Cooling:         TotalCooling(o),
		CoolingPerSpace: CoolingPerSpace(o),
		CoolingEnergy:   models.Float(o.CoolingEnergy),
		Licenses:        licenses(o.Licenses),
	}
}

// EnergyRow serves both the generators and the batteries tables
type EnergyRow struct {
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Cost        float64  `json:"cost"`
	OutfitSpace float64  `json:"outfitSpace"`
	Energy      float64  `json:"energy"`
	PerSpace    float64  `json:"perSpace"`
	Licenses    []string `json:"licenses"`
}

func (r EnergyRow) Cells() []interface{} {
	return []interface{}{r.Name, r.Cost, r.OutfitSpace, r.Energy, r.PerSpace, r.Licenses}
}

func ProjectGenerator(o models.Outfit) Row {
	return energyRow(o, models.Float(o.EnergyGeneration))
}

func ProjectBattery(o models.Outfit) Row {
	return energyRow(o, models.Float(o.EnergyCapacity))
}

func energyRow(o models.Outfit, energy float64) EnergyRow {
	return EnergyRow{
		Name:        o.Name,
		Slug:        Slug(o.Name),
		Cost:        o.Cost,
		OutfitSpace: o.OutfitSpace,
		Energy:      energy,
		PerSpace:    PerSpace(energy, o.OutfitSpace),
		Licenses:    licenses(o.Licenses),
	}
}

// TotalCooling is passive plus active cooling, absent values counting as 0
func TotalCooling(o models.Outfit) float64 {
	return models.Float(o.Cooling) + models.Float(o.ActiveCooling)
}

// CoolingPerSpace is total cooling per unit of outfit space
func CoolingPerSpace(o models.Outfit) float64 {
	return PerSpace(TotalCooling(o), o.OutfitSpace)
}

// EnergyGenerationPerSpace is generated energy per unit of outfit space
func EnergyGenerationPerSpace(o models.Outfit) float64 {
	return PerSpace(models.Float(o.EnergyGeneration), o.OutfitSpace)
}

// EnergyCapacityPerSpace is stored energy per unit of outfit space
func EnergyCapacityPerSpace(o models.Outfit) float64 {
	return PerSpace(models.Float(o.EnergyCapacity), o.OutfitSpace)
}

// PerSpace divides value by space. Zero space yields 0.
func PerSpace(value, space float64) float64 {
	if space == 0 {
		return 0
	}
	return value / space
}

func licenses(l []string) []string {
	if l == nil {
		return []string{}
	}
	return l
}
