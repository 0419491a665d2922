package models

// Outfit represents an installable outfit.
// Pointer attributes are absent for outfits that do not provide them;
// presence is what places an outfit in a category table.
type Outfit struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Cost        float64  `json:"cost"`
	Mass        float64  `json:"mass,omitempty"`
	OutfitSpace float64  `json:"outfitSpace"`
	Licenses    []string `json:"licenses,omitempty"`

	Cooling          *float64 `json:"cooling,omitempty"`
	ActiveCooling    *float64 `json:"activeCooling,omitempty"`
	CoolingEnergy    *float64 `json:"coolingEnergy,omitempty"`
	EnergyGeneration *float64 `json:"energyGeneration,omitempty"`
	EnergyCapacity   *float64 `json:"energyCapacity,omitempty"`
}

func (o Outfit) EntityName() string { return o.Name }
func (Outfit) entity()              {}

// Float returns the attribute value, or 0 when absent
func Float(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
