package catalog

import (
	"github.com/meur/skyatlas/internal/models"
	"github.com/meur/skyatlas/internal/table"
)

// Table IDs
const (
	ShipsTable      = "ships"
	OutfitsTable    = "outfits"
	CoolersTable    = "coolers"
	GeneratorsTable = "generators"
	BatteriesTable  = "batteries"
)

// Listing is a table over the dataset, independent of its entity type
type Listing interface {
	ID() string
	Title() string
	Labels() []string
	Filterable() bool
	List(d *models.Dataset, filter *table.FilterState, ordering table.Ordering) Result
}

// Result is one rendering of a table: headings, the ordering they reflect and the rows
type Result struct {
	Table    string         `json:"table"`
	Title    string         `json:"title"`
	Headers  []table.Header `json:"headers"`
	Ordering table.Ordering `json:"ordering"`
	Rows     []Row          `json:"rows"`
	Total    int            `json:"total"`
	Shown    int            `json:"shown"`
}

// Table binds a column set to an entity collection.
// Selects narrows the collection to the table's category, Classify
// (when set) lets a FilterState apply.
type Table[T models.Entity] struct {
	id       string
	title    string
	Columns  table.Columns[T]
	Source   func(*models.Dataset) []T
	Selects  func(T) bool
	Classify table.Classifier[T]
	Project  func(T) Row
}

func (t *Table[T]) ID() string       { return t.id }
func (t *Table[T]) Title() string    { return t.title }
func (t *Table[T]) Labels() []string { return t.Columns.Labels() }
func (t *Table[T]) Filterable() bool { return t.Classify != nil }

// Arrange selects, filters and sorts the table's entities
func (t *Table[T]) Arrange(entities []T, filter *table.FilterState, ordering table.Ordering) (rows []T, total int) {
	selected := table.Filter(entities, t.Selects)
	var keep func(T) bool
	if filter != nil && t.Classify != nil {
		keep = table.Predicate(filter, t.Classify)
	}
	return table.Arrange(selected, keep, t.Columns, ordering), len(selected)
}

func (t *Table[T]) List(d *models.Dataset, filter *table.FilterState, ordering table.Ordering) Result {
	entities, total := t.Arrange(t.Source(d), filter, ordering)
	rows := make([]Row, len(entities))
	for i, e := range entities {
		rows[i] = t.Project(e)
	}
	return Result{
		Table:    t.id,
		Title:    t.title,
		Headers:  table.Headers(t.Columns, ordering),
		Ordering: ordering,
		Rows:     rows,
		Total:    total,
		Shown:    len(rows),
	}
}

func number[T any](f func(T) float64) table.Accessor[T] {
	return func(v T) table.Value { return table.Number(f(v)) }
}

func name[T models.Entity](v T) table.Value {
	return table.Text(v.EntityName())
}

// ClassifyShip exposes race, category and licenses to the ship filter
func ClassifyShip(s models.Ship, d table.Dimension) []string {
	switch d {
	case table.Race:
		return []string{s.Race}
	case table.Category:
		return []string{s.Category}
	case table.License:
		return s.Licenses
	}
	return nil
}

// Ships lists every ship
var Ships = &Table[models.Ship]{
	id:    ShipsTable,
	title: "Ships",
	Columns: table.Columns[models.Ship]{
		{Label: "Name", Accessor: name[models.Ship]},
		{Label: "Race"},
		{Label: "Cost", Accessor: number(func(s models.Ship) float64 { return s.Cost })},
		{Label: "Category"},
		{Label: "Hull", Accessor: number(func(s models.Ship) float64 { return s.Hull })},
		{Label: "Shields", Accessor: number(func(s models.Ship) float64 { return s.Shields })},
		{Label: "Mass", Accessor: number(func(s models.Ship) float64 { return s.Mass })},
		{Label: "Engine cap.", Accessor: number(func(s models.Ship) float64 { return s.EngineCapacity })},
		{Label: "Weapon cap.", Accessor: number(func(s models.Ship) float64 { return s.WeaponCapacity })},
		{Label: "Fuel cap.", Accessor: number(func(s models.Ship) float64 { return s.FuelCapacity })},
		{Label: "Outfit sp.", Accessor: number(func(s models.Ship) float64 { return s.OutfitSpace })},
		{Label: "Cargo sp.", Accessor: number(func(s models.Ship) float64 { return s.CargoSpace })},
		{Label: "Crew / bunks", Accessor: number(func(s models.Ship) float64 { return s.Bunks })},
		{Label: "Licenses"},
	},
	Source:   func(d *models.Dataset) []models.Ship { return d.Ships },
	Classify: ClassifyShip,
	Project:  ProjectShip,
}

// Outfits lists every outfit
var Outfits = &Table[models.Outfit]{
	id:    OutfitsTable,
	title: "Outfits",
	Columns: table.Columns[models.Outfit]{
		{Label: "Name", Accessor: name[models.Outfit]},
		{Label: "Category", Accessor: func(o models.Outfit) table.Value { return table.Text(o.Category) }},
		{Label: "Cost", Accessor: number(func(o models.Outfit) float64 { return o.Cost })},
		{Label: "Mass", Accessor: number(func(o models.Outfit) float64 { return o.Mass })},
		{Label: "Outfit sp.", Accessor: number(func(o models.Outfit) float64 { return o.OutfitSpace })},
		{Label: "Licenses"},
	},
	Source:  outfits,
	Project: ProjectOutfit,
}

// IsCooler selects systems outfits providing passive or active cooling
func IsCooler(o models.Outfit) bool {
	return o.Category == "Systems" && (o.Cooling != nil || o.ActiveCooling != nil)
}

var Coolers = &Table[models.Outfit]{
	id:    CoolersTable,
	title: "Coolers",
	Columns: table.Columns[models.Outfit]{
		{Label: "Name", Accessor: name[models.Outfit]},
		{Label: "Cost", Accessor: number(func(o models.Outfit) float64 { return o.Cost })},
		{Label: "Outfit sp.", Accessor: number(func(o models.Outfit) float64 { return o.OutfitSpace })},
		{Label: "Cooling", Accessor: number(TotalCooling)},
		{Label: "Cooling per space", Accessor: number(CoolingPerSpace)},
		{Label: "Cooling energy", Accessor: number(func(o models.Outfit) float64 { return models.Float(o.CoolingEnergy) })},
		{Label: "Licenses"},
	},
	Source:  outfits,
	Selects: IsCooler,
	Project: ProjectCooler,
}

var Generators = &Table[models.Outfit]{
	id:    GeneratorsTable,
	title: "Generators",
	Columns: table.Columns[models.Outfit]{
		{Label: "Name", Accessor: name[models.Outfit]},
		{Label: "Cost", Accessor: number(func(o models.Outfit) float64 { return o.Cost })},
		{Label: "Outfit sp.", Accessor: number(func(o models.Outfit) float64 { return o.OutfitSpace })},
		{Label: "Energy generation", Accessor: number(func(o models.Outfit) float64 { return models.Float(o.EnergyGeneration) })},
		{Label: "Generation per space", Accessor: number(EnergyGenerationPerSpace)},
		{Label: "Licenses"},
	},
	Source:  outfits,
	Selects: func(o models.Outfit) bool { return o.EnergyGeneration != nil },
	Project: ProjectGenerator,
}

var Batteries = &Table[models.Outfit]{
	id:    BatteriesTable,
	title: "Batteries",
	Columns: table.Columns[models.Outfit]{
		{Label: "Name", Accessor: name[models.Outfit]},
		{Label: "Cost", Accessor: number(func(o models.Outfit) float64 { return o.Cost })},
		{Label: "Outfit sp.", Accessor: number(func(o models.Outfit) float64 { return o.OutfitSpace })},
		{Label: "Energy capacity", Accessor: number(func(o models.Outfit) float64 { return models.Float(o.EnergyCapacity) })},
		{Label: "Capacity per space", Accessor: number(EnergyCapacityPerSpace)},
		{Label: "Licenses"},
	},
	Source:  outfits,
	Selects: func(o models.Outfit) bool { return o.EnergyCapacity != nil },
	Project: ProjectBattery,
}

func outfits(d *models.Dataset) []models.Outfit { return d.Outfits }

// Tables returns every listing in navigation order
func Tables() []Listing {
	return []Listing{Ships, Outfits, Coolers, Generators, Batteries}
}

// TableByID finds a listing
func TableByID(id string) (Listing, bool) {
	for _, t := range Tables() {
		if t.ID() == id {
			return t, true
		}
	}
	return nil, false
}
