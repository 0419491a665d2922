package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/meur/skyatlas/internal/models"
)

// Store keeps a dataset snapshot in SQLite
type Store struct {
	db *sql.DB
}

// New opens (or creates) the snapshot database
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS ships (
			name TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			race TEXT,
			category TEXT,
			data TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS outfits (
			name TEXT PRIMARY KEY,
			position INTEGER NOT NULL,
			category TEXT,
			data TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ship_modifications (
			original TEXT NOT NULL REFERENCES ships(name) ON DELETE CASCADE,
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			data TEXT NOT NULL,
			PRIMARY KEY (original, name)
		)`,
		`CREATE TABLE IF NOT EXISTS snapshot_meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			imported_at DATETIME NOT NULL,
			ships INTEGER NOT NULL,
			outfits INTEGER NOT NULL,
			modifications INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ships_position ON ships(position)`,
		`CREATE INDEX IF NOT EXISTS idx_outfits_position ON outfits(position)`,
		`CREATE INDEX IF NOT EXISTS idx_outfits_category ON outfits(category)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// SnapshotInfo describes the last import
type SnapshotInfo struct {
	ImportedAt    time.Time `json:"imported_at"`
	Ships         int       `json:"ships"`
	Outfits       int       `json:"outfits"`
	Modifications int       `json:"modifications"`
}

// SaveDataset replaces the stored snapshot in one transaction
func (s *Store) SaveDataset(ctx context.Context, d *models.Dataset) error {
	if err := d.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"ship_modifications", "ships", "outfits"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	if err := insertShips(ctx, tx, d.Ships); err != nil {
		return err
	}
	if err := insertOutfits(ctx, tx, d.Outfits); err != nil {
		return err
	}
	if err := insertModifications(ctx, tx, d.ShipModifications); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO snapshot_meta (id, imported_at, ships, outfits, modifications)
		VALUES (1, ?, ?, ?, ?)
	`, time.Now().UTC(), len(d.Ships), len(d.Outfits), len(d.ShipModifications))
	if err != nil {
		return fmt.Errorf("failed to record snapshot: %w", err)
	}

	return tx.Commit()
}

// --- Ships ---

func insertShips(ctx context.Context, tx *sql.Tx, ships []models.Ship) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO ships (name, position, race, category, data)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, ship := range ships {
		data, err := json.Marshal(ship)
		if err != nil {
			return fmt.Errorf("failed to encode ship %q: %w", ship.Name, err)
		}
		if _, err := stmt.ExecContext(ctx, ship.Name, i, ship.Race, ship.Category, data); err != nil {
			return fmt.Errorf("failed to insert ship %q: %w", ship.Name, err)
		}
	}
	return nil
}

// GetShips returns all ships in snapshot order
func (s *Store) GetShips(ctx context.Context) ([]models.Ship, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM ships ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ships := []models.Ship{}
	for rows.Next() {
		var ship models.Ship
		if err := scanJSON(rows, &ship); err != nil {
			return nil, err
		}
		ships = append(ships, ship)
	}
	return ships, rows.Err()
}

// GetShip returns a ship by name, nil when absent
func (s *Store) GetShip(ctx context.Context, name string) (*models.Ship, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM ships WHERE name = ?`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var ship models.Ship
	if err := json.Unmarshal([]byte(data), &ship); err != nil {
		return nil, fmt.Errorf("failed to decode ship %q: %w", name, err)
	}
	return &ship, nil
}

// --- Outfits ---

func insertOutfits(ctx context.Context, tx *sql.Tx, outfits []models.Outfit) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO outfits (name, position, category, data)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, outfit := range outfits {
		data, err := json.Marshal(outfit)
		if err != nil {
			return fmt.Errorf("failed to encode outfit %q: %w", outfit.Name, err)
		}
		if _, err := stmt.ExecContext(ctx, outfit.Name, i, outfit.Category, data); err != nil {
			return fmt.Errorf("failed to insert outfit %q: %w", outfit.Name, err)
		}
	}
	return nil
}

// GetOutfits returns outfits in snapshot order, optionally restricted to a category
func (s *Store) GetOutfits(ctx context.Context, category string) ([]models.Outfit, error) {
	var rows *sql.Rows
	var err error

	if category != "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT data FROM outfits WHERE category = ? ORDER BY position
		`, category)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT data FROM outfits ORDER BY position`)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	outfits := []models.Outfit{}
	for rows.Next() {
		var outfit models.Outfit
		if err := scanJSON(rows, &outfit); err != nil {
			return nil, err
		}
		outfits = append(outfits, outfit)
	}
	return outfits, rows.Err()
}

// --- Modifications ---

func insertModifications(ctx context.Context, tx *sql.Tx, mods []models.ShipModification) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO ship_modifications (original, name, position, data)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, mod := range mods {
		data, err := json.Marshal(mod)
		if err != nil {
			return fmt.Errorf("failed to encode modification %q: %w", mod.Name, err)
		}
		if _, err := stmt.ExecContext(ctx, mod.Original, mod.Name, i, data); err != nil {
			return fmt.Errorf("failed to insert modification %q: %w", mod.Name, err)
		}
	}
	return nil
}

// GetModifications returns every ship modification in snapshot order
func (s *Store) GetModifications(ctx context.Context) ([]models.ShipModification, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM ship_modifications ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mods := []models.ShipModification{}
	for rows.Next() {
		var mod models.ShipModification
		if err := scanJSON(rows, &mod); err != nil {
			return nil, err
		}
		mods = append(mods, mod)
	}
	return mods, rows.Err()
}

// --- Snapshot ---

// Info returns the last import summary, nil when nothing was imported
func (s *Store) Info(ctx context.Context) (*SnapshotInfo, error) {
	var info SnapshotInfo
	err := s.db.QueryRowContext(ctx, `
		SELECT imported_at, ships, outfits, modifications FROM snapshot_meta WHERE id = 1
	`).Scan(&info.ImportedAt, &info.Ships, &info.Outfits, &info.Modifications)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// Load reads the whole snapshot back; it makes Store a dataset source
func (s *Store) Load(ctx context.Context) (*models.Dataset, error) {
	info, err := s.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot info: %w", err)
	}
	if info == nil {
		return nil, fmt.Errorf("no snapshot imported")
	}

	ships, err := s.GetShips(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read ships: %w", err)
	}
	outfits, err := s.GetOutfits(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to read outfits: %w", err)
	}
	mods, err := s.GetModifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read modifications: %w", err)
	}

	return &models.Dataset{Ships: ships, Outfits: outfits, ShipModifications: mods}, nil
}

func scanJSON(rows *sql.Rows, v interface{}) error {
	var data string
	if err := rows.Scan(&data); err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), v)
}
