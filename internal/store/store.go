// Package store persists product master data and intake history in
// SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps the medscan SQLite database.
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// Product is one row of medicine master data, keyed by GTIN. Field
// names follow the intake domain: JAN is the Japanese article number
// printed as the linear barcode, YJ the drug-pricing code.
type Product struct {
	GTIN        string `db:"gtin" json:"gtin"`
	JANCode     string `db:"jan_code" json:"janCode"`
	YJCode      string `db:"yj_code" json:"yjCode"`
	ProductName string `db:"product_name" json:"productName"`
	PackageSpec string `db:"package_spec" json:"packageSpec"`
	MakerName   string `db:"maker_name" json:"makerName"`
}

// Intake is one recorded scan. Optional fields are empty strings in
// the database; presence semantics live in the decode layer, this is
// plain storage.
type Intake struct {
	ID           int64     `db:"id" json:"id"`
	Raw          string    `db:"raw" json:"raw"`
	GTIN         string    `db:"gtin" json:"gtin"`
	ExpiryDate   string    `db:"expiry_date" json:"expiryDate"` // YYYY-MM-DD, empty if absent/invalid
	LotNumber    string    `db:"lot_number" json:"lotNumber"`
	SerialNumber string    `db:"serial_number" json:"serialNumber"`
	ScannedAt    time.Time `db:"scanned_at" json:"scannedAt"`
}

// New creates or opens the medscan database at path. ":memory:" is
// supported for tests.
func New(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db, dbPath: path}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		gtin TEXT PRIMARY KEY,
		jan_code TEXT NOT NULL DEFAULT '',
		yj_code TEXT NOT NULL DEFAULT '',
		product_name TEXT NOT NULL,
		package_spec TEXT NOT NULL DEFAULT '',
		maker_name TEXT NOT NULL DEFAULT '',
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_products_jan ON products(jan_code);
	CREATE INDEX IF NOT EXISTS idx_products_yj ON products(yj_code);

	CREATE TABLE IF NOT EXISTS intakes (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		raw TEXT NOT NULL,
		gtin TEXT NOT NULL DEFAULT '',
		expiry_date TEXT NOT NULL DEFAULT '',
		lot_number TEXT NOT NULL DEFAULT '',
		serial_number TEXT NOT NULL DEFAULT '',
		scanned_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_intakes_gtin ON intakes(gtin);
	CREATE INDEX IF NOT EXISTS idx_intakes_scanned_at ON intakes(scanned_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// UpsertProduct inserts or replaces a product row by GTIN.
func (s *Store) UpsertProduct(p Product) error {
	if p.GTIN == "" {
		return fmt.Errorf("product GTIN is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO products (gtin, jan_code, yj_code, product_name, package_spec, maker_name, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(gtin) DO UPDATE SET
			jan_code = excluded.jan_code,
			yj_code = excluded.yj_code,
			product_name = excluded.product_name,
			package_spec = excluded.package_spec,
			maker_name = excluded.maker_name,
			updated_at = CURRENT_TIMESTAMP`,
		p.GTIN, p.JANCode, p.YJCode, p.ProductName, p.PackageSpec, p.MakerName)
	if err != nil {
		return fmt.Errorf("failed to upsert product %s: %w", p.GTIN, err)
	}
	return nil
}

// ProductByGTIN looks up master data for a scanned GTIN. A missing
// product is reported via the bool, not an error: unknown packaging
// is an everyday occurrence at intake.
func (s *Store) ProductByGTIN(gtin string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var p Product
	err := s.db.QueryRow(`
		SELECT gtin, jan_code, yj_code, product_name, package_spec, maker_name
		FROM products WHERE gtin = ?`, gtin).
		Scan(&p.GTIN, &p.JANCode, &p.YJCode, &p.ProductName, &p.PackageSpec, &p.MakerName)
	if err == sql.ErrNoRows {
		return Product{}, false, nil
	}
	if err != nil {
		return Product{}, false, fmt.Errorf("failed to query product %s: %w", gtin, err)
	}
	return p, true, nil
}

// ListProducts returns all products ordered by name.
func (s *Store) ListProducts() ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT gtin, jan_code, yj_code, product_name, package_spec, maker_name
		FROM products ORDER BY product_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.GTIN, &p.JANCode, &p.YJCode, &p.ProductName, &p.PackageSpec, &p.MakerName); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// InsertIntake records one scan and returns its row ID.
func (s *Store) InsertIntake(in Intake) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.ScannedAt.IsZero() {
		in.ScannedAt = time.Now().UTC()
	}
	res, err := s.db.Exec(`
		INSERT INTO intakes (raw, gtin, expiry_date, lot_number, serial_number, scanned_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.Raw, in.GTIN, in.ExpiryDate, in.LotNumber, in.SerialNumber, in.ScannedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert intake: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read intake id: %w", err)
	}
	return id, nil
}

// ListIntakes returns the most recent intake records, newest first,
// up to limit (or all when limit <= 0).
func (s *Store) ListIntakes(limit int) ([]Intake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := `
		SELECT id, raw, gtin, expiry_date, lot_number, serial_number, scanned_at
		FROM intakes ORDER BY id DESC`
	var rows *sql.Rows
	var err error
	if limit > 0 {
		rows, err = s.db.Query(q+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.Query(q)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list intakes: %w", err)
	}
	defer rows.Close()

	var intakes []Intake
	for rows.Next() {
		var in Intake
		if err := rows.Scan(&in.ID, &in.Raw, &in.GTIN, &in.ExpiryDate, &in.LotNumber, &in.SerialNumber, &in.ScannedAt); err != nil {
			return nil, fmt.Errorf("failed to scan intake row: %w", err)
		}
		intakes = append(intakes, in)
	}
	return intakes, rows.Err()
}

// CountIntakes returns the total number of intake records.
func (s *Store) CountIntakes() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM intakes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count intakes: %w", err)
	}
	return n, nil
}
