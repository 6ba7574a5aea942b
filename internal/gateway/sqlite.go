package gateway

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// sqliteSchema bootstraps an empty local database so the assistant can run
// against a file or :memory: without a Postgres instance.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS bookings (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	status TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS vehicles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	license_plate TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'available'
);
CREATE TABLE IF NOT EXISTS clients (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'active'
);
CREATE TABLE IF NOT EXISTS routes (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	route_name TEXT NOT NULL,
	route_code TEXT NOT NULL DEFAULT '',
	route_date TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'pending',
	vehicle_id INTEGER NOT NULL DEFAULT 0,
	total_stops INTEGER NOT NULL DEFAULT 0,
	total_distance_km REAL NOT NULL DEFAULT 0,
	total_duration_minutes INTEGER NOT NULL DEFAULT 0
);
`

// OpenSQLite opens (or creates) a local gateway database. Use ":memory:" for
// tests.
func OpenSQLite(dbPath string, queriesPerMinute int) (*SQLGateway, error) {
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrapping schema: %w", err)
	}

	return &SQLGateway{
		db:      db,
		q:       sqliteQueries(),
		limiter: newSlidingWindow(queriesPerMinute, rateLimitWindow),
	}, nil
}

func sqliteQueries() queries {
	return queries{
		bookingCounts: `SELECT status, COUNT(*) FROM bookings GROUP BY status`,
		vehiclesByQuery: `SELECT id, name, license_plate, status FROM vehicles
			 WHERE lower(name) LIKE '%' || lower(?1) || '%'
			    OR lower(license_plate) LIKE '%' || lower(?1) || '%'`,
		customersByQuery: `SELECT id, name, email, phone, status FROM clients
			 WHERE lower(name) LIKE '%' || lower(?1) || '%'
			    OR lower(email) LIKE '%' || lower(?1) || '%'
			 LIMIT 5`,
		vehicleCount:        `SELECT COUNT(*) FROM vehicles`,
		activeCustomerCount: `SELECT COUNT(*) FROM clients WHERE status = 'active'`,
		activeRoutes: `SELECT id, route_name, route_code, route_date, status, vehicle_id,
			        total_stops, total_distance_km, total_duration_minutes
			 FROM routes WHERE status <> 'completed'`,
		vehiclesAll:      `SELECT id, name, license_plate, status FROM vehicles`,
		vehiclesByStatus: `SELECT id, name, license_plate, status FROM vehicles WHERE status = ?`,
		vehiclesActive: `SELECT id, name, license_plate, status FROM vehicles
			 WHERE status IN ('available', 'in_use')`,
		customersAll:      `SELECT id, name, email, phone, status FROM clients ORDER BY name`,
		customersByStatus: `SELECT id, name, email, phone, status FROM clients WHERE status = ? ORDER BY name`,
	}
}
