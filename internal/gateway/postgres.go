package gateway

import (
	"database/sql"
	"fmt"
	"regexp"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// OpenPostgres connects to the production database through the pgx driver.
// The schema name is interpolated into the query text and therefore must be
// a plain identifier.
func OpenPostgres(dsn, schema string, queriesPerMinute int) (*SQLGateway, error) {
	if schema == "" {
		schema = "optiroute"
	}
	if !identPattern.MatchString(schema) {
		return nil, fmt.Errorf("invalid schema name %q", schema)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := pingOnOpen(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &SQLGateway{
		db:      db,
		q:       postgresQueries(schema),
		limiter: newSlidingWindow(queriesPerMinute, rateLimitWindow),
	}, nil
}

func postgresQueries(schema string) queries {
	t := func(table string) string { return schema + "." + table }
	return queries{
		bookingCounts: fmt.Sprintf(
			`SELECT status, COUNT(*) FROM %s GROUP BY status`, t("bookings")),
		vehiclesByQuery: fmt.Sprintf(
			`SELECT id, name, license_plate, status FROM %s
			 WHERE name ILIKE '%%' || $1 || '%%' OR license_plate ILIKE '%%' || $1 || '%%'`, t("vehicles")),
		customersByQuery: fmt.Sprintf(
			`SELECT id, name, email, phone, status FROM %s
			 WHERE name ILIKE '%%' || $1 || '%%' OR email ILIKE '%%' || $1 || '%%'
			 LIMIT 5`, t("clients")),
		vehicleCount: fmt.Sprintf(
			`SELECT COUNT(*) FROM %s`, t("vehicles")),
		activeCustomerCount: fmt.Sprintf(
			`SELECT COUNT(*) FROM %s WHERE status = 'active'`, t("clients")),
		activeRoutes: fmt.Sprintf(
			`SELECT id, route_name, route_code, route_date, status, vehicle_id,
			        total_stops, total_distance_km, total_duration_minutes
			 FROM %s WHERE status <> 'completed'`, t("routes")),
		vehiclesAll: fmt.Sprintf(
			`SELECT id, name, license_plate, status FROM %s`, t("vehicles")),
		vehiclesByStatus: fmt.Sprintf(
			`SELECT id, name, license_plate, status FROM %s WHERE status = $1`, t("vehicles")),
		vehiclesActive: fmt.Sprintf(
			`SELECT id, name, license_plate, status FROM %s
			 WHERE status IN ('available', 'in_use')`, t("vehicles")),
		customersAll: fmt.Sprintf(
			`SELECT id, name, email, phone, status FROM %s ORDER BY name`, t("clients")),
		customersByStatus: fmt.Sprintf(
			`SELECT id, name, email, phone, status FROM %s WHERE status = $1 ORDER BY name`, t("clients")),
	}
}
