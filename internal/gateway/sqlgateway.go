package gateway

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// queries holds the per-backend SQL text. The two backends differ only in
// placeholder style, case-insensitive matching, and schema qualification, so
// the operations themselves live here once.
type queries struct {
	bookingCounts       string
	vehiclesByQuery     string
	customersByQuery    string
	vehicleCount        string
	activeCustomerCount string
	activeRoutes        string
	vehiclesAll         string
	vehiclesByStatus    string
	vehiclesActive      string
	customersAll        string
	customersByStatus   string
}

// SQLGateway implements Gateway over database/sql. Construct it with
// OpenPostgres or OpenSQLite.
type SQLGateway struct {
	db      *sql.DB
	q       queries
	limiter *slidingWindow
}

// Close releases the underlying connection pool.
func (g *SQLGateway) Close() error {
	return g.db.Close()
}

// BookingCountsByStatus returns booking counts grouped by status.
func (g *SQLGateway) BookingCountsByStatus(ctx context.Context) (any, error) {
	if !g.limiter.Allow() {
		return rateLimited(), nil
	}

	rows, err := g.db.QueryContext(ctx, g.q.bookingCounts)
	if err != nil {
		return nil, fmt.Errorf("booking counts: %w", err)
	}
	defer rows.Close()

	counts := map[string]int64{}
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning booking counts: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// VehicleStatus finds vehicles by name or license plate, partial match.
func (g *SQLGateway) VehicleStatus(ctx context.Context, vehicleQuery string) (any, error) {
	if !g.limiter.Allow() {
		return rateLimited(), nil
	}

	vehicles, err := g.scanVehicles(ctx, g.q.vehiclesByQuery, vehicleQuery)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return Notice{Message: fmt.Sprintf("No vehicles found matching '%s'. Try a different search term.", vehicleQuery)}, nil
	}
	return vehicles, nil
}

// SearchCustomers finds customers by name or email, partial match, capped at
// five rows.
func (g *SQLGateway) SearchCustomers(ctx context.Context, query string) (any, error) {
	if !g.limiter.Allow() {
		return rateLimited(), nil
	}

	customers, err := g.scanCustomers(ctx, g.q.customersByQuery, query)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return Notice{Message: fmt.Sprintf("No customers found matching '%s'. Try a different search term or check the spelling.", query)}, nil
	}
	return customers, nil
}

// VehicleCount returns the fleet size.
func (g *SQLGateway) VehicleCount(ctx context.Context) (any, error) {
	if !g.limiter.Allow() {
		return rateLimited(), nil
	}
	return g.countRow(ctx, g.q.vehicleCount)
}

// CustomerCount returns the number of active customers.
func (g *SQLGateway) CustomerCount(ctx context.Context) (any, error) {
	if !g.limiter.Allow() {
		return rateLimited(), nil
	}
	return g.countRow(ctx, g.q.activeCustomerCount)
}

// ListActiveRoutes lists routes that have not completed.
func (g *SQLGateway) ListActiveRoutes(ctx context.Context) (any, error) {
	if !g.limiter.Allow() {
		return rateLimited(), nil
	}

	rows, err := g.db.QueryContext(ctx, g.q.activeRoutes)
	if err != nil {
		return nil, fmt.Errorf("active routes: %w", err)
	}
	defer rows.Close()

	var routes []Route
	for rows.Next() {
		var r Route
		if err := rows.Scan(&r.ID, &r.RouteName, &r.RouteCode, &r.RouteDate, &r.Status,
			&r.VehicleID, &r.TotalStops, &r.TotalDistanceKm, &r.TotalDurationMinutes); err != nil {
			return nil, fmt.Errorf("scanning route: %w", err)
		}
		routes = append(routes, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return Notice{Message: "No active routes found."}, nil
	}
	return routes, nil
}

// ListVehicles lists vehicles, optionally filtered by status. The "active"
// filter is an alias covering both available and in-use vehicles.
func (g *SQLGateway) ListVehicles(ctx context.Context, status string) (any, error) {
	if !g.limiter.Allow() {
		return rateLimited(), nil
	}

	var vehicles []Vehicle
	var err error
	switch {
	case status == "":
		vehicles, err = g.scanVehicles(ctx, g.q.vehiclesAll)
	case strings.EqualFold(status, "active"):
		vehicles, err = g.scanVehicles(ctx, g.q.vehiclesActive)
	default:
		vehicles, err = g.scanVehicles(ctx, g.q.vehiclesByStatus, status)
	}
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return Notice{Message: "No vehicles found."}, nil
	}
	return vehicles, nil
}

// ListCustomers lists customers ordered by name, optionally filtered by
// status.
func (g *SQLGateway) ListCustomers(ctx context.Context, status string) (any, error) {
	if !g.limiter.Allow() {
		return rateLimited(), nil
	}

	var customers []Customer
	var err error
	if status == "" {
		customers, err = g.scanCustomers(ctx, g.q.customersAll)
	} else {
		customers, err = g.scanCustomers(ctx, g.q.customersByStatus, status)
	}
	if err != nil {
		return nil, err
	}
	return CustomerList{Success: true, Customers: customers, Count: len(customers)}, nil
}

func (g *SQLGateway) countRow(ctx context.Context, query string) (any, error) {
	var n int64
	if err := g.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return nil, fmt.Errorf("counting: %w", err)
	}
	return Count{Count: n}, nil
}

func (g *SQLGateway) scanVehicles(ctx context.Context, query string, args ...any) ([]Vehicle, error) {
	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying vehicles: %w", err)
	}
	defer rows.Close()

	var out []Vehicle
	for rows.Next() {
		var v Vehicle
		if err := rows.Scan(&v.ID, &v.Name, &v.LicensePlate, &v.Status); err != nil {
			return nil, fmt.Errorf("scanning vehicle: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (g *SQLGateway) scanCustomers(ctx context.Context, query string, args ...any) ([]Customer, error) {
	rows, err := g.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying customers: %w", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Status); err != nil {
			return nil, fmt.Errorf("scanning customer: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func pingOnOpen(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}
