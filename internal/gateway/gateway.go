// Package gateway provides read-only, rate-limited access to the route
// management database. Every operation returns one of four shapes: a list of
// records, a mapping of aggregate counts, a Notice for empty results, or a
// Failure. All four are ordinary outcomes; the error return is reserved for
// infrastructure faults the caller converts into a Failure itself.
package gateway

import "context"

// Gateway is the set of data operations the assistant may invoke.
type Gateway interface {
	BookingCountsByStatus(ctx context.Context) (any, error)
	VehicleStatus(ctx context.Context, vehicleQuery string) (any, error)
	SearchCustomers(ctx context.Context, query string) (any, error)
	VehicleCount(ctx context.Context) (any, error)
	CustomerCount(ctx context.Context) (any, error)
	ListActiveRoutes(ctx context.Context) (any, error)
	ListVehicles(ctx context.Context, status string) (any, error)
	ListCustomers(ctx context.Context, status string) (any, error)
}

// Notice marks an empty result ("no rows matched") as a first-class outcome.
type Notice struct {
	Message string `json:"message"`
}

// Failure carries a query or rate-limit error back to the model as data.
type Failure struct {
	Error string `json:"error"`
}

// Count is the aggregate shape returned by the counting operations.
type Count struct {
	Count int64 `json:"count"`
}

// Vehicle is a fleet vehicle row.
type Vehicle struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	LicensePlate string `json:"license_plate"`
	Status       string `json:"status"`
}

// Customer is a client row.
type Customer struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// Route is a planned route row.
type Route struct {
	ID                   int64   `json:"id"`
	RouteName            string  `json:"route_name"`
	RouteCode            string  `json:"route_code"`
	RouteDate            string  `json:"route_date"`
	Status               string  `json:"status"`
	VehicleID            int64   `json:"vehicle_id"`
	TotalStops           int64   `json:"total_stops"`
	TotalDistanceKm      float64 `json:"total_distance_km"`
	TotalDurationMinutes int64   `json:"total_duration_minutes"`
}

// CustomerList is the envelope returned by ListCustomers.
type CustomerList struct {
	Success   bool       `json:"success"`
	Customers []Customer `json:"customers"`
	Count     int        `json:"count"`
}

func rateLimited() Failure {
	return Failure{Error: "Too many queries. Please wait a moment before trying again."}
}
