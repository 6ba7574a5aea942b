package gateway

import (
	"context"
	"testing"
)

func openSeeded(t *testing.T) *SQLGateway {
	t.Helper()
	g, err := OpenSQLite(":memory:", 1000)
	if err != nil {
		t.Fatalf("opening sqlite gateway: %v", err)
	}
	t.Cleanup(func() { g.Close() })

	seed := `
	INSERT INTO bookings (status) VALUES ('pending'), ('pending'), ('confirmed');
	INSERT INTO vehicles (name, license_plate, status) VALUES
		('Unit 103 - Hydro Jetter', 'HX-103', 'available'),
		('Unit 205 - Vacuum Truck', 'VT-205', 'in_use'),
		('Unit 301 - Flatbed', 'FB-301', 'maintenance');
	INSERT INTO clients (name, email, phone, status) VALUES
		('Perkins', 'perkins@mail.com', '888-222-3333', 'active'),
		('Big Meal', 'orders@bigmeal.example', '555-0100', 'active'),
		('Old Co', 'old@co.example', '', 'inactive');
	INSERT INTO routes (route_name, route_code, route_date, status, vehicle_id, total_stops) VALUES
		('North Loop', 'NL-1', '2026-08-28', 'in_progress', 1, 6),
		('Done Run', 'DR-9', '2026-08-27', 'completed', 2, 4);
	`
	if _, err := g.db.Exec(seed); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	return g
}

func TestBookingCountsByStatus(t *testing.T) {
	g := openSeeded(t)

	res, err := g.BookingCountsByStatus(context.Background())
	if err != nil {
		t.Fatalf("BookingCountsByStatus: %v", err)
	}
	counts, ok := res.(map[string]int64)
	if !ok {
		t.Fatalf("result type %T, want map[string]int64", res)
	}
	if counts["pending"] != 2 || counts["confirmed"] != 1 {
		t.Fatalf("counts = %v", counts)
	}
}

func TestVehicleStatusPartialMatch(t *testing.T) {
	g := openSeeded(t)

	res, err := g.VehicleStatus(context.Background(), "103")
	if err != nil {
		t.Fatalf("VehicleStatus: %v", err)
	}
	vehicles, ok := res.([]Vehicle)
	if !ok || len(vehicles) != 1 {
		t.Fatalf("result = %#v", res)
	}
	if vehicles[0].Status != "available" {
		t.Fatalf("status = %q", vehicles[0].Status)
	}
}

func TestVehicleStatusNoMatchIsNotice(t *testing.T) {
	g := openSeeded(t)

	res, err := g.VehicleStatus(context.Background(), "Unit 999")
	if err != nil {
		t.Fatalf("VehicleStatus: %v", err)
	}
	if _, ok := res.(Notice); !ok {
		t.Fatalf("expected Notice for empty result, got %#v", res)
	}
}

func TestSearchCustomersCaseInsensitive(t *testing.T) {
	g := openSeeded(t)

	res, err := g.SearchCustomers(context.Background(), "PERKINS")
	if err != nil {
		t.Fatalf("SearchCustomers: %v", err)
	}
	customers, ok := res.([]Customer)
	if !ok || len(customers) != 1 {
		t.Fatalf("result = %#v", res)
	}
	if customers[0].Email != "perkins@mail.com" {
		t.Fatalf("email = %q", customers[0].Email)
	}
}

func TestCounts(t *testing.T) {
	g := openSeeded(t)
	ctx := context.Background()

	res, err := g.VehicleCount(ctx)
	if err != nil {
		t.Fatalf("VehicleCount: %v", err)
	}
	if c := res.(Count); c.Count != 3 {
		t.Fatalf("vehicle count = %d", c.Count)
	}

	res, err = g.CustomerCount(ctx)
	if err != nil {
		t.Fatalf("CustomerCount: %v", err)
	}
	if c := res.(Count); c.Count != 2 {
		t.Fatalf("active customer count = %d", c.Count)
	}
}

func TestListActiveRoutesExcludesCompleted(t *testing.T) {
	g := openSeeded(t)

	res, err := g.ListActiveRoutes(context.Background())
	if err != nil {
		t.Fatalf("ListActiveRoutes: %v", err)
	}
	routes, ok := res.([]Route)
	if !ok || len(routes) != 1 {
		t.Fatalf("result = %#v", res)
	}
	if routes[0].RouteCode != "NL-1" {
		t.Fatalf("route = %+v", routes[0])
	}
}

func TestListVehiclesActiveAlias(t *testing.T) {
	g := openSeeded(t)

	// "active" covers both available and in_use.
	res, err := g.ListVehicles(context.Background(), "active")
	if err != nil {
		t.Fatalf("ListVehicles: %v", err)
	}
	vehicles := res.([]Vehicle)
	if len(vehicles) != 2 {
		t.Fatalf("got %d vehicles, want 2", len(vehicles))
	}

	res, err = g.ListVehicles(context.Background(), "maintenance")
	if err != nil {
		t.Fatalf("ListVehicles: %v", err)
	}
	if vehicles := res.([]Vehicle); len(vehicles) != 1 {
		t.Fatalf("maintenance filter returned %d vehicles", len(vehicles))
	}
}

func TestListCustomersEnvelope(t *testing.T) {
	g := openSeeded(t)

	res, err := g.ListCustomers(context.Background(), "")
	if err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}
	list, ok := res.(CustomerList)
	if !ok || !list.Success || list.Count != 3 {
		t.Fatalf("result = %#v", res)
	}

	res, err = g.ListCustomers(context.Background(), "inactive")
	if err != nil {
		t.Fatalf("ListCustomers: %v", err)
	}
	if list := res.(CustomerList); list.Count != 1 || list.Customers[0].Name != "Old Co" {
		t.Fatalf("inactive filter = %#v", list)
	}
}

func TestGatewayRateLimitShape(t *testing.T) {
	g, err := OpenSQLite(":memory:", 1)
	if err != nil {
		t.Fatalf("opening sqlite gateway: %v", err)
	}
	defer g.Close()

	ctx := context.Background()
	if _, err := g.VehicleCount(ctx); err != nil {
		t.Fatalf("first query: %v", err)
	}
	res, err := g.VehicleCount(ctx)
	if err != nil {
		t.Fatalf("rate limited query must not error: %v", err)
	}
	f, ok := res.(Failure)
	if !ok {
		t.Fatalf("expected Failure shape, got %#v", res)
	}
	if f.Error == "" {
		t.Fatal("failure message must not be empty")
	}
}
