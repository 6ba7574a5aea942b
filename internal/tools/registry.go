// Package tools is the static catalog of data operations the assistant may
// invoke, and the dispatch from tool name to gateway operation.
package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imagicrafter/kwenv-fleetillo/internal/gateway"
	"github.com/imagicrafter/kwenv-fleetillo/internal/llm"
)

// Tool names. The recovery heuristics key off these, so they are exported
// constants rather than string literals scattered around.
const (
	GetBookingCounts = "get_booking_counts_by_status"
	GetVehicleStatus = "get_vehicle_status"
	SearchCustomers  = "search_customers"
	GetVehicleCount  = "get_vehicle_count"
	GetCustomerCount = "get_customer_count"
	ListActiveRoutes = "list_active_routes"
	ListVehicles     = "list_vehicles"
	ListCustomers    = "list_customers"
)

var definitions = []llm.ToolDef{
	{
		Name:        GetBookingCounts,
		Description: "Get the count of bookings grouped by their status (e.g. pending, confirmed, scheduled). Useful for dashboard summaries.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		},
	},
	{
		Name:        GetVehicleStatus,
		Description: "Get detailed status information for a specific vehicle by name or partial name.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"vehicle_query": map[string]any{
					"type":        "string",
					"description": "Name or partial name of the vehicle (e.g. 'Unit 103')",
				},
			},
			"required": []string{"vehicle_query"},
		},
	},
	{
		Name:        SearchCustomers,
		Description: "Search for a SPECIFIC customer by name. Use ONLY when user provides a customer name to search for (e.g. 'Find Big Meal'). Do NOT use this to list all customers.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Name or partial name of the customer",
				},
			},
			"required": []string{"query"},
		},
	},
	{
		Name:        GetVehicleCount,
		Description: "Get the total number of vehicles in the fleet.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		},
	},
	{
		Name:        GetCustomerCount,
		Description: "Get the total number of active customers.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		},
	},
	{
		Name:        ListActiveRoutes,
		Description: "List all active routes for the current day, including status and vehicle assignment.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
			"required":   []string{},
		},
	},
	{
		Name:        ListVehicles,
		Description: "List vehicles, optionally filtered by status. Use query 'active' to see available and in-use vehicles.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status": map[string]any{
					"type":        "string",
					"description": "Status filter (e.g. 'active', 'available', 'in_use', 'maintenance')",
				},
			},
			"required": []string{},
		},
	},
	{
		Name:        ListCustomers,
		Description: "List ALL customers or filter by status. Use this when user asks to 'list', 'show', or 'who are' the customers. Do NOT use search_customers for this.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"status": map[string]any{
					"type":        "string",
					"description": "Status filter (e.g. 'active', 'inactive', 'suspended', 'archived'). Leave empty to show all.",
				},
			},
			"required": []string{},
		},
	},
}

// Registry binds the static catalog to a gateway instance.
type Registry struct {
	gw gateway.Gateway
}

// NewRegistry creates a registry dispatching to the given gateway.
func NewRegistry(gw gateway.Gateway) *Registry {
	return &Registry{gw: gw}
}

// Defs returns the tool schema offered to the model on the first pass.
func (r *Registry) Defs() []llm.ToolDef {
	return definitions
}

// Names returns the tool names in catalog order.
func (r *Registry) Names() []string {
	names := make([]string, len(definitions))
	for i, d := range definitions {
		names[i] = d.Name
	}
	return names
}

// Has reports whether name is a catalog entry.
func (r *Registry) Has(name string) bool {
	for _, d := range definitions {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Call invokes the named gateway operation and returns the serialized result.
// Gateway faults are folded into an error-shaped payload so a failed query
// never aborts the turn; the only error returned is an unknown tool name.
func (r *Registry) Call(ctx context.Context, name string, args map[string]any) (string, error) {
	var result any
	var err error

	switch name {
	case GetBookingCounts:
		result, err = r.gw.BookingCountsByStatus(ctx)
	case GetVehicleStatus:
		result, err = r.gw.VehicleStatus(ctx, stringArg(args, "vehicle_query"))
	case SearchCustomers:
		result, err = r.gw.SearchCustomers(ctx, stringArg(args, "query"))
	case GetVehicleCount:
		result, err = r.gw.VehicleCount(ctx)
	case GetCustomerCount:
		result, err = r.gw.CustomerCount(ctx)
	case ListActiveRoutes:
		result, err = r.gw.ListActiveRoutes(ctx)
	case ListVehicles:
		result, err = r.gw.ListVehicles(ctx, stringArg(args, "status"))
	case ListCustomers:
		result, err = r.gw.ListCustomers(ctx, stringArg(args, "status"))
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}

	if err != nil {
		result = gateway.Failure{Error: err.Error()}
	}

	payload, err := json.Marshal(result)
	if err != nil {
		payload, _ = json.Marshal(gateway.Failure{Error: err.Error()})
	}
	return string(payload), nil
}

func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	s, _ := args[key].(string)
	return s
}
