package agent

import (
	"encoding/json"
	"testing"

	"github.com/imagicrafter/kwenv-fleetillo/internal/tools"
)

func testRegistry() *tools.Registry {
	return tools.NewRegistry(nil)
}

func decodeArgs(t *testing.T, raw string) map[string]any {
	t.Helper()
	args := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &args); err != nil {
		t.Fatalf("arguments %q not valid JSON: %v", raw, err)
	}
	return args
}

func TestRecoverPseudoJSON(t *testing.T) {
	content := `Sure thing. {"type": "function", "name": "search_customers", "parameters": {"query": "Perkins"}}`

	call, retain := recoverToolCall(content, testRegistry())
	if call == nil {
		t.Fatal("expected a recovered call")
	}
	if call.Name != tools.SearchCustomers {
		t.Fatalf("name = %q", call.Name)
	}
	if call.ID != "synthetic_search_customers" {
		t.Fatalf("id = %q", call.ID)
	}
	if retain {
		t.Fatal("pseudo-JSON recovery must discard the content, not retain it")
	}
	if args := decodeArgs(t, call.Arguments); args["query"] != "Perkins" {
		t.Fatalf("args = %v", args)
	}
}

func TestRecoverPseudoJSONUnknownToolIgnored(t *testing.T) {
	content := `{"type": "function", "name": "drop_tables", "parameters": {}}`

	call, _ := recoverToolCall(content, testRegistry())
	if call != nil {
		t.Fatalf("unknown tool must not be recovered, got %+v", call)
	}
}

func TestRecoverParenCall(t *testing.T) {
	content := `I will now run (search_customers query="Perkins") for you.`

	call, retain := recoverToolCall(content, testRegistry())
	if call == nil {
		t.Fatal("expected a recovered call")
	}
	if call.Name != tools.SearchCustomers || retain {
		t.Fatalf("call = %+v retain = %v", call, retain)
	}
	if args := decodeArgs(t, call.Arguments); args["query"] != "Perkins" {
		t.Fatalf("args = %v", args)
	}
}

func TestRecoverParenCallSingleQuotes(t *testing.T) {
	content := `(list_vehicles status='maintenance')`

	call, _ := recoverToolCall(content, testRegistry())
	if call == nil {
		t.Fatal("expected a recovered call")
	}
	if args := decodeArgs(t, call.Arguments); args["status"] != "maintenance" {
		t.Fatalf("args = %v", args)
	}
}

func TestRecoverParenProseNotACall(t *testing.T) {
	// Parenthesized prose without a registry tool name must not recover.
	content := `Routes are planned daily (weather permitting of course).`

	call, _ := recoverToolCall(content, testRegistry())
	if call != nil {
		t.Fatalf("prose recovered as call: %+v", call)
	}
}

func TestRecoverBareNameWithStatus(t *testing.T) {
	content := `I should use list_vehicles status='available' here.`

	call, retain := recoverToolCall(content, testRegistry())
	if call == nil {
		t.Fatal("expected a recovered call")
	}
	if call.Name != tools.ListVehicles {
		t.Fatalf("name = %q", call.Name)
	}
	if !retain {
		t.Fatal("bare-name recovery must retain the content as context")
	}
	if args := decodeArgs(t, call.Arguments); args["status"] != "available" {
		t.Fatalf("args = %v", args)
	}
}

func TestRecoverBareNameContextualStatus(t *testing.T) {
	content := `To show the available ones I need list_vehicles.`

	call, _ := recoverToolCall(content, testRegistry())
	if call == nil {
		t.Fatal("expected a recovered call")
	}
	if args := decodeArgs(t, call.Arguments); args["status"] != "available" {
		t.Fatalf("args = %v", args)
	}
}

func TestRecoverBareNameSkipsWhenRequiredParamMissing(t *testing.T) {
	// search_customers requires a query; with none recoverable the tool is
	// skipped and nothing else in the content matches.
	content := `The search_customers operation would help here.`

	call, _ := recoverToolCall(content, testRegistry())
	if call != nil {
		t.Fatalf("expected skip, got %+v", call)
	}
}

func TestRecoverBareNameQueryBoundary(t *testing.T) {
	// "query=" must not be found inside "vehicle_query=".
	content := `get_vehicle_status vehicle_query="Unit 103"`

	call, _ := recoverToolCall(content, testRegistry())
	if call == nil {
		t.Fatal("expected a recovered call")
	}
	if call.Name != tools.GetVehicleStatus {
		t.Fatalf("name = %q", call.Name)
	}
	if args := decodeArgs(t, call.Arguments); args["vehicle_query"] != "Unit 103" {
		t.Fatalf("args = %v", args)
	}
}

func TestRecoverPriorityOrder(t *testing.T) {
	// Content triggering all three rules yields exactly one call, chosen by
	// the fixed priority: pseudo-JSON beats parenthesized beats bare name.
	content := `{"type":"function","name":"get_vehicle_count","parameters":{}} ` +
		`(search_customers query="Perkins") list_vehicles status="active"`

	call, _ := recoverToolCall(content, testRegistry())
	if call == nil {
		t.Fatal("expected a recovered call")
	}
	if call.Name != tools.GetVehicleCount {
		t.Fatalf("priority violated, recovered %q", call.Name)
	}
}

func TestRecoverNothing(t *testing.T) {
	call, _ := recoverToolCall("The dashboard shows booking totals at the top.", testRegistry())
	if call != nil {
		t.Fatalf("plain prose recovered as call: %+v", call)
	}
}
