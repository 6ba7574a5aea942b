package llm

import "testing"

func TestAccumulatorSingleDelta(t *testing.T) {
	acc := newToolCallAccumulator()
	acc.Add(0, "call_1", "search_customers", `{"query":"Perkins"}`)

	calls := acc.Calls()
	if len(calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(calls))
	}
	if calls[0].ID != "call_1" || calls[0].Name != "search_customers" {
		t.Fatalf("unexpected call: %+v", calls[0])
	}
	if calls[0].Arguments != `{"query":"Perkins"}` {
		t.Fatalf("arguments = %q", calls[0].Arguments)
	}
}

func TestAccumulatorSplitBoundaries(t *testing.T) {
	// The same arguments split at arbitrary delta boundaries must assemble
	// to the same call as a single-delta delivery.
	full := `{"query":"Perkins"}`
	for _, split := range []int{1, 5, 9, 18} {
		acc := newToolCallAccumulator()
		acc.Add(0, "call_1", "search_customers", "")
		acc.Add(0, "", "", full[:split])
		acc.Add(0, "", "", full[split:])

		calls := acc.Calls()
		if len(calls) != 1 {
			t.Fatalf("split %d: got %d calls, want 1", split, len(calls))
		}
		if calls[0].Arguments != full {
			t.Fatalf("split %d: arguments = %q, want %q", split, calls[0].Arguments, full)
		}
	}
}

func TestAccumulatorMultipleIndices(t *testing.T) {
	acc := newToolCallAccumulator()
	// Indices arriving out of numeric order, fragments per index contiguous.
	acc.Add(1, "call_b", "get_vehicle_count", "{")
	acc.Add(1, "", "", "}")
	acc.Add(0, "call_a", "get_customer_count", "{}")

	calls := acc.Calls()
	if len(calls) != 2 {
		t.Fatalf("got %d calls, want 2", len(calls))
	}
	if calls[0].ID != "call_b" || calls[1].ID != "call_a" {
		t.Fatalf("observation order not preserved: %+v", calls)
	}
	if calls[0].Arguments != "{}" {
		t.Fatalf("call_b arguments = %q", calls[0].Arguments)
	}
}

func TestAccumulatorGeneratesMissingID(t *testing.T) {
	acc := newToolCallAccumulator()
	acc.Add(0, "", "list_vehicles", "{}")

	calls := acc.Calls()
	if calls[0].ID == "" {
		t.Fatal("expected a generated id for a call with none from the stream")
	}
}
