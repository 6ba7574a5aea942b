package llm

import "github.com/google/uuid"

// toolCallAccumulator assembles tool calls from stream deltas. Each delta is
// tagged with an integer index; the first delta seen for an index opens a new
// call and later deltas for that index append argument text. Indices may
// arrive in any numeric order, but fragments for one index are contiguous.
type toolCallAccumulator struct {
	order []int64
	calls map[int64]*ToolCall
}

func newToolCallAccumulator() *toolCallAccumulator {
	return &toolCallAccumulator{calls: make(map[int64]*ToolCall)}
}

// Add records one tool-call delta.
func (a *toolCallAccumulator) Add(index int64, id, name, arguments string) {
	tc, ok := a.calls[index]
	if !ok {
		tc = &ToolCall{ID: id, Name: name}
		a.calls[index] = tc
		a.order = append(a.order, index)
	}
	if tc.ID == "" && id != "" {
		tc.ID = id
	}
	if tc.Name == "" && name != "" {
		tc.Name = name
	}
	tc.Arguments += arguments
}

// Calls returns the assembled calls in index-observation order. A call whose
// stream never carried an id gets a generated one, since tool results are
// keyed by id downstream.
func (a *toolCallAccumulator) Calls() []ToolCall {
	out := make([]ToolCall, 0, len(a.order))
	for _, idx := range a.order {
		tc := *a.calls[idx]
		if tc.ID == "" {
			tc.ID = "call_" + uuid.NewString()
		}
		out = append(out, tc)
	}
	return out
}
