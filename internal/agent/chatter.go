package agent

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/imagicrafter/kwenv-fleetillo/internal/llm"
	"github.com/imagicrafter/kwenv-fleetillo/internal/tools"
)

// Phrases that narrate an intended action. They mean the model announced a
// data fetch without calling a tool; none of them may ever reach the user.
var chatterPhrases = []string{
	"let me check",
	"let me find",
	"let me search",
	"i'll check",
	"i'll find",
	"i'll search",
	"i'll call",
	"i'm going to",
	"let me get",
	"let me look",
}

func hasChatter(content string) bool {
	lower := strings.ToLower(content)
	for _, phrase := range chatterPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

var customerKeywords = []string{"contact", "phone", "email", "customer", "client"}
var vehicleKeywords = []string{"vehicle", "truck", "unit", "fleet"}

var namePattern = regexp.MustCompile(`(?:for|of|about)\s+([a-z0-9\s]+)`)

// inferToolFromQuestion makes a best-effort tool call from the user's own
// question when the model narrated instead of calling. Customer-identifier
// questions are checked before vehicle ones, so a mixed question like
// "customer's vehicle status" resolves to a customer search. Returns nil if
// no intent can be inferred.
func inferToolFromQuestion(question string) *llm.ToolCall {
	q := strings.ToLower(question)

	if containsAny(q, customerKeywords) {
		if name := extractCustomerName(q); name != "" {
			args, _ := json.Marshal(map[string]any{"query": name})
			return &llm.ToolCall{
				ID:        "inferred_" + tools.SearchCustomers,
				Name:      tools.SearchCustomers,
				Arguments: string(args),
			}
		}
		return nil
	}

	if containsAny(q, vehicleKeywords) {
		if strings.Contains(q, "how many") || strings.Contains(q, "count") {
			return &llm.ToolCall{
				ID:        "inferred_" + tools.GetVehicleCount,
				Name:      tools.GetVehicleCount,
				Arguments: "{}",
			}
		}
		if containsAny(q, []string{"available", "active", "list", "show"}) {
			status := "active"
			if strings.Contains(q, "available") {
				status = "available"
			}
			args, _ := json.Marshal(map[string]any{"status": status})
			return &llm.ToolCall{
				ID:        "inferred_" + tools.ListVehicles,
				Name:      tools.ListVehicles,
				Arguments: string(args),
			}
		}
	}

	return nil
}

// extractCustomerName pulls a customer name out of a lowercased question.
// Text following "for"/"of"/"about" wins; otherwise the trailing one or two
// words, stripped of closing punctuation.
func extractCustomerName(q string) string {
	if m := namePattern.FindStringSubmatch(q); m != nil {
		return strings.TrimSpace(strings.Trim(m[1], "?.,!"))
	}

	words := strings.Fields(q)
	if len(words) == 0 {
		return ""
	}
	var tail string
	if len(words) >= 2 {
		tail = words[len(words)-2] + " " + words[len(words)-1]
	} else {
		tail = words[0]
	}
	return strings.TrimSpace(strings.Trim(tail, "?.,!"))
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
