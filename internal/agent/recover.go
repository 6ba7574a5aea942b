package agent

import (
	"encoding/json"
	"strings"

	"github.com/imagicrafter/kwenv-fleetillo/internal/llm"
	"github.com/imagicrafter/kwenv-fleetillo/internal/tools"
)

// The inference endpoint is not contractually bound to the structured
// tool-call channel: some models write their intended call into the text
// instead. recoverToolCall tries, in fixed priority, to reconstruct that
// intent from the buffered content. At most one call is recovered per turn.
//
// retain reports whether the original content should be appended to the
// conversation as an assistant turn before being cleared (bare-name recovery
// keeps it as context; the other two rules discard it outright).
func recoverToolCall(content string, registry *tools.Registry) (call *llm.ToolCall, retain bool) {
	if name, params, ok := parsePseudoJSON(content); ok && registry.Has(name) {
		args, _ := json.Marshal(params)
		return &llm.ToolCall{ID: "synthetic_" + name, Name: name, Arguments: string(args)}, false
	}

	if name, pairs, ok := parseParenCall(content); ok && registry.Has(name) {
		params := make(map[string]any, len(pairs))
		for k, v := range pairs {
			params[k] = v
		}
		args, _ := json.Marshal(params)
		return &llm.ToolCall{ID: "synthetic_" + name, Name: name, Arguments: string(args)}, false
	}

	for _, name := range registry.Names() {
		if !strings.Contains(content, name) {
			continue
		}
		params, ok := bareNameParams(name, content)
		if !ok {
			continue
		}
		args, _ := json.Marshal(params)
		return &llm.ToolCall{ID: "synthetic_" + name, Name: name, Arguments: string(args)}, true
	}

	return nil, false
}

// parsePseudoJSON scans for an embedded object of the form
// {"type":"function","name":"...","parameters":{...}}. Candidates are decoded
// as JSON prefixes rather than pattern-matched, so nested parameter objects
// and odd whitespace do not break recovery.
func parsePseudoJSON(s string) (name string, params map[string]any, ok bool) {
	for i := strings.IndexByte(s, '{'); i >= 0 && i < len(s); i++ {
		if s[i] != '{' {
			continue
		}
		dec := json.NewDecoder(strings.NewReader(s[i:]))
		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			continue
		}
		typ, _ := obj["type"].(string)
		n, _ := obj["name"].(string)
		if typ != "function" || n == "" {
			continue
		}
		p, _ := obj["parameters"].(map[string]any)
		if p == nil {
			p = map[string]any{}
		}
		return n, p, true
	}
	return "", nil, false
}

// parseParenCall scans for a parenthesized pseudo-call such as
// (search_customers query="Perkins"). Grammar: '(' identifier, whitespace,
// then key="value" pairs with literal single- or double-quoted values, ')'.
func parseParenCall(s string) (name string, pairs map[string]string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] != '(' {
			continue
		}
		n, rest, found := scanIdent(s[i+1:])
		if !found {
			continue
		}
		// The original pseudo-call form always carries text after the name;
		// a bare parenthesized word is prose, not a call.
		if rest == "" || (rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			continue
		}
		body := rest[:end]
		kv := scanQuotedPairs(body)
		return n, kv, true
	}
	return "", nil, false
}

func scanIdent(s string) (ident, rest string, ok bool) {
	i := 0
	for i < len(s) && isWordByte(s[i]) {
		i++
	}
	if i == 0 {
		return "", "", false
	}
	return s[:i], s[i:], true
}

// scanQuotedPairs extracts key="value" (or key='value') pairs from s. Values
// are literal: no escape handling, terminated by the matching quote.
func scanQuotedPairs(s string) map[string]string {
	pairs := map[string]string{}
	i := 0
	for i < len(s) {
		if !isWordByte(s[i]) {
			i++
			continue
		}
		key, _, _ := scanIdent(s[i:])
		i += len(key)
		if i >= len(s) || s[i] != '=' {
			continue
		}
		i++
		if i >= len(s) || (s[i] != '"' && s[i] != '\'') {
			continue
		}
		quote := s[i]
		i++
		end := strings.IndexByte(s[i:], quote)
		if end < 0 {
			break
		}
		pairs[key] = s[i : i+end]
		i += end + 1
	}
	return pairs
}

// bareNameParams recovers parameters for a tool whose bare name appeared in
// the content. A tool with a required parameter that cannot be recovered is
// skipped (ok=false) so the search moves on to the next catalog entry.
func bareNameParams(name, content string) (map[string]any, bool) {
	lower := strings.ToLower(content)
	params := map[string]any{}

	switch name {
	case tools.ListVehicles:
		if v, ok := scanKeyValue(content, "status"); ok {
			params["status"] = v
		} else if strings.Contains(lower, "available") {
			params["status"] = "available"
		} else if strings.Contains(lower, "active") {
			params["status"] = "active"
		}
	case tools.GetVehicleStatus:
		v, ok := scanKeyValue(content, "vehicle_query")
		if !ok {
			return nil, false
		}
		params["vehicle_query"] = v
	case tools.SearchCustomers:
		v, ok := scanKeyValue(content, "query")
		if !ok {
			return nil, false
		}
		params["query"] = v
	case tools.ListCustomers:
		if v, ok := scanKeyValue(content, "status"); ok {
			params["status"] = v
		} else if strings.Contains(lower, "active") {
			params["status"] = "active"
		}
	}
	// The counting and route tools take no parameters.
	return params, true
}

// scanKeyValue finds key=value in s, where value is quoted (until the
// matching quote) or a bare word. The key must start at a word boundary so
// "query=" does not match inside "vehicle_query=".
func scanKeyValue(s, key string) (string, bool) {
	needle := key + "="
	from := 0
	for {
		idx := strings.Index(s[from:], needle)
		if idx < 0 {
			return "", false
		}
		idx += from
		if idx > 0 && isWordByte(s[idx-1]) {
			from = idx + len(needle)
			continue
		}
		rest := s[idx+len(needle):]
		if rest == "" {
			return "", false
		}
		if rest[0] == '"' || rest[0] == '\'' {
			end := strings.IndexByte(rest[1:], rest[0])
			if end < 0 {
				return "", false
			}
			return rest[1 : 1+end], true
		}
		word, _, ok := scanIdent(rest)
		return word, ok
	}
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
