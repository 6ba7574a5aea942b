// Package agent implements the support assistant's turn state machine: one
// buffered completion pass with tools offered, tool-call recovery over the
// buffered text, a chatter gate on what may be shown, dispatch of at most one
// round of tool calls, and a second streaming pass grounded in the results.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imagicrafter/kwenv-fleetillo/internal/gateway"
	"github.com/imagicrafter/kwenv-fleetillo/internal/llm"
	"github.com/imagicrafter/kwenv-fleetillo/internal/tools"
)

// Greeting is returned verbatim when a request carries no messages.
const Greeting = "Hi! I'm your Fleetillo assistant. I can help you with bookings, routes, customers, vehicles, and services. What would you like to know?"

const (
	clarificationMessage = "I apologize, I'm having trouble understanding that request. Could you rephrase it?"
	fallbackMessage      = "I'm sorry, I couldn't generate a response. Please try again."
)

// Agent holds the immutable wiring for one assistant. It carries no
// per-conversation state: every Respond call is an independent invocation and
// concurrent calls are safe.
type Agent struct {
	llm          llm.Client
	registry     *tools.Registry
	systemPrompt string

	// Operator diagnostics; called for every dispatched tool. Never wired
	// into user-visible output.
	OnToolCall   func(name, arguments string)
	OnToolResult func(name, result string)
}

// New creates an Agent over the given model client and tool registry.
func New(client llm.Client, registry *tools.Registry) *Agent {
	return &Agent{
		llm:          client,
		registry:     registry,
		systemPrompt: defaultSystemPrompt,
	}
}

// SetSystemPrompt overrides the default system prompt.
func (a *Agent) SetSystemPrompt(prompt string) {
	if prompt != "" {
		a.systemPrompt = prompt
	}
}

// Respond runs one full turn over the inbound conversation and emits the
// user-visible answer as a sequence of text fragments. Nothing is emitted
// until it has passed the recovery and chatter stages; only the second,
// grounded completion pass streams directly.
func (a *Agent) Respond(ctx context.Context, messages []llm.Message, emit func(string)) error {
	if len(messages) == 0 {
		emit(Greeting)
		return nil
	}

	history := make([]llm.Message, 0, len(messages)+1)
	history = append(history, llm.SystemMessage(a.systemPrompt))
	for _, m := range messages {
		switch m.Role {
		case llm.RoleUser, llm.RoleAssistant, llm.RoleTool:
			history = append(history, m)
		}
	}

	// First pass: tools offered, content buffered. The stream is fully
	// drained before any later stage runs.
	resp, err := a.llm.ChatCompletionStream(ctx, history, a.registry.Defs(), nil)
	if err != nil {
		return fmt.Errorf("completion: %w", err)
	}
	content := resp.Message.Content
	calls := resp.Message.ToolCalls

	// The structured channel is authoritative; recovery runs only when it
	// produced nothing.
	if len(calls) == 0 && content != "" {
		if call, retain := recoverToolCall(content, a.registry); call != nil {
			if retain {
				history = append(history, llm.AssistantMessage(content))
			}
			calls = []llm.ToolCall{*call}
			content = ""
		}
	}

	if len(calls) == 0 {
		if !hasChatter(content) {
			if content != "" {
				emit(content)
			} else {
				emit(fallbackMessage)
			}
			return nil
		}
		// The model announced a fetch it never performed. The narration is
		// suppressed; a best-effort call is inferred from the user's own
		// question instead.
		call := inferToolFromQuestion(lastUserMessage(messages))
		if call == nil {
			emit(clarificationMessage)
			return nil
		}
		calls = []llm.ToolCall{*call}
	}

	history = append(history, llm.Message{Role: llm.RoleAssistant, ToolCalls: calls})
	for _, tc := range calls {
		if a.OnToolCall != nil {
			a.OnToolCall(tc.Name, tc.Arguments)
		}
		result := a.executeTool(ctx, tc)
		if a.OnToolResult != nil {
			a.OnToolResult(tc.Name, result)
		}
		history = append(history, llm.ToolResultMessage(tc.ID, result))
	}

	// Second pass: no tools offered, deltas stream straight through. This is
	// the only path that may surface tool-result data.
	if _, err := a.llm.ChatCompletionStream(ctx, history, nil, emit); err != nil {
		return fmt.Errorf("final completion: %w", err)
	}
	return nil
}

// executeTool parses the call's arguments and dispatches it. Every failure
// mode becomes an error-shaped result payload; a tool call never aborts the
// turn.
func (a *Agent) executeTool(ctx context.Context, tc llm.ToolCall) string {
	args := map[string]any{}
	if tc.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
			return failurePayload(fmt.Sprintf("invalid tool arguments: %v", err))
		}
	}

	result, err := a.registry.Call(ctx, tc.Name, args)
	if err != nil {
		return failurePayload(err.Error())
	}
	return result
}

func failurePayload(msg string) string {
	payload, _ := json.Marshal(gateway.Failure{Error: msg})
	return string(payload)
}

func lastUserMessage(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
