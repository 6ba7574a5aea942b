package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/packages/ssestream"
)

// StreamHandler receives text deltas during streaming. A nil handler buffers
// content silently, which is how the first pass of a turn runs.
type StreamHandler func(delta string)

// ChatCompletionStream sends a streaming chat completion request and drains
// the stream fully before returning. Content fragments are concatenated in
// arrival order; tool-call fragments are assembled per delta index.
func (c *OpenAICompatClient) ChatCompletionStream(ctx context.Context, messages []Message, tools []ToolDef, handler StreamHandler) (*Response, error) {
	params := c.params(messages, tools)

	var stream *ssestream.Stream[openai.ChatCompletionChunk]
	var err error
	for attempt := range 3 {
		stream = c.client.Chat.Completions.NewStreaming(ctx, params)
		err = stream.Err()
		if err == nil {
			break
		}
		if !strings.Contains(err.Error(), "429") || attempt == 2 {
			return nil, fmt.Errorf("chat completion stream: %w", err)
		}
		stream.Close()
		wait := time.Duration(2<<attempt) * time.Second
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, fmt.Errorf("chat completion stream: %w", ctx.Err())
		}
	}
	defer stream.Close()

	var content strings.Builder
	acc := newToolCallAccumulator()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta

		for _, tc := range delta.ToolCalls {
			acc.Add(tc.Index, tc.ID, tc.Function.Name, tc.Function.Arguments)
		}

		if delta.Content != "" {
			content.WriteString(delta.Content)
			if handler != nil {
				handler(delta.Content)
			}
		}
	}

	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("streaming: %w", err)
	}

	return &Response{
		Message: Message{
			Role:      RoleAssistant,
			Content:   content.String(),
			ToolCalls: acc.Calls(),
		},
	}, nil
}
