package exec

import (
	"context"
	"fmt"

	"github.com/flowgrid/flowgrid-go/flow"
	"github.com/flowgrid/flowgrid-go/flow/model"
)

// ModelExecutor sends a prompt to an LLM through a model.ChatModel.
//
// Config keys:
//   - prompt: the user message, required, supports {{var}} placeholders
//   - system: optional system prompt
//
// The result is a map with the generated text under "text" and, when the
// model requested tools, the calls under "tool_calls" as a list of
// {name, input} maps.
type ModelExecutor struct {
	chat model.ChatModel
}

// NewModelExecutor creates a ModelExecutor backed by the given chat model.
func NewModelExecutor(chat model.ChatModel) *ModelExecutor {
	return &ModelExecutor{chat: chat}
}

// Execute implements flow.Executor.
func (m *ModelExecutor) Execute(ctx context.Context, node flow.Node, ec *flow.ExecutionContext) (any, error) {
	if m.chat == nil {
		return nil, fmt.Errorf("node %s: no chat model configured", node.ID)
	}

	prompt := interpolate(configString(node, "prompt"), ec)
	if prompt == "" {
		return nil, fmt.Errorf("node %s: prompt config required", node.ID)
	}

	var messages []model.Message
	if system := interpolate(configString(node, "system"), ec); system != "" {
		messages = append(messages, model.Message{Role: model.RoleSystem, Content: system})
	}
	messages = append(messages, model.Message{Role: model.RoleUser, Content: prompt})

	out, err := m.chat.Chat(ctx, messages, nil)
	if err != nil {
		return nil, fmt.Errorf("node %s: model call failed: %w", node.ID, err)
	}

	result := map[string]any{"text": out.Text}
	if len(out.ToolCalls) > 0 {
		calls := make([]map[string]any, len(out.ToolCalls))
		for i, call := range out.ToolCalls {
			calls[i] = map[string]any{"name": call.Name, "input": call.Input}
		}
		result["tool_calls"] = calls
	}
	return result, nil
}
