// Package anthropic adapts Anthropic's Claude API to model.ChatModel.
package anthropic

import (
	"context"
	"encoding/json"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/flowgrid/flowgrid-go/flow/model"
)

const (
	defaultModel     = "claude-sonnet-4-0"
	defaultMaxTokens = 1024
)

// ChatModel implements model.ChatModel for Claude.
//
// Anthropic takes the system prompt as a separate request parameter rather
// than as a message, so system messages are extracted from the conversation
// before conversion.
//
// Example:
//
//	m := anthropic.NewChatModel(os.Getenv("ANTHROPIC_API_KEY"), "")
//	out, err := m.Chat(ctx, []model.Message{
//	    {Role: model.RoleUser, Content: "What is the capital of France?"},
//	}, nil)
type ChatModel struct {
	client messageClient
}

// messageClient is the seam between the adapter and the SDK, mocked in
// tests.
type messageClient interface {
	createMessage(ctx context.Context, system string, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error)
}

// NewChatModel creates a Claude-backed ChatModel. An empty modelName
// selects a current default model.
func NewChatModel(apiKey, modelName string) *ChatModel {
	if modelName == "" {
		modelName = defaultModel
	}
	return &ChatModel{
		client: &sdkClient{
			client:    sdk.NewClient(option.WithAPIKey(apiKey)),
			modelName: modelName,
			maxTokens: defaultMaxTokens,
		},
	}
}

// Chat implements model.ChatModel.
func (m *ChatModel) Chat(ctx context.Context, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error) {
	if ctx.Err() != nil {
		return model.ChatOut{}, ctx.Err()
	}
	system, conversation := splitSystemPrompt(messages)
	return m.client.createMessage(ctx, system, conversation, tools)
}

// splitSystemPrompt separates system messages from the conversation.
// Multiple system messages are concatenated in order.
func splitSystemPrompt(messages []model.Message) (string, []model.Message) {
	var system string
	var conversation []model.Message
	for _, msg := range messages {
		if msg.Role == model.RoleSystem {
			if system != "" {
				system += "\n\n"
			}
			system += msg.Content
			continue
		}
		conversation = append(conversation, msg)
	}
	return system, conversation
}

type sdkClient struct {
	client    sdk.Client
	modelName string
	maxTokens int64
}

func (c *sdkClient) createMessage(ctx context.Context, system string, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error) {
	params := sdk.MessageNewParams{
		Model:     sdk.Model(c.modelName),
		MaxTokens: c.maxTokens,
	}
	if system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}

	for _, msg := range messages {
		block := sdk.NewTextBlock(msg.Content)
		if msg.Role == model.RoleAssistant {
			params.Messages = append(params.Messages, sdk.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, sdk.NewUserMessage(block))
		}
	}

	for _, spec := range tools {
		tool := sdk.ToolParam{
			Name:        spec.Name,
			InputSchema: toolSchema(spec.Schema),
		}
		if spec.Description != "" {
			tool.Description = sdk.String(spec.Description)
		}
		params.Tools = append(params.Tools, sdk.ToolUnionParam{OfTool: &tool})
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return model.ChatOut{}, err
	}
	return convertResponse(resp), nil
}

func toolSchema(schema map[string]any) sdk.ToolInputSchemaParam {
	out := sdk.ToolInputSchemaParam{}
	if schema != nil {
		out.Properties = schema["properties"]
	}
	return out
}

func convertResponse(resp *sdk.Message) model.ChatOut {
	out := model.ChatOut{}
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			if out.Text != "" {
				out.Text += "\n"
			}
			out.Text += block.Text
		case "tool_use":
			var input map[string]any
			_ = json.Unmarshal(block.Input, &input)
			out.ToolCalls = append(out.ToolCalls, model.ToolCall{
				Name:  block.Name,
				Input: input,
			})
		}
	}
	return out
}
