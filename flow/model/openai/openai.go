// Package openai adapts the OpenAI Chat Completions API to model.ChatModel.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/flowgrid/flowgrid-go/flow/model"
)

const defaultModel = "gpt-4o"

// ChatModel implements model.ChatModel for OpenAI chat completions.
//
// The SDK retries transient errors itself, so a surrounding retry policy
// mostly sees terminal failures from this adapter.
//
// Example:
//
//	m := openai.NewChatModel(os.Getenv("OPENAI_API_KEY"), "")
//	out, err := m.Chat(ctx, []model.Message{
//	    {Role: model.RoleUser, Content: "What is the capital of France?"},
//	}, nil)
type ChatModel struct {
	client completionClient
}

// completionClient is the seam between the adapter and the SDK, mocked in
// tests.
type completionClient interface {
	createCompletion(ctx context.Context, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error)
}

// NewChatModel creates an OpenAI-backed ChatModel. An empty modelName
// selects a current default model.
func NewChatModel(apiKey, modelName string) *ChatModel {
	if modelName == "" {
		modelName = defaultModel
	}
	return &ChatModel{
		client: &sdkClient{
			client:    sdk.NewClient(option.WithAPIKey(apiKey)),
			modelName: modelName,
		},
	}
}

// Chat implements model.ChatModel.
func (m *ChatModel) Chat(ctx context.Context, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error) {
	if ctx.Err() != nil {
		return model.ChatOut{}, ctx.Err()
	}
	return m.client.createCompletion(ctx, messages, tools)
}

type sdkClient struct {
	client    sdk.Client
	modelName string
}

func (c *sdkClient) createCompletion(ctx context.Context, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error) {
	params := sdk.ChatCompletionNewParams{
		Model: sdk.ChatModel(c.modelName),
	}

	for _, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			params.Messages = append(params.Messages, sdk.SystemMessage(msg.Content))
		case model.RoleAssistant:
			params.Messages = append(params.Messages, sdk.AssistantMessage(msg.Content))
		default:
			params.Messages = append(params.Messages, sdk.UserMessage(msg.Content))
		}
	}

	for _, spec := range tools {
		def := sdk.FunctionDefinitionParam{Name: spec.Name}
		if spec.Description != "" {
			def.Description = sdk.String(spec.Description)
		}
		if spec.Schema != nil {
			def.Parameters = sdk.FunctionParameters(spec.Schema)
		}
		params.Tools = append(params.Tools, sdk.ChatCompletionToolParam{Function: def})
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return model.ChatOut{}, err
	}
	if len(resp.Choices) == 0 {
		return model.ChatOut{}, fmt.Errorf("openai response contained no choices")
	}

	choice := resp.Choices[0]
	out := model.ChatOut{Text: choice.Message.Content}
	for _, tc := range choice.Message.ToolCalls {
		var input map[string]any
		_ = json.Unmarshal([]byte(tc.Function.Arguments), &input)
		out.ToolCalls = append(out.ToolCalls, model.ToolCall{
			Name:  tc.Function.Name,
			Input: input,
		})
	}
	return out, nil
}
