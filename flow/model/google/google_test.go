package google

import (
	"context"
	"errors"
	"testing"

	"github.com/google/generative-ai-go/genai"

	"github.com/flowgrid/flowgrid-go/flow/model"
)

type fakeClient struct {
	messages []model.Message
	tools    []model.ToolSpec
	out      model.ChatOut
	err      error
}

func (f *fakeClient) generateContent(ctx context.Context, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error) {
	f.messages = messages
	f.tools = tools
	return f.out, f.err
}

func TestChatModel_DelegatesToClient(t *testing.T) {
	fake := &fakeClient{out: model.ChatOut{Text: "Paris"}}
	m := &ChatModel{client: fake}

	out, err := m.Chat(context.Background(), []model.Message{{Role: model.RoleUser, Content: "Capital of France?"}}, nil)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if out.Text != "Paris" {
		t.Errorf("Text = %q, want Paris", out.Text)
	}
	if len(fake.messages) != 1 {
		t.Errorf("messages = %d, want 1", len(fake.messages))
	}
}

func TestChatModel_CancelledContext(t *testing.T) {
	m := &ChatModel{client: &fakeClient{}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := m.Chat(ctx, nil, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Chat() error = %v, want context.Canceled", err)
	}
}

func TestNewChatModel_DefaultModel(t *testing.T) {
	m := NewChatModel("key", "")
	client, ok := m.client.(*sdkClient)
	if !ok {
		t.Fatalf("client type = %T, want *sdkClient", m.client)
	}
	if client.modelName != defaultModel {
		t.Errorf("model = %q, want default", client.modelName)
	}
}

func TestSplitSystemPrompt(t *testing.T) {
	system, conversation := splitSystemPrompt([]model.Message{
		{Role: model.RoleSystem, Content: "Be terse."},
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleSystem, Content: "Answer in English."},
	})
	if system != "Be terse.\n\nAnswer in English." {
		t.Errorf("system = %q", system)
	}
	if len(conversation) != 1 || conversation[0].Role != model.RoleUser {
		t.Errorf("conversation = %+v, want user message only", conversation)
	}
}

func TestConvertSchema(t *testing.T) {
	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"city":  map[string]any{"type": "string", "description": "City name"},
			"count": map[string]any{"type": "integer"},
		},
		"required": []any{"city"},
	}

	got := convertSchema(schema)
	if got.Type != genai.TypeObject {
		t.Errorf("Type = %v, want object", got.Type)
	}
	city := got.Properties["city"]
	if city == nil || city.Type != genai.TypeString || city.Description != "City name" {
		t.Errorf("city property = %+v", city)
	}
	if count := got.Properties["count"]; count == nil || count.Type != genai.TypeInteger {
		t.Errorf("count property = %+v", count)
	}
	if len(got.Required) != 1 || got.Required[0] != "city" {
		t.Errorf("Required = %v", got.Required)
	}

	if convertSchema(nil) != nil {
		t.Error("nil schema should convert to nil")
	}
}

func TestConvertType(t *testing.T) {
	tests := []struct {
		in   string
		want genai.Type
	}{
		{"string", genai.TypeString},
		{"number", genai.TypeNumber},
		{"integer", genai.TypeInteger},
		{"boolean", genai.TypeBoolean},
		{"array", genai.TypeArray},
		{"object", genai.TypeObject},
		{"unknown", genai.TypeUnspecified},
	}
	for _, tt := range tests {
		if got := convertType(tt.in); got != tt.want {
			t.Errorf("convertType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestConvertResponse_SafetyBlock(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		PromptFeedback: &genai.PromptFeedback{
			BlockReason: genai.BlockReasonSafety,
			SafetyRatings: []*genai.SafetyRating{
				{Category: genai.HarmCategoryDangerousContent, Blocked: true},
			},
		},
	}

	_, err := convertResponse(resp)
	var safetyErr *SafetyFilterError
	if !errors.As(err, &safetyErr) {
		t.Fatalf("error = %v, want *SafetyFilterError", err)
	}
	if safetyErr.Category() == "" || safetyErr.Reason() == "" {
		t.Errorf("Category = %q, Reason = %q, want both set", safetyErr.Category(), safetyErr.Reason())
	}
}

func TestConvertResponse_TextAndToolCalls(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Parts: []genai.Part{
					genai.Text("Looking that up."),
					genai.FunctionCall{Name: "lookup", Args: map[string]any{"id": "42"}},
				},
			},
		}},
	}

	out, err := convertResponse(resp)
	if err != nil {
		t.Fatalf("convertResponse() error = %v", err)
	}
	if out.Text != "Looking that up." {
		t.Errorf("Text = %q", out.Text)
	}
	if len(out.ToolCalls) != 1 || out.ToolCalls[0].Name != "lookup" {
		t.Fatalf("ToolCalls = %+v", out.ToolCalls)
	}
	if out.ToolCalls[0].Input["id"] != "42" {
		t.Errorf("Input = %v", out.ToolCalls[0].Input)
	}
}
