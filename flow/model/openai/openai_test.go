package openai

import (
	"context"
	"errors"
	"testing"

	"github.com/flowgrid/flowgrid-go/flow/model"
)

type fakeClient struct {
	messages []model.Message
	tools    []model.ToolSpec
	out      model.ChatOut
	err      error
}

func (f *fakeClient) createCompletion(ctx context.Context, messages []model.Message, tools []model.ToolSpec) (model.ChatOut, error) {
	f.messages = messages
	f.tools = tools
	return f.out, f.err
}

func TestChatModel_PassesConversation(t *testing.T) {
	fake := &fakeClient{out: model.ChatOut{Text: "Paris"}}
	m := &ChatModel{client: fake}

	messages := []model.Message{
		{Role: model.RoleSystem, Content: "Be terse."},
		{Role: model.RoleUser, Content: "Capital of France?"},
	}
	out, err := m.Chat(context.Background(), messages, nil)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if out.Text != "Paris" {
		t.Errorf("Text = %q, want Paris", out.Text)
	}
	if len(fake.messages) != 2 {
		t.Errorf("messages = %d, want system kept in conversation", len(fake.messages))
	}
}

func TestChatModel_PassesTools(t *testing.T) {
	fake := &fakeClient{}
	m := &ChatModel{client: fake}

	tools := []model.ToolSpec{{
		Name:        "lookup",
		Description: "Look up a record",
		Schema: map[string]any{
			"type":       "object",
			"properties": map[string]any{"id": map[string]any{"type": "string"}},
		},
	}}
	if _, err := m.Chat(context.Background(), []model.Message{{Role: model.RoleUser, Content: "hi"}}, tools); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if len(fake.tools) != 1 || fake.tools[0].Name != "lookup" {
		t.Errorf("tools = %+v, want lookup passed through", fake.tools)
	}
}

func TestChatModel_PropagatesErrors(t *testing.T) {
	wantErr := errors.New("rate limit exceeded")
	m := &ChatModel{client: &fakeClient{err: wantErr}}

	if _, err := m.Chat(context.Background(), []model.Message{{Role: model.RoleUser, Content: "hi"}}, nil); !errors.Is(err, wantErr) {
		t.Errorf("Chat() error = %v, want provider error", err)
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
