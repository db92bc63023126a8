package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-mart-inventory/internal/llm"

	"go.uber.org/zap"
)

func TestChatAsk(t *testing.T) {
	repo := newRepo(t)
	st := mustStore(t, repo, "")
	mustItem(t, repo, st.ID, "Jaggery", 3, 8, 5)

	ai := &fakeLLM{replies: []string{"You have 3 Jaggery on the shelf."}}
	svc := NewChatService(repo, ai, "chat-model", zap.NewNop())
	reply, err := svc.Ask(context.Background(), st.ID, "how much jaggery?")
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if reply != "You have 3 Jaggery on the shelf." {
		t.Fatalf("reply = %q", reply)
	}
	req := ai.calls[0]
	if req.Model != "chat-model" || len(req.Messages) != 2 || !strings.Contains(req.Messages[0].Content, "Jaggery") {
		t.Fatalf("request = %+v", req)
	}
}

func TestChatFallbacks(t *testing.T) {
	repo := newRepo(t)
	st := mustStore(t, repo, "")

	cases := []struct {
		name string
		ai   *fakeLLM
		want string
	}{
		{"not configured", &fakeLLM{errs: []error{llm.ErrNotConfigured}}, chatNotConfigured},
		{"provider down", &fakeLLM{errs: []error{errors.New("503")}}, chatUnreachable},
		{"empty reply", &fakeLLM{replies: []string{""}}, chatEmpty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reply, err := NewChatService(repo, tc.ai, "m", zap.NewNop()).Ask(context.Background(), st.ID, "hi")
			if err != nil || reply != tc.want {
				t.Fatalf("reply = %q, err = %v", reply, err)
			}
		})
	}

	if _, err := NewChatService(repo, &fakeLLM{}, "m", zap.NewNop()).Ask(context.Background(), st.ID, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty query err = %v", err)
	}
}
