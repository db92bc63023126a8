package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func intp(v int) *int { return &v }

func TestSuggestionsMapsAndClamps(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()
	st := mustStore(t, repo, "")
	low := mustItem(t, repo, st.ID, "Aata", 4, 20, 10)
	mustItem(t, repo, st.ID, "Dal", 30, 40, 10)
	for i := 0; i < 20; i++ {
		mustSale(t, repo, st.ID, low.ID, 1, time.Now().Add(-time.Duration(i)*time.Hour))
	}

	ai := &fakeLLM{replies: []string{`{
		"discountSuggestions":[
			{"itemName":" aata ","suggestedPercent":80,"applyQty":9,"reason":"Low stock"},
			{"itemName":"Ghost","suggestedPercent":5,"applyQty":1}
		],
		"insights":"Aata is running low."}`}}
	svc := NewAIService(repo, ai, "primary", nil, zap.NewNop())

	resp, err := svc.Suggestions(ctx, st.ID, SuggestionsRequest{UserDiscountConfig: DiscountConfig{MaxDiscount: intp(30)}})
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(resp.DiscountSuggestions) != 1 {
		t.Fatalf("suggestions = %+v", resp.DiscountSuggestions)
	}
	s := resp.DiscountSuggestions[0]
	if s.ItemID != low.ID || s.SuggestedPercent != 30 || s.ApplyQty != 4 || s.SalesVelocity != "0.67" {
		t.Fatalf("suggestion = %+v", s)
	}
	if resp.Insights != "Aata is running low." || resp.Summary == nil || resp.Summary.LowStock != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	// Dal has healthy stock but no sales, so it is flagged for slow velocity.
	if resp.Summary.AlertsCount != 2 || len(resp.Alerts) != 2 {
		t.Fatalf("alerts = %+v", resp.Alerts)
	}
	if ai.calls[0].ResponseFormat == nil || ai.calls[0].MaxTokens != 700 {
		t.Fatalf("request = %+v", ai.calls[0])
	}
}

func TestSuggestionsRetriesWithoutResponseFormatThenFails(t *testing.T) {
	repo := newRepo(t)
	st := mustStore(t, repo, "")
	mustItem(t, repo, st.ID, "Aata", 1, 5, 10)
	ai := &fakeLLM{errs: []error{errors.New("500"), errors.New("500")}}
	svc := NewAIService(repo, ai, "primary", nil, zap.NewNop())

	resp, err := svc.Suggestions(context.Background(), st.ID, SuggestionsRequest{})
	if !errors.Is(err, ErrAIUnavailable) {
		t.Fatalf("err = %v, want ErrAIUnavailable", err)
	}
	if resp == nil || len(resp.Alerts) != 1 || resp.Error == "" {
		t.Fatalf("resp = %+v", resp)
	}
	if len(ai.calls) != 2 || ai.calls[1].ResponseFormat != nil {
		t.Fatalf("calls = %+v", ai.calls)
	}
}

func TestSuggestionsNoAlerts(t *testing.T) {
	repo := newRepo(t)
	st := mustStore(t, repo, "")
	ai := &fakeLLM{}
	resp, err := NewAIService(repo, ai, "m", nil, zap.NewNop()).Suggestions(context.Background(), st.ID, SuggestionsRequest{})
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(resp.Alerts) != 0 || len(ai.calls) != 0 {
		t.Fatalf("resp = %+v, calls = %d", resp, len(ai.calls))
	}
}

func TestParseSuggestionsLineFallback(t *testing.T) {
	got := parseSuggestions("Sure!\nItem: Sugar | cut price\nnothing here\nitem Salt", 12)
	if len(got.DiscountSuggestions) != 2 {
		t.Fatalf("parsed = %+v", got)
	}
	if got.DiscountSuggestions[0].ItemName != "Sugar" || *got.DiscountSuggestions[0].SuggestedPercent != 12 {
		t.Fatalf("first = %+v", got.DiscountSuggestions[0])
	}
}

func TestFestivalSuggestions(t *testing.T) {
	svc := NewAIService(newRepo(t), &fakeLLM{
		errs:    []error{errors.New("busy")},
		replies: []string{"", `Here you go: {"suggestions":["Jaggery 2 kg","Ghee 1 L"]}`},
	}, "a", []string{"b"}, zap.NewNop())
	got, err := svc.FestivalSuggestions(context.Background(), FestivalRequest{FestivalName: "Pongal", DaysUntil: 3})
	if err != nil {
		t.Fatalf("festival: %v", err)
	}
	if len(got) != 2 || got[0] != "Jaggery 2 kg" {
		t.Fatalf("got %v", got)
	}

	mock := NewAIService(newRepo(t), &fakeLLM{}, "a", nil, zap.NewNop())
	got, err = mock.FestivalSuggestions(context.Background(), FestivalRequest{FestivalName: "Diwali"})
	if err != nil || got[0] != "Oil 5 L" {
		t.Fatalf("mock = %v, err %v", got, err)
	}
	got, _ = mock.FestivalSuggestions(context.Background(), FestivalRequest{FestivalName: "Onam"})
	if got[0] != "Rice 5 kg" {
		t.Fatalf("default mock = %v", got)
	}
}

func TestApplyDiscount(t *testing.T) {
	repo := newRepo(t)
	st := mustStore(t, repo, "")
	it := mustItem(t, repo, st.ID, "Tea", 5, 5, 2)
	svc := NewAIService(repo, &fakeLLM{}, "m", nil, zap.NewNop())

	got, err := svc.ApplyDiscount(context.Background(), st.ID, ApplyDiscountRequest{ItemID: it.ID, DiscountPercent: intp(15), ApplyQty: intp(3)})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	stored, _ := repo.Items.FindByID(context.Background(), st.ID, it.ID)
	if got.DiscountPercent != 15 || stored.DiscountPercent != 15 || stored.DiscountQty != 3 {
		t.Fatalf("stored = %+v", stored)
	}
	if _, err := svc.ApplyDiscount(context.Background(), st.ID, ApplyDiscountRequest{ItemID: it.ID, DiscountPercent: intp(150), ApplyQty: intp(1)}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("out of range err = %v", err)
	}
}
