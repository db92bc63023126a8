package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"ai-mart-inventory/internal/calendar"
	"ai-mart-inventory/internal/middleware"
	"ai-mart-inventory/internal/model"
	"ai-mart-inventory/internal/refill"
	"ai-mart-inventory/internal/repository"
	"ai-mart-inventory/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var testStore = uuid.New()

// fakeAuth stands in for RequireAuth: the role comes from X-Role.
func fakeAuth(c *fiber.Ctx) error {
	role := c.Get("X-Role", model.RoleOwner)
	c.Locals(middleware.LocalUserID, uuid.New())
	c.Locals(middleware.LocalRole, role)
	c.Locals(middleware.LocalStoreID, testStore)
	return c.Next()
}

type stubAuth struct{ service.AuthService }

func (stubAuth) Login(_ context.Context, req service.LoginRequest) (*service.AuthResponse, error) {
	if req.Password != "right" {
		return nil, service.ErrInvalidCredentials
	}
	return &service.AuthResponse{Token: "tok"}, nil
}

type stubItems struct {
	service.ItemService
	item *model.Item
}

func (s stubItems) Get(_ context.Context, storeID, id uuid.UUID) (*model.Item, error) {
	if s.item == nil || id != s.item.ID || storeID != testStore {
		return nil, service.ErrItemNotFound
	}
	return s.item, nil
}

func (s stubItems) List(context.Context, uuid.UUID, repository.ItemFilter) ([]model.Item, error) {
	return nil, errors.New("db down")
}

type stubRunner struct{ got *refill.Options }

func (r *stubRunner) Run(_ context.Context, storeID uuid.UUID, opts refill.Options) (*refill.Result, error) {
	*r.got = opts
	return &refill.Result{StoreID: storeID, DryRun: opts.DryRun, Message: refill.MessageComplete}, nil
}

type stubAI struct{ service.AIService }

func (stubAI) Suggestions(context.Context, uuid.UUID, service.SuggestionsRequest) (*service.SuggestionsResponse, error) {
	return &service.SuggestionsResponse{Error: "AI provider failed", Alerts: []service.StockAlert{{ItemName: "Rice"}}}, service.ErrAIUnavailable
}

type stubAnalytics struct{ service.AnalyticsService }

func (stubAnalytics) LowestStock(context.Context, uuid.UUID) (*model.Item, error) { return nil, nil }

type stubCalendar struct{}

func (stubCalendar) Festivals(context.Context) ([]calendar.Festival, error) {
	return []calendar.Festival{{Name: "Holi"}}, nil
}
func (stubCalendar) Upcoming(context.Context, int) ([]calendar.Festival, error) { return nil, nil }

func newApp(t *testing.T, item *model.Item, opts *refill.Options) *fiber.App {
	t.Helper()
	log := zap.NewNop()
	app := fiber.New()
	Register(app, Handlers{
		Auth:      NewAuthHandler(stubAuth{}, log),
		Items:     NewItemHandler(stubItems{item: item}, log),
		Sales:     NewSaleHandler(nil, nil, log),
		Refill:    NewRefillHandler(&stubRunner{got: opts}, log),
		Stores:    NewStoreHandler(nil, nil, log),
		Analytics: NewAnalyticsHandler(stubAnalytics{}, log),
		Calendar:  NewCalendarHandler(stubCalendar{}, log),
		AI:        NewAIHandler(stubAI{}, nil, log),
	}, fakeAuth)
	return app
}

func call(t *testing.T, app *fiber.App, method, path string, body any, headers ...string) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func TestErrorStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad", service.ErrInvalidInput), http.StatusBadRequest},
		{service.ErrInsufficientStock, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrItemNotFound, http.StatusNotFound},
		{refill.ErrStoreNotFound, http.StatusNotFound},
		{service.ErrAIUnavailable, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := errorStatus(tc.err); got != tc.want {
			t.Errorf("errorStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestLogin(t *testing.T) {
	app := newApp(t, nil, &refill.Options{})
	if code, _ := call(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "a@b.c", "password": "right"}); code != http.StatusOK {
		t.Fatalf("login status = %d", code)
	}
	if code, _ := call(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "a@b.c", "password": "nope"}); code != http.StatusUnauthorized {
		t.Fatalf("bad login status = %d", code)
	}
	if code, _ := call(t, app, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "a@b.c"}); code != http.StatusBadRequest {
		t.Fatalf("missing password status = %d", code)
	}
}

func TestItemRoutes(t *testing.T) {
	item := &model.Item{Name: "Rice"}
	item.ID = uuid.New()
	app := newApp(t, item, &refill.Options{})

	code, body := call(t, app, http.MethodGet, "/api/v1/items/"+item.ID.String(), nil)
	if code != http.StatusOK || !bytes.Contains(body, []byte(`"Rice"`)) {
		t.Fatalf("get = %d %s", code, body)
	}
	if code, _ := call(t, app, http.MethodGet, "/api/v1/items/"+uuid.NewString(), nil); code != http.StatusNotFound {
		t.Fatalf("unknown item status = %d", code)
	}
	if code, _ := call(t, app, http.MethodGet, "/api/v1/items/not-a-uuid", nil); code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d", code)
	}
	code, body = call(t, app, http.MethodGet, "/api/v1/items/", nil)
	if code != http.StatusInternalServerError || bytes.Contains(body, []byte("db down")) {
		t.Fatalf("internal error leaked or wrong status: %d %s", code, body)
	}
}

func TestRefillTrigger(t *testing.T) {
	var got refill.Options
	app := newApp(t, nil, &got)

	code, body := call(t, app, http.MethodPost, "/api/v1/auto-refill/trigger?dry=1", nil)
	if code != http.StatusOK || !got.DryRun {
		t.Fatalf("dry trigger = %d %s, opts %+v", code, body, got)
	}
	var res refill.Result
	if err := json.Unmarshal(body, &res); err != nil || res.StoreID != testStore {
		t.Fatalf("result = %s (%v)", body, err)
	}

	for _, v := range []string{"yes", "on", "true"} {
		got = refill.Options{}
		code, _ = call(t, app, http.MethodPost, "/api/v1/auto-refill/trigger?dry="+v, nil)
		if code != http.StatusOK || !got.DryRun {
			t.Fatalf("dry=%s trigger = %d, opts %+v", v, code, got)
		}
	}

	code, _ = call(t, app, http.MethodPost, "/api/v1/auto-refill/trigger?dry=", nil)
	if code != http.StatusOK || got.DryRun {
		t.Fatalf("empty dry trigger = %d, opts %+v", code, got)
	}

	code, _ = call(t, app, http.MethodPost, "/api/v1/auto-refill/trigger", nil)
	if code != http.StatusOK || got.DryRun {
		t.Fatalf("live trigger = %d, opts %+v", code, got)
	}

	if code, _ := call(t, app, http.MethodPost, "/api/v1/auto-refill/trigger", nil, "X-Role", model.RoleStaff); code != http.StatusForbidden {
		t.Fatalf("staff trigger status = %d", code)
	}
}

func TestSuggestionsBadGatewayKeepsAlerts(t *testing.T) {
	app := newApp(t, nil, &refill.Options{})
	code, body := call(t, app, http.MethodPost, "/api/v1/ai/suggestions", map[string]any{})
	if code != http.StatusBadGateway || !bytes.Contains(body, []byte("Rice")) {
		t.Fatalf("suggestions = %d %s", code, body)
	}
}

func TestEmptyResponses(t *testing.T) {
	app := newApp(t, nil, &refill.Options{})
	if code, body := call(t, app, http.MethodGet, "/api/v1/analytics/lowest-stock", nil); code != http.StatusOK || string(body) != "{}" {
		t.Fatalf("lowest-stock = %d %s", code, body)
	}
	if code, body := call(t, app, http.MethodGet, "/api/v1/calendar/upcoming", nil); code != http.StatusOK || string(body) != "[]" {
		t.Fatalf("upcoming = %d %s", code, body)
	}
}
