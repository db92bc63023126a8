package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-mart-inventory/pkg/jwt"

	"go.uber.org/zap"
)

func newAuth(t *testing.T) (*authService, *fakeMailer, *jwt.Manager) {
	t.Helper()
	tokens := jwt.NewManager("test-secret", time.Hour)
	mailer := &fakeMailer{}
	svc := NewAuthService(newRepo(t), tokens, mailer, "http://front.test/", zap.NewNop()).(*authService)
	return svc, mailer, tokens
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, tokens := newAuth(t)
	ctx := context.Background()

	reg, err := svc.Register(ctx, RegisterRequest{Name: "Asha", Email: " Asha@Shop.in ", Password: "secret1", StoreName: "Asha Stores"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Store == nil || reg.Store.Name != "Asha Stores" || reg.Store.OwnerID != reg.User.ID {
		t.Fatalf("store = %+v", reg.Store)
	}
	claims, err := tokens.ValidateToken(reg.Token)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if claims.StoreID == nil || *claims.StoreID != reg.Store.ID || claims.Role != "owner" {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := svc.Register(ctx, RegisterRequest{Name: "B", Email: "asha@shop.in", Password: "secret2"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate register err = %v", err)
	}

	login, err := svc.Login(ctx, LoginRequest{Email: "asha@shop.in", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.StoreID == nil || *login.User.StoreID != reg.Store.ID {
		t.Fatalf("login user = %+v", login.User)
	}
	if _, err := svc.Login(ctx, LoginRequest{Email: "asha@shop.in", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password err = %v", err)
	}
	if _, err := svc.Login(ctx, LoginRequest{Email: "nobody@shop.in", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user err = %v", err)
	}
}

func TestRegisterValidates(t *testing.T) {
	svc, _, _ := newAuth(t)
	_, err := svc.Register(context.Background(), RegisterRequest{Name: "A", Email: "not-an-email", Password: "secret1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, mailer, _ := newAuth(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterRequest{Name: "Ravi", Email: "ravi@shop.in", Password: "oldpass"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ForgotPassword(ctx, "ravi@shop.in"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	if len(mailer.sent) != 1 {
		t.Fatalf("emails sent = %d", len(mailer.sent))
	}
	link, _ := mailer.sent[0].Data["ResetURL"].(string)
	const prefix = "http://front.test/reset-password/"
	if !strings.HasPrefix(link, prefix) {
		t.Fatalf("reset link = %q", link)
	}
	token := strings.TrimPrefix(link, prefix)

	if err := svc.ResetPassword(ctx, token, "newpass"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := svc.Login(ctx, LoginRequest{Email: "ravi@shop.in", Password: "newpass"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if err := svc.ResetPassword(ctx, token, "again1"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("token reuse err = %v", err)
	}

	if err := svc.ForgotPassword(ctx, "nobody@shop.in"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("unknown email err = %v", err)
	}
}

func TestResetTokenExpires(t *testing.T) {
	svc, mailer, _ := newAuth(t)
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterRequest{Name: "Ravi", Email: "ravi@shop.in", Password: "oldpass"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.ForgotPassword(ctx, "ravi@shop.in"); err != nil {
		t.Fatalf("forgot: %v", err)
	}
	link := mailer.sent[0].Data["ResetURL"].(string)
	token := link[strings.LastIndex(link, "/")+1:]

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if err := svc.ResetPassword(ctx, token, "newpass"); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expired token err = %v", err)
	}
}

func TestGoogleLoginCreatesThenLinks(t *testing.T) {
	svc, _, _ := newAuth(t)
	ctx := context.Background()

	first, err := svc.GoogleLogin(ctx, GoogleLoginRequest{GoogleID: "g-1", Email: "meena@shop.in", Name: "Meena"})
	if err != nil {
		t.Fatalf("google login: %v", err)
	}
	if first.Store == nil || first.Store.Name != "Meena's store" {
		t.Fatalf("store = %+v", first.Store)
	}
	again, err := svc.GoogleLogin(ctx, GoogleLoginRequest{GoogleID: "g-1", Email: "meena@shop.in"})
	if err != nil {
		t.Fatalf("second google login: %v", err)
	}
	if again.User.ID != first.User.ID || again.Store != nil {
		t.Fatalf("second login created a new account: %+v", again)
	}
}
