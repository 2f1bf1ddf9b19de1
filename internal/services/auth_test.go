package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/brawltrack-backend/internal/domain"
	"github.com/yungbote/brawltrack-backend/internal/platform/ctxutil"
)

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.accountService().Register(ctx, types.AccountWriteSet{
		Email:    strPtr("a@b.com"),
		Password: strPtr("hunter22"),
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	auth := env.authService()
	if _, err := auth.Login(ctx, "a@b.com", "hunter23"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for the wrong secret, got %v", err)
	}

	res, err := auth.Login(ctx, "a@b.com", "hunter22")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken == "" {
		t.Fatalf("expected a non-empty token")
	}
	if res.Account == nil || res.Account.ID != view.ID {
		t.Fatalf("expected the account id in the result, got %+v", res.Account)
	}
	if res.ExpiresIn <= 0 {
		t.Fatalf("expected positive expires_in, got %d", res.ExpiresIn)
	}
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.authService().Login(context.Background(), "nobody@b.com", "hunter22")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLoginValidation(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.authService().Login(context.Background(), "", "")
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if ve.Fields["email"] == "" || ve.Fields["password"] == "" {
		t.Fatalf("expected email and password errors, got %v", ve.Fields)
	}
}

func TestTokenLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.accountService().Register(ctx, types.AccountWriteSet{Email: strPtr("tok@b.com"), Password: strPtr("pw")})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	auth := env.authService()
	res, err := auth.Login(ctx, "tok@b.com", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	authed, err := auth.SetContextFromToken(ctx, res.AccessToken)
	if err != nil {
		t.Fatalf("SetContextFromToken: %v", err)
	}
	rd := ctxutil.GetRequestData(authed)
	if rd == nil || rd.AccountID != view.ID || rd.TokenID == uuid.Nil {
		t.Fatalf("unexpected request data: %+v", rd)
	}

	if err := auth.Logout(authed); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := auth.SetContextFromToken(ctx, res.AccessToken); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}

	if _, err := auth.SetContextFromToken(ctx, "not-a-jwt"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected garbage token to be rejected, got %v", err)
	}
	if err := auth.Logout(ctx); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected Logout without identity to fail, got %v", err)
	}
}
