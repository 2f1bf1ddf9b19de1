package tokensweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yungbote/brawltrack-backend/internal/data/repos"
	"github.com/yungbote/brawltrack-backend/internal/data/repos/testutil"
	types "github.com/yungbote/brawltrack-backend/internal/domain"
	"github.com/yungbote/brawltrack-backend/internal/platform/dbctx"
)

func TestSweeperRemovesExpiredTokens(t *testing.T) {
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	tokens := repos.NewAccountTokenRepo(db, log)

	acct := testutil.SeedAccount(t, ctx, db, "sweep@example.com", "pw")
	now := time.Now().UTC()
	stale, err := tokens.Create(dbctx.Context{Ctx: ctx}, &types.AccountToken{AccountID: acct.ID, AccessToken: "stale", ExpiresAt: now.Add(-time.Minute)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	live, err := tokens.Create(dbctx.Context{Ctx: ctx}, &types.AccountToken{AccountID: acct.ID, AccessToken: "live", ExpiresAt: now.Add(time.Hour)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	s := New(log, tokens)
	s.now = func() time.Time { return now }
	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := tokens.GetByID(dbctx.Context{Ctx: ctx}, stale.ID); !errors.Is(err, repos.ErrTokenNotFound) {
		t.Fatalf("expected stale token to be removed, got %v", err)
	}
	if _, err := tokens.GetByID(dbctx.Context{Ctx: ctx}, live.ID); err != nil {
		t.Fatalf("live token should remain: %v", err)
	}
}
