package services

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/yungbote/brawltrack-backend/internal/data/repos"
	"github.com/yungbote/brawltrack-backend/internal/data/repos/testutil"
	"github.com/yungbote/brawltrack-backend/internal/platform/authtoken"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
	"github.com/yungbote/brawltrack-backend/internal/platform/passhash"
)

type testEnv struct {
	db       *gorm.DB
	log      *logger.Logger
	guard    *CredentialGuard
	accounts repos.AccountRepo
	tokens   repos.AccountTokenRepo
	issuer   *authtoken.Issuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SQLite(t)
	log := testutil.Logger(t)
	issuer, err := authtoken.NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}
	return &testEnv{
		db:       db,
		log:      log,
		guard:    NewCredentialGuard(passhash.New(bcrypt.MinCost)),
		accounts: repos.NewAccountRepo(db, log),
		tokens:   repos.NewAccountTokenRepo(db, log),
		issuer:   issuer,
	}
}

func (e *testEnv) accountService() AccountService {
	return NewAccountService(e.db, e.log, e.guard, e.accounts)
}

func (e *testEnv) authService() AuthService {
	return NewAuthService(e.db, e.log, e.guard, e.issuer, e.accounts, e.tokens)
}

func strPtr(s string) *string { return &s }

func tagsPtr(tags ...string) *[]string {
	out := append([]string{}, tags...)
	return &out
}
