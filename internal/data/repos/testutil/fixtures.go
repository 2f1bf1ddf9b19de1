package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/brawltrack-backend/internal/domain"
)

// SeedAccount inserts an account whose password is the bcrypt hash of plain.
func SeedAccount(tb testing.TB, ctx context.Context, tx *gorm.DB, email, plain string, playerTags ...string) *types.Account {
	tb.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		tb.Fatalf("hash: %v", err)
	}
	a := &types.Account{
		ID:         uuid.New(),
		Email:      email,
		Password:   string(hash),
		PlayerTags: datatypes.NewJSONSlice(append([]string{}, playerTags...)),
		ClubTags:   datatypes.JSONSlice[string]{},
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed account: %v", err)
	}
	return a
}
