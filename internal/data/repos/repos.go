package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/brawltrack-backend/internal/data/repos/account"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
)

type AccountRepo = account.AccountRepo
type AccountTokenRepo = account.AccountTokenRepo

var (
	ErrAccountNotFound = account.ErrNotFound
	ErrDuplicateEmail  = account.ErrDuplicateEmail
	ErrPlaintextSecret = account.ErrPlaintextSecret
	ErrTokenNotFound   = account.ErrTokenNotFound
)

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
	return account.NewAccountRepo(db, baseLog)
}

func NewAccountTokenRepo(db *gorm.DB, baseLog *logger.Logger) AccountTokenRepo {
	return account.NewAccountTokenRepo(db, baseLog)
}
