package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/brawltrack-backend/internal/data/repos"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
)

type Repos struct {
	Account      repos.AccountRepo
	AccountToken repos.AccountTokenRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Account:      repos.NewAccountRepo(db, log),
		AccountToken: repos.NewAccountTokenRepo(db, log),
	}
}
