package account

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/brawltrack-backend/internal/domain"
	"github.com/yungbote/brawltrack-backend/internal/platform/dbctx"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
)

var ErrTokenNotFound = errors.New("token not found")

type AccountTokenRepo interface {
	Create(dbc dbctx.Context, tok *types.AccountToken) (*types.AccountToken, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AccountToken, error)
	DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error
	DeleteExpired(dbc dbctx.Context, now time.Time) (int64, error)
}

type accountTokenRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAccountTokenRepo(db *gorm.DB, baseLog *logger.Logger) AccountTokenRepo {
	return &accountTokenRepo{db: db, log: baseLog.With("repo", "AccountTokenRepo")}
}

func (r *accountTokenRepo) Create(dbc dbctx.Context, tok *types.AccountToken) (*types.AccountToken, error) {
	if tok.ID == uuid.Nil {
		tok.ID = uuid.New()
	}
	if err := dbc.DB(r.db).Create(tok).Error; err != nil {
		return nil, err
	}
	return tok, nil
}

func (r *accountTokenRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.AccountToken, error) {
	var row types.AccountToken
	if err := dbc.DB(r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *accountTokenRepo) DeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("id IN ?", ids).Delete(&types.AccountToken{}).Error
}

func (r *accountTokenRepo) DeleteExpired(dbc dbctx.Context, now time.Time) (int64, error) {
	res := dbc.DB(r.db).Where("expires_at <= ?", now).Delete(&types.AccountToken{})
	return res.RowsAffected, res.Error
}
