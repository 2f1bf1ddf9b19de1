package account

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/brawltrack-backend/internal/domain"
	"github.com/yungbote/brawltrack-backend/internal/platform/dbctx"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
	"github.com/yungbote/brawltrack-backend/internal/platform/passhash"
)

var (
	ErrNotFound       = errors.New("account not found")
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrPlaintextSecret means a password column was about to be written with
	// something that is not a bcrypt hash.
	ErrPlaintextSecret = errors.New("refusing to persist a non-derived password")
)

type AccountRepo interface {
	Create(dbc dbctx.Context, acct *types.Account) (*types.Account, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Account, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.Account, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	Update(dbc dbctx.Context, id uuid.UUID, ws types.AccountWriteSet) error
}

type accountRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
	return &accountRepo{db: db, log: baseLog.With("repo", "AccountRepo")}
}

func (r *accountRepo) Create(dbc dbctx.Context, acct *types.Account) (*types.Account, error) {
	if acct == nil {
		return nil, fmt.Errorf("nil account")
	}
	if !passhash.IsHash(acct.Password) {
		return nil, ErrPlaintextSecret
	}
	if acct.ID == uuid.Nil {
		acct.ID = uuid.New()
	}
	if acct.PlayerTags == nil {
		acct.PlayerTags = datatypes.JSONSlice[string]{}
	}
	if acct.ClubTags == nil {
		acct.ClubTags = datatypes.JSONSlice[string]{}
	}
	if err := dbc.DB(r.db).Create(acct).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return acct, nil
}

func (r *accountRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Account, error) {
	if id == uuid.Nil {
		return nil, ErrNotFound
	}
	var row types.Account
	if err := dbc.DB(r.db).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *accountRepo) GetByEmail(dbc dbctx.Context, email string) (*types.Account, error) {
	if email == "" {
		return nil, ErrNotFound
	}
	var row types.Account
	if err := dbc.DB(r.db).Where("email = ?", email).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *accountRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.Account{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Update writes only the columns present in ws. Tag lists replace the stored lists.
func (r *accountRepo) Update(dbc dbctx.Context, id uuid.UUID, ws types.AccountWriteSet) error {
	if id == uuid.Nil {
		return ErrNotFound
	}
	updates := map[string]any{}
	if ws.Email != nil {
		updates["email"] = *ws.Email
	}
	if ws.Password != nil {
		if !passhash.IsHash(*ws.Password) {
			return ErrPlaintextSecret
		}
		updates["password"] = *ws.Password
	}
	if ws.PlayerTags != nil {
		updates["player_tags"] = datatypes.NewJSONSlice(append([]string{}, (*ws.PlayerTags)...))
	}
	if ws.ClubTags != nil {
		updates["club_tags"] = datatypes.NewJSONSlice(append([]string{}, (*ws.ClubTags)...))
	}

	res := dbc.DB(r.db).Model(&types.Account{}).Where("id = ?", id)
	if len(updates) == 0 {
		var count int64
		if err := res.Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrNotFound
		}
		return nil
	}
	res = res.Updates(updates)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
