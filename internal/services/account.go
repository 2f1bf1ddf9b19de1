package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/brawltrack-backend/internal/data/repos"
	types "github.com/yungbote/brawltrack-backend/internal/domain"
	"github.com/yungbote/brawltrack-backend/internal/platform/dbctx"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
)

type AccountService interface {
	Register(ctx context.Context, ws types.AccountWriteSet) (*types.AccountView, error)
	Get(ctx context.Context, id uuid.UUID) (*types.AccountView, error)
	Update(ctx context.Context, id uuid.UUID, ws types.AccountWriteSet) (*types.AccountView, error)
}

type accountService struct {
	db          *gorm.DB
	log         *logger.Logger
	guard       *CredentialGuard
	accountRepo repos.AccountRepo
}

func NewAccountService(db *gorm.DB, log *logger.Logger, guard *CredentialGuard, accountRepo repos.AccountRepo) AccountService {
	return &accountService{
		db:          db,
		log:         log.With("service", "AccountService"),
		guard:       guard,
		accountRepo: accountRepo,
	}
}

func (s *accountService) Register(ctx context.Context, ws types.AccountWriteSet) (*types.AccountView, error) {
	ws = normalizeAccountWrite(ws)
	if err := validateAccountWrite(ws, true); err != nil {
		return nil, err
	}
	guarded, err := s.guard.PrepareCreate(ws)
	if err != nil {
		return nil, err
	}

	acct := &types.Account{
		Email:    *guarded.Email,
		Password: *guarded.Password,
	}
	if guarded.PlayerTags != nil {
		acct.PlayerTags = append(acct.PlayerTags, (*guarded.PlayerTags)...)
	}
	if guarded.ClubTags != nil {
		acct.ClubTags = append(acct.ClubTags, (*guarded.ClubTags)...)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		exists, err := s.accountRepo.EmailExists(dbc, acct.Email)
		if err != nil {
			return fmt.Errorf("check email: %w", err)
		}
		if exists {
			return ErrDuplicateAccount
		}
		if _, err := s.accountRepo.Create(dbc, acct); err != nil {
			if errors.Is(err, repos.ErrDuplicateEmail) {
				return ErrDuplicateAccount
			}
			return fmt.Errorf("create account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("account registered", "account_id", acct.ID, "email", acct.Email)
	return types.NewAccountView(acct), nil
}

func (s *accountService) Get(ctx context.Context, id uuid.UUID) (*types.AccountView, error) {
	acct, err := s.load(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, err
	}
	return types.NewAccountView(acct), nil
}

// Update applies a partial write. Tag lists replace the stored lists.
func (s *accountService) Update(ctx context.Context, id uuid.UUID, ws types.AccountWriteSet) (*types.AccountView, error) {
	ws = normalizeAccountWrite(ws)
	if ws.Empty() {
		return s.Get(ctx, id)
	}
	if err := validateAccountWrite(ws, false); err != nil {
		return nil, err
	}
	guarded, err := s.guard.PrepareUpdate(ws)
	if err != nil {
		return nil, err
	}

	var out *types.Account
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := s.load(dbc, id)
		if err != nil {
			return err
		}
		if guarded.Email != nil && *guarded.Email != current.Email {
			exists, err := s.accountRepo.EmailExists(dbc, *guarded.Email)
			if err != nil {
				return fmt.Errorf("check email: %w", err)
			}
			if exists {
				return ErrDuplicateAccount
			}
		}
		if err := s.accountRepo.Update(dbc, id, guarded); err != nil {
			switch {
			case errors.Is(err, repos.ErrAccountNotFound):
				return ErrAccountNotFound
			case errors.Is(err, repos.ErrDuplicateEmail):
				return ErrDuplicateAccount
			}
			return fmt.Errorf("update account: %w", err)
		}
		out, err = s.load(dbc, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("account updated", "account_id", id, "fields", ws.Fields())
	return types.NewAccountView(out), nil
}

func (s *accountService) load(dbc dbctx.Context, id uuid.UUID) (*types.Account, error) {
	acct, err := s.accountRepo.GetByID(dbc, id)
	if err != nil {
		if errors.Is(err, repos.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	return acct, nil
}
