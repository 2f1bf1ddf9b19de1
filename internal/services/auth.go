package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/brawltrack-backend/internal/data/repos"
	types "github.com/yungbote/brawltrack-backend/internal/domain"
	"github.com/yungbote/brawltrack-backend/internal/platform/authtoken"
	"github.com/yungbote/brawltrack-backend/internal/platform/ctxutil"
	"github.com/yungbote/brawltrack-backend/internal/platform/dbctx"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
)

type LoginResult struct {
	AccessToken string             `json:"access_token"`
	ExpiresIn   int64              `json:"expires_in"`
	Account     *types.AccountView `json:"user"`
}

type AuthService interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	AccessTTL() time.Duration
}

type authService struct {
	db          *gorm.DB
	log         *logger.Logger
	guard       *CredentialGuard
	issuer      *authtoken.Issuer
	accountRepo repos.AccountRepo
	tokenRepo   repos.AccountTokenRepo
	now         func() time.Time
}

func NewAuthService(
	db *gorm.DB,
	log *logger.Logger,
	guard *CredentialGuard,
	issuer *authtoken.Issuer,
	accountRepo repos.AccountRepo,
	tokenRepo repos.AccountTokenRepo,
) AuthService {
	return &authService{
		db:          db,
		log:         log.With("service", "AuthService"),
		guard:       guard,
		issuer:      issuer,
		accountRepo: accountRepo,
		tokenRepo:   tokenRepo,
		now:         time.Now,
	}
}

func (as *authService) AccessTTL() time.Duration { return as.issuer.TTL() }

// Login answers a wrong email and a wrong password with the same error.
func (as *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateLogin(email, password); err != nil {
		return nil, err
	}

	acct, err := as.accountRepo.GetByEmail(dbctx.Context{Ctx: ctx}, email)
	if err != nil {
		if errors.Is(err, repos.ErrAccountNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("load account: %w", err)
	}
	if err := as.guard.Verify(acct.Password, password); err != nil {
		as.log.Debug("login rejected", "account_id", acct.ID)
		return nil, ErrInvalidCredentials
	}

	tokenID := uuid.New()
	signed, expiresAt, err := as.issuer.Issue(acct.ID, tokenID)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if n, err := as.tokenRepo.DeleteExpired(dbc, as.now()); err != nil {
			as.log.Warn("failed to prune expired tokens", "error", err)
		} else if n > 0 {
			as.log.Debug("pruned expired tokens", "count", n)
		}
		_, err := as.tokenRepo.Create(dbc, &types.AccountToken{
			ID:          tokenID,
			AccountID:   acct.ID,
			AccessToken: signed,
			ExpiresAt:   expiresAt,
		})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}

	return &LoginResult{
		AccessToken: signed,
		ExpiresIn:   int64(as.issuer.TTL().Seconds()),
		Account:     types.NewAccountView(acct),
	}, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.TokenID == uuid.Nil {
		return ErrUnauthorized
	}
	if err := as.tokenRepo.DeleteByIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{rd.TokenID}); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// SetContextFromToken verifies the bearer token and that its session row is
// still live, then stores the caller identity on the returned context.
func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims, err := as.issuer.Parse(tokenString)
	if err != nil {
		return ctx, ErrUnauthorized
	}
	accountID, err := claims.AccountID()
	if err != nil {
		return ctx, ErrUnauthorized
	}
	tokenID, err := claims.TokenID()
	if err != nil {
		return ctx, ErrUnauthorized
	}

	row, err := as.tokenRepo.GetByID(dbctx.Context{Ctx: ctx}, tokenID)
	if err != nil {
		if errors.Is(err, repos.ErrTokenNotFound) {
			return ctx, ErrUnauthorized
		}
		return ctx, fmt.Errorf("load token: %w", err)
	}
	if row.AccountID != accountID || row.AccessToken != tokenString || row.Expired(as.now()) {
		return ctx, ErrUnauthorized
	}

	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		TokenString: tokenString,
		TokenID:     tokenID,
		AccountID:   accountID,
	}), nil
}
