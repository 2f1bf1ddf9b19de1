package services

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/brawltrack-backend/internal/data/repos"
	"github.com/yungbote/brawltrack-backend/internal/platform/brawlstars"
	"github.com/yungbote/brawltrack-backend/internal/platform/dbctx"
	"github.com/yungbote/brawltrack-backend/internal/platform/logger"
	"github.com/yungbote/brawltrack-backend/internal/services/aggregate"
)

type Dashboard struct {
	Players []aggregate.Record `json:"players"`
	Clubs   []aggregate.Record `json:"clubs"`
}

type DashboardService interface {
	Get(ctx context.Context, accountID uuid.UUID) (*Dashboard, error)
}

type dashboardService struct {
	log         *logger.Logger
	accountRepo repos.AccountRepo
	client      brawlstars.Client
	aggregator  *aggregate.Aggregator
}

func NewDashboardService(
	log *logger.Logger,
	accountRepo repos.AccountRepo,
	client brawlstars.Client,
	aggregator *aggregate.Aggregator,
) DashboardService {
	return &dashboardService{
		log:         log.With("service", "DashboardService"),
		accountRepo: accountRepo,
		client:      client,
		aggregator:  aggregator,
	}
}

// Get reads the account once and looks up every stored player and club tag
// concurrently. Tags whose lookup fails are missing from the result.
func (s *dashboardService) Get(ctx context.Context, accountID uuid.UUID) (*Dashboard, error) {
	if s.client == nil || !s.client.Configured() {
		return nil, brawlstars.ErrNotConfigured
	}
	acct, err := s.accountRepo.GetByID(dbctx.Context{Ctx: ctx}, accountID)
	if err != nil {
		if errors.Is(err, repos.ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	players, clubs := acct.Tags()

	// Both kinds fan out together; each goroutine owns one field.
	dash := &Dashboard{}
	var g errgroup.Group
	g.Go(func() error {
		dash.Players = s.aggregator.Aggregate(ctx, string(brawlstars.KindPlayer), players, s.lookup(brawlstars.KindPlayer))
		return nil
	})
	g.Go(func() error {
		dash.Clubs = s.aggregator.Aggregate(ctx, string(brawlstars.KindClub), clubs, s.lookup(brawlstars.KindClub))
		return nil
	})
	_ = g.Wait()
	return dash, nil
}

func (s *dashboardService) lookup(kind brawlstars.Kind) aggregate.LookupFunc {
	return func(ctx context.Context, tag string) (json.RawMessage, error) {
		return s.client.Lookup(ctx, kind, tag)
	}
}
