package services

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/server/config"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/parkdesk/internal/timex"
	"github.com/shopspring/decimal"
)

const (
	closureListDefault = 50
	closureListMax     = 200
)

// TreasuryService sums the till and records shift closures.
type TreasuryService struct {
	base
	capacity int
}

func NewTreasuryService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, opts ...Option) *TreasuryService {
	return &TreasuryService{base: newBase(db, m, "treasury", opts), capacity: cfg.Capacity}
}

// GetTreasury sums today's transactions, from UTC midnight through now.
// Nothing is counted at this point, so actual equals expected.
func (s *TreasuryService) GetTreasury(ctx context.Context) (*models.Treasury, error) {
	if _, err := authorize(ctx, permissions.TreasuryRead); err != nil {
		return nil, err
	}
	now := s.now()
	b, n, err := s.repomanager.Transactions(s.db).Summarize(ctx, transactions.Window{From: timex.StartOfDay(now), To: now})
	if err != nil {
		return nil, err
	}
	expected := b.Total()
	return &models.Treasury{
		ExpectedCash:      expected,
		ActualCash:        expected,
		Discrepancy:       decimal.Zero,
		TotalTransactions: n,
		Breakdown:         b,
	}, nil
}

// CloseShift snapshots the transactions since the previous closure of the
// day (or since midnight) into a new closure row. Discrepancy is counted
// cash minus the cash subtotal, or zero when nothing was counted.
func (s *TreasuryService) CloseShift(ctx context.Context, countedCash *decimal.Decimal, notes string) (*models.ShiftClosure, error) {
	if _, err := authorize(ctx, permissions.ShiftClose); err != nil {
		return nil, err
	}
	if countedCash != nil && countedCash.IsNegative() {
		return nil, validation("counted cash must be non-negative")
	}

	var c *models.ShiftClosure
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		now := s.now()
		w := transactions.Window{From: timex.StartOfDay(now), To: now}

		prev, err := s.repomanager.Closures(tx).LatestBetween(ctx, w.From, now)
		switch {
		case err == nil:
			w.From, w.AfterFrom = prev.ClosedAt, true
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		b, n, err := s.repomanager.Transactions(tx).Summarize(ctx, w)
		if err != nil {
			return err
		}

		c = &models.ShiftClosure{
			ID:                common.NewID(common.PrefixClosure),
			ClosedAt:          now,
			ExpectedTotal:     b.Total(),
			CashTotal:         b.Cash,
			CardTotal:         b.Card,
			TransferTotal:     b.Transfer,
			ArqueoCash:        countedCash,
			Discrepancy:       decimal.Zero,
			TotalTransactions: n,
		}
		if countedCash != nil {
			c.Discrepancy = countedCash.Sub(b.Cash)
		}
		if notes = strings.TrimSpace(notes); notes != "" {
			c.Notes = &notes
		}
		return s.repomanager.Closures(tx).Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "shift closed", "closure_id", c.ID, "expected", c.ExpectedTotal.String(),
		"discrepancy", c.Discrepancy.String(), "transactions", c.TotalTransactions)
	return c, nil
}

// ListShiftClosures returns closures newest first.
func (s *TreasuryService) ListShiftClosures(ctx context.Context, limit int) ([]models.ShiftClosure, error) {
	if _, err := authorize(ctx, permissions.TreasuryRead); err != nil {
		return nil, err
	}
	return s.repomanager.Closures(s.db).List(ctx, clampLimit(limit, closureListDefault, closureListMax))
}

// DailyMetrics feeds the dashboard with today's figures.
func (s *TreasuryService) DailyMetrics(ctx context.Context) (*models.DailyMetrics, error) {
	if _, err := authorize(ctx, permissions.DashboardRead); err != nil {
		return nil, err
	}
	now := s.now()
	day := timex.StartOfDay(now)

	vehicles := s.repomanager.Vehicles(s.db)
	active, err := vehicles.Count(ctx, models.StatusActive)
	if err != nil {
		return nil, err
	}
	completed, err := vehicles.CompletedBetween(ctx, day, day.Add(24*time.Hour))
	if err != nil {
		return nil, err
	}
	b, _, err := s.repomanager.Transactions(s.db).Summarize(ctx, transactions.Window{From: day, To: now})
	if err != nil {
		return nil, err
	}

	m := &models.DailyMetrics{
		ActiveVehicles: active,
		CompletedToday: len(completed),
		TotalVehicles:  active + len(completed),
		TotalRevenue:   b.Total(),
		AverageTicket:  decimal.Zero,
	}
	if n := len(completed); n > 0 {
		var stay time.Duration
		for _, v := range completed {
			if v.ExitTime != nil {
				stay += v.ExitTime.Sub(v.EntryTime)
			}
		}
		m.AverageTicket = m.TotalRevenue.Div(decimal.NewFromInt(int64(n))).Round(2)
		m.AverageStayMinutes = math.Round(stay.Minutes()/float64(n)*10) / 10
	}
	if s.capacity > 0 {
		m.OccupancyRate = math.Min(100, float64(active)/float64(s.capacity)*100)
	}
	if active > 0 {
		m.TurnoverRate = float64(m.CompletedToday) / float64(active)
	}
	return m, nil
}
