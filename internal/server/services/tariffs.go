package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/server/config"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/repomanager"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

const tariffListLimit = 100

// TariffInput describes a new custom tariff. An empty PlateOrRef makes it
// the default rate of its type.
type TariffInput struct {
	VehicleType         string          `json:"vehicleType"`
	PlateOrRef          string          `json:"plateOrRef,omitempty"`
	Name                string          `json:"name,omitempty"`
	Description         string          `json:"description,omitempty"`
	Amount              decimal.Decimal `json:"amount"`
	RateUnit            string          `json:"rateUnit,omitempty"`
	RateDurationHours   int             `json:"rateDurationHours,omitempty"`
	RateDurationMinutes int             `json:"rateDurationMinutes,omitempty"`
}

// TariffPatch is a partial update; nil fields keep their value.
type TariffPatch struct {
	VehicleType         *string          `json:"vehicleType,omitempty"`
	PlateOrRef          *string          `json:"plateOrRef,omitempty"`
	Name                *string          `json:"name,omitempty"`
	Description         *string          `json:"description,omitempty"`
	Amount              *decimal.Decimal `json:"amount,omitempty"`
	RateUnit            *string          `json:"rateUnit,omitempty"`
	RateDurationHours   *int             `json:"rateDurationHours,omitempty"`
	RateDurationMinutes *int             `json:"rateDurationMinutes,omitempty"`
}

// TariffService resolves rates and manages custom tariffs. Resolved default
// rates are cached until the next tariff write.
type TariffService struct {
	base
	rates *cache.Cache

	// gen counts flushes; a rate read before a flush is not cached after it.
	ratesMu sync.Mutex
	gen     uint64
}

func NewTariffService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, opts ...Option) *TariffService {
	ttl := cfg.TariffCacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TariffService{
		base:  newBase(db, m, "tariffs", opts),
		rates: cache.New(ttl, 2*ttl),
	}
}

// ResolveDefaultRate returns the hourly rate of a type: the type's default
// tariff row when present, otherwise the built-in fallback.
func (s *TariffService) ResolveDefaultRate(ctx context.Context, vehicleType string) (decimal.Decimal, error) {
	if _, err := authorize(ctx, permissions.TransactionsRead); err != nil {
		return decimal.Zero, err
	}
	vt, ok := models.ParseVehicleType(vehicleType)
	if !ok {
		return decimal.Zero, validation("invalid vehicle type: %s", vehicleType)
	}
	return s.defaultRate(ctx, s.db, vt)
}

func (s *TariffService) defaultRate(ctx context.Context, db dbx.DBTX, vt models.VehicleType) (decimal.Decimal, error) {
	if v, ok := s.rates.Get(string(vt)); ok {
		return v.(decimal.Decimal), nil
	}
	gen := s.generation()

	rate := models.FallbackRate(vt)
	t, err := s.repomanager.Tariffs(db).DefaultFor(ctx, vt)
	switch {
	case err == nil:
		rate = t.Amount
	case errors.Is(err, common.ErrorNotFound):
	default:
		return decimal.Zero, fmt.Errorf("error resolving rate: %w", err)
	}
	s.remember(vt, rate, gen)
	return rate, nil
}

func (s *TariffService) generation() uint64 {
	s.ratesMu.Lock()
	defer s.ratesMu.Unlock()
	return s.gen
}

// remember caches rate unless the cache was flushed since gen was taken.
func (s *TariffService) remember(vt models.VehicleType, rate decimal.Decimal, gen uint64) {
	s.ratesMu.Lock()
	defer s.ratesMu.Unlock()
	if gen == s.gen {
		s.rates.SetDefault(string(vt), rate)
	}
}

// PlateRate returns the plate-specific override of (type, plate), if any.
func (s *TariffService) PlateRate(ctx context.Context, db dbx.DBTX, vt models.VehicleType, plate string) (*decimal.Decimal, error) {
	plate = models.NormalizePlate(plate)
	if plate == "" {
		return nil, nil
	}
	t, err := s.repomanager.Tariffs(db).ForPlate(ctx, vt, plate)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error resolving plate rate: %w", err)
	}
	amount := t.Amount
	return &amount, nil
}

func (s *TariffService) List(ctx context.Context, search string) ([]models.Tariff, error) {
	if _, err := authorize(ctx, permissions.TransactionsRead); err != nil {
		return nil, err
	}
	return s.repomanager.Tariffs(s.db).List(ctx, search, tariffListLimit)
}

func (s *TariffService) Create(ctx context.Context, in TariffInput) (*models.Tariff, error) {
	if _, err := authorize(ctx, permissions.TransactionsCreate); err != nil {
		return nil, err
	}

	vt, ok := models.ParseVehicleType(in.VehicleType)
	if !ok {
		return nil, validation("invalid vehicle type: %s", in.VehicleType)
	}
	t := &models.Tariff{
		ID:                  common.NewID(common.PrefixTariff),
		VehicleType:         vt,
		PlateOrRef:          models.NormalizePlate(in.PlateOrRef),
		Name:                strings.TrimSpace(in.Name),
		Description:         strings.TrimSpace(in.Description),
		Amount:              in.Amount,
		RateUnit:            models.RateUnit(strings.ToLower(strings.TrimSpace(in.RateUnit))),
		RateDurationHours:   in.RateDurationHours,
		RateDurationMinutes: in.RateDurationMinutes,
		CreatedAt:           s.now(),
	}
	if err := validateTariff(t); err != nil {
		return nil, err
	}

	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		exists, err := s.repomanager.Tariffs(tx).Exists(ctx, t.VehicleType, t.PlateOrRef, "")
		if err != nil {
			return err
		}
		if exists {
			return errTariffExists
		}
		return s.repomanager.Tariffs(tx).Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	s.InvalidateCache()
	s.logger.Info(ctx, "tariff created", "tariff_id", t.ID, "vehicle_type", t.VehicleType, "plate", t.PlateOrRef)
	return t, nil
}

func (s *TariffService) Update(ctx context.Context, id string, p TariffPatch) (*models.Tariff, error) {
	if _, err := authorize(ctx, permissions.TransactionsModify); err != nil {
		return nil, err
	}

	var out *models.Tariff
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tariffs(tx)
		t, err := repo.GetByID(ctx, strings.TrimSpace(id))
		if errors.Is(err, common.ErrorNotFound) {
			return notFound("custom tariff not found")
		}
		if err != nil {
			return err
		}

		if p.VehicleType != nil {
			vt, ok := models.ParseVehicleType(*p.VehicleType)
			if !ok {
				return validation("invalid vehicle type: %s", *p.VehicleType)
			}
			t.VehicleType = vt
		}
		if p.PlateOrRef != nil {
			t.PlateOrRef = models.NormalizePlate(*p.PlateOrRef)
		}
		if p.Name != nil {
			t.Name = strings.TrimSpace(*p.Name)
		}
		if p.Description != nil {
			t.Description = strings.TrimSpace(*p.Description)
		}
		if p.Amount != nil {
			t.Amount = *p.Amount
		}
		if p.RateUnit != nil {
			t.RateUnit = models.RateUnit(strings.ToLower(strings.TrimSpace(*p.RateUnit)))
		}
		if p.RateDurationHours != nil {
			t.RateDurationHours = *p.RateDurationHours
		}
		if p.RateDurationMinutes != nil {
			t.RateDurationMinutes = *p.RateDurationMinutes
		}
		if err := validateTariff(t); err != nil {
			return err
		}

		exists, err := repo.Exists(ctx, t.VehicleType, t.PlateOrRef, t.ID)
		if err != nil {
			return err
		}
		if exists {
			return errTariffExists
		}
		if err := repo.Update(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.InvalidateCache()
	return out, nil
}

func (s *TariffService) Delete(ctx context.Context, id string) error {
	if _, err := authorize(ctx, permissions.TransactionsModify); err != nil {
		return err
	}
	err := s.repomanager.Tariffs(s.db).Delete(ctx, strings.TrimSpace(id))
	if errors.Is(err, common.ErrorNotFound) {
		return notFound("custom tariff not found")
	}
	if err != nil {
		return err
	}
	s.InvalidateCache()
	return nil
}

// InvalidateCache drops every resolved rate. Called after tariff writes and
// after a restore.
func (s *TariffService) InvalidateCache() {
	s.ratesMu.Lock()
	defer s.ratesMu.Unlock()
	s.gen++
	s.rates.Flush()
}

var errTariffExists = conflict("a tariff already exists for this vehicle type and plate")

// validateTariff normalises the rate unit and durations in place. The unit
// defaults to hour; a zero duration becomes one unit.
func validateTariff(t *models.Tariff) error {
	if t.Amount.IsNegative() {
		return validation("amount must be non-negative")
	}
	switch t.RateUnit {
	case "":
		t.RateUnit = models.PerHour
	case models.PerHour, models.PerMinute:
	default:
		return validation("invalid rate unit: %s", t.RateUnit)
	}
	if t.RateDurationHours < 0 || t.RateDurationMinutes < 0 || t.RateDurationMinutes > 59 {
		return validation("invalid rate duration")
	}
	if t.RateDurationHours == 0 && t.RateDurationMinutes == 0 {
		if t.RateUnit == models.PerMinute {
			t.RateDurationMinutes = 1
		} else {
			t.RateDurationHours = 1
		}
	}
	return nil
}
