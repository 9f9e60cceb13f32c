package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

const (
	vehicleListDefault = 50
	vehicleListMax     = 500
	plateSearchLimit   = 10
)

// EntryInput registers a vehicle. An empty TicketCode lets the service
// generate one; Plate is ignored for bicycles.
type EntryInput struct {
	Plate        string `json:"plate"`
	VehicleType  string `json:"vehicleType"`
	Observations string `json:"observations,omitempty"`
	TicketCode   string `json:"ticketCode,omitempty"`
}

// ExitInput closes a session. OverrideCost replaces the hourly computation;
// a PartialPayment below the total due leaves the remainder as debt.
type ExitInput struct {
	TicketCode     string           `json:"ticketCode"`
	PartialPayment *decimal.Decimal `json:"partialPayment,omitempty"`
	PaymentMethod  string           `json:"paymentMethod,omitempty"`
	OverrideCost   *decimal.Decimal `json:"overrideCost,omitempty"`
}

var errNotActive = notFound("vehicle not found or already completed")

// VehicleService tracks parking sessions from entry to exit or removal.
type VehicleService struct {
	base
	tariffs *TariffService
}

func NewVehicleService(db *sql.DB, m repomanager.RepositoryManager, tariffs *TariffService, opts ...Option) *VehicleService {
	return &VehicleService{base: newBase(db, m, "vehicles", opts), tariffs: tariffs}
}

// RegisterEntry opens an active session. The ticket must not label another
// active session; a plate must not be parked already nor be known under a
// different vehicle type. Debt left on earlier sessions of the plate is
// carried into the new one.
func (s *VehicleService) RegisterEntry(ctx context.Context, in EntryInput) (*models.Vehicle, error) {
	if _, err := authorize(ctx, permissions.EntriesCreate); err != nil {
		return nil, err
	}

	vt, ok := models.ParseVehicleType(in.VehicleType)
	if !ok {
		return nil, validation("invalid vehicle type: %s", in.VehicleType)
	}
	now := s.now()

	code := strings.TrimSpace(in.TicketCode)
	if code == "" {
		code = fmt.Sprintf("TK%d", now.UnixMilli())
	}
	plate := models.NormalizePlate(in.Plate)
	if plate == "" && vt.HasPlate() {
		return nil, validation("plate is required for car, motorcycle and truck")
	}

	v := &models.Vehicle{
		ID:           common.NewID(common.PrefixVehicle),
		TicketCode:   code,
		Plate:        plate,
		VehicleType:  vt,
		Observations: strings.TrimSpace(in.Observations),
		EntryTime:    now,
		Status:       models.StatusActive,
	}

	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Vehicles(tx)

		if _, err := repo.ActiveByTicket(ctx, code); err == nil {
			return conflict("ticket %s is already in use; close its session before reusing the card", code)
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}

		if plate != "" {
			if _, err := repo.ActiveByPlate(ctx, plate); err == nil {
				return conflict("plate already parked: %s", plate)
			} else if !errors.Is(err, common.ErrorNotFound) {
				return err
			}

			known, err := repo.PlateTypes(ctx, plate)
			if err != nil {
				return err
			}
			for _, k := range known {
				if k != vt {
					return conflict("plate %s is registered as %s; a plate belongs to a single vehicle type", plate, k)
				}
			}

			debt, err := repo.PlateDebt(ctx, plate)
			if err != nil {
				return err
			}
			if debt = debt.Round(2); debt.IsPositive() {
				v.Debt = &debt
			}

			if v.SpecialRate, err = s.tariffs.PlateRate(ctx, tx, vt, plate); err != nil {
				return err
			}
		}

		if err := repo.Create(ctx, v); err != nil {
			return err
		}
		return s.registerBarcode(ctx, tx, code, now)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "vehicle entered", "vehicle_id", v.ID, "ticket", code, "plate", plate, "type", vt)
	return v, nil
}

// registerBarcode records code as a known barcode the first time it is used.
func (s *VehicleService) registerBarcode(ctx context.Context, tx dbx.DBTX, code string, now time.Time) error {
	if !models.ValidBarcode(code) {
		return nil
	}
	repo := s.repomanager.Barcodes(tx)
	_, err := repo.GetByCode(ctx, code)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}
	return repo.Create(ctx, &models.Barcode{ID: common.NewID(common.PrefixBarcode), Code: code, CreatedAt: now})
}

// ProcessExit charges and completes the active session of a ticket. The
// status transition, the plate-wide debt clear and the payment insert
// commit together; a second exit of the same ticket finds nothing active.
func (s *VehicleService) ProcessExit(ctx context.Context, in ExitInput) (*models.Vehicle, error) {
	if _, err := authorize(ctx, permissions.TransactionsCreate); err != nil {
		return nil, err
	}
	if in.OverrideCost != nil && in.OverrideCost.IsNegative() {
		return nil, validation("cost must be non-negative")
	}
	if in.PartialPayment != nil && in.PartialPayment.IsNegative() {
		return nil, validation("payment must be non-negative")
	}
	code := strings.TrimSpace(in.TicketCode)
	method := models.ParsePaymentMethod(in.PaymentMethod)

	var (
		out     *models.Vehicle
		charged decimal.Decimal
	)
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Vehicles(tx)

		v, err := repo.ActiveByTicket(ctx, code)
		if errors.Is(err, common.ErrorNotFound) {
			return errNotActive
		}
		if err != nil {
			return err
		}

		exit := s.now()
		cost := decimal.Zero
		if in.OverrideCost != nil {
			cost = *in.OverrideCost
		} else {
			rate, err := s.rateOf(ctx, tx, v)
			if err != nil {
				return err
			}
			cost = ParkingCost(v.EntryTime, exit, rate)
		}

		inherited := decimal.Zero
		if v.Debt != nil {
			inherited = *v.Debt
		}
		due := cost.Add(inherited)

		charged = due
		var remainder *decimal.Decimal
		if in.PartialPayment != nil && in.PartialPayment.LessThan(due) {
			charged = *in.PartialPayment
			left := due.Sub(charged)
			remainder = &left
		}

		if err := repo.Complete(ctx, v.ID, exit, charged, remainder); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return errNotActive
			}
			return err
		}
		// Whatever the plate owed is now settled or carried by this session alone.
		if v.Plate != "" {
			if err := repo.ClearPlateDebt(ctx, v.Plate, v.ID); err != nil {
				return err
			}
		}
		if err := s.repomanager.Transactions(tx).Create(ctx, &models.Transaction{
			ID:        common.NewID(common.PrefixTransaction),
			VehicleID: v.ID,
			Amount:    charged,
			Method:    method,
			CreatedAt: exit,
		}); err != nil {
			return err
		}

		out, err = repo.GetByID(ctx, v.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "vehicle exited", "vehicle_id", out.ID, "ticket", code, "charged", charged.String(), "method", method)
	return out, nil
}

// rateOf is the session's special rate or, failing that, the type default.
func (s *VehicleService) rateOf(ctx context.Context, tx dbx.DBTX, v *models.Vehicle) (decimal.Decimal, error) {
	if v.SpecialRate != nil {
		return *v.SpecialRate, nil
	}
	return s.tariffs.defaultRate(ctx, tx, v.VehicleType)
}

// ParkingCost bills whole hours, rounded up, with a minimum of one hour.
// Seconds past the last full minute are not counted. Tariffs configured
// per minute are still billed this way.
func ParkingCost(entry, exit time.Time, hourly decimal.Decimal) decimal.Decimal {
	minutes := math.Floor(exit.Sub(entry).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	hours := math.Max(1, math.Ceil(minutes/60))
	return hourly.Mul(decimal.NewFromFloat(hours))
}

// RemoveFromParking ends an active session without charging it. Exactly one
// of id and ticketCode must be given.
func (s *VehicleService) RemoveFromParking(ctx context.Context, id, ticketCode string) (*models.Vehicle, error) {
	if _, err := authorize(ctx, permissions.EntriesRemove); err != nil {
		return nil, err
	}
	id, ticketCode = strings.TrimSpace(id), strings.TrimSpace(ticketCode)
	if (id == "") == (ticketCode == "") {
		return nil, validation("exactly one of session id or ticket code is required")
	}

	var out *models.Vehicle
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Vehicles(tx)

		var (
			v   *models.Vehicle
			err error
		)
		if id != "" {
			v, err = repo.GetByID(ctx, id)
			if err == nil && v.Status != models.StatusActive {
				err = common.ErrorNotFound
			}
		} else {
			v, err = repo.ActiveByTicket(ctx, ticketCode)
		}
		if errors.Is(err, common.ErrorNotFound) {
			return notFound("no active vehicle found")
		}
		if err != nil {
			return err
		}

		if err := repo.Remove(ctx, v.ID, s.now()); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return notFound("no active vehicle found")
			}
			return err
		}
		out, err = repo.GetByID(ctx, v.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "vehicle removed", "vehicle_id", out.ID, "ticket", out.TicketCode)
	return out, nil
}

// ListVehicles pages through sessions, newest entry first. An empty status
// lists all of them.
func (s *VehicleService) ListVehicles(ctx context.Context, status string, limit, offset int) (*models.VehicleList, error) {
	if _, err := authorize(ctx, permissions.EntriesRead); err != nil {
		return nil, err
	}
	st := models.SessionStatus(strings.ToLower(strings.TrimSpace(status)))
	switch st {
	case "", models.StatusActive, models.StatusCompleted, models.StatusRemoved:
	default:
		return nil, validation("invalid status: %s", status)
	}
	if offset < 0 {
		offset = 0
	}

	repo := s.repomanager.Vehicles(s.db)
	items, err := repo.List(ctx, st, clampLimit(limit, vehicleListDefault, vehicleListMax), offset)
	if err != nil {
		return nil, err
	}
	total, err := repo.Count(ctx, st)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Vehicle{}
	}
	return &models.VehicleList{Items: items, Total: total}, nil
}

func (s *VehicleService) FindByTicket(ctx context.Context, ticketCode string) (*models.Vehicle, error) {
	if _, err := authorize(ctx, permissions.EntriesRead); err != nil {
		return nil, err
	}
	v, err := s.repomanager.Vehicles(s.db).ActiveByTicket(ctx, strings.TrimSpace(ticketCode))
	if errors.Is(err, common.ErrorNotFound) {
		return nil, notFound("no active vehicle with this ticket")
	}
	return v, err
}

func (s *VehicleService) FindByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	if _, err := authorize(ctx, permissions.EntriesRead); err != nil {
		return nil, err
	}
	v, err := s.repomanager.Vehicles(s.db).ActiveByPlate(ctx, models.NormalizePlate(plate))
	if errors.Is(err, common.ErrorNotFound) {
		return nil, notFound("no active vehicle with this plate")
	}
	return v, err
}

// VehiclesByPlate is the session history of a plate, newest first.
func (s *VehicleService) VehiclesByPlate(ctx context.Context, plate string) ([]models.Vehicle, error) {
	if _, err := authorize(ctx, permissions.EntriesRead); err != nil {
		return nil, err
	}
	return s.repomanager.Vehicles(s.db).ByPlate(ctx, models.NormalizePlate(plate))
}

func (s *VehicleService) ListDebtors(ctx context.Context) ([]models.Debtor, error) {
	if _, err := authorize(ctx, permissions.DebtorsRead); err != nil {
		return nil, err
	}
	debtors, err := s.repomanager.Vehicles(s.db).Debtors(ctx)
	if err != nil {
		return nil, err
	}
	for i := range debtors {
		debtors[i].TotalDebt = debtors[i].TotalDebt.Round(2)
	}
	return debtors, nil
}

func (s *VehicleService) PlateDebt(ctx context.Context, plate string) (decimal.Decimal, error) {
	if _, err := authorize(ctx, permissions.DebtorsRead); err != nil {
		return decimal.Zero, err
	}
	d, err := s.repomanager.Vehicles(s.db).PlateDebt(ctx, models.NormalizePlate(plate))
	return d.Round(2), err
}

func (s *VehicleService) DebtDetailByPlate(ctx context.Context, plate string) ([]models.DebtDetail, error) {
	if _, err := authorize(ctx, permissions.DebtorsRead); err != nil {
		return nil, err
	}
	return s.repomanager.Vehicles(s.db).DebtDetails(ctx, models.NormalizePlate(plate))
}

func (s *VehicleService) TotalDebt(ctx context.Context) (decimal.Decimal, error) {
	if _, err := authorize(ctx, permissions.DebtorsRead); err != nil {
		return decimal.Zero, err
	}
	d, err := s.repomanager.Vehicles(s.db).TotalDebt(ctx)
	return d.Round(2), err
}

// SearchPlates suggests known plates starting with prefix.
func (s *VehicleService) SearchPlates(ctx context.Context, prefix string) ([]string, error) {
	if _, err := authorize(ctx, permissions.EntriesRead); err != nil {
		return nil, err
	}
	prefix = models.NormalizePlate(prefix)
	if prefix == "" {
		return []string{}, nil
	}
	return s.repomanager.Vehicles(s.db).SearchPlates(ctx, prefix, plateSearchLimit)
}

// PlateConflicts lists plates seen under more than one vehicle type, with
// every session of each.
func (s *VehicleService) PlateConflicts(ctx context.Context) ([]models.PlateConflict, error) {
	if _, err := authorize(ctx, permissions.EntriesRead); err != nil {
		return nil, err
	}
	repo := s.repomanager.Vehicles(s.db)
	plates, err := repo.ConflictingPlates(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.PlateConflict, 0, len(plates))
	for _, p := range plates {
		sessions, err := repo.ByPlate(ctx, p)
		if err != nil {
			return nil, err
		}
		seen := map[models.VehicleType]struct{}{}
		c := models.PlateConflict{Plate: p, Sessions: sessions}
		for _, v := range sessions {
			if _, ok := seen[v.VehicleType]; !ok {
				seen[v.VehicleType] = struct{}{}
				c.VehicleTypes = append(c.VehicleTypes, v.VehicleType)
			}
		}
		sort.Slice(c.VehicleTypes, func(i, j int) bool { return c.VehicleTypes[i] < c.VehicleTypes[j] })
		out = append(out, c)
	}
	return out, nil
}

// ResolvePlateConflict keeps one session of plate and deletes the others
// together with their transactions.
func (s *VehicleService) ResolvePlateConflict(ctx context.Context, plate, keepID string) error {
	if _, err := authorize(ctx, permissions.EntriesDelete); err != nil {
		return err
	}
	plate = models.NormalizePlate(plate)

	deleted := 0
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		sessions, err := s.repomanager.Vehicles(tx).ByPlate(ctx, plate)
		if err != nil {
			return err
		}
		found := false
		for _, v := range sessions {
			if v.ID == keepID {
				found = true
				break
			}
		}
		if !found {
			return validation("session to keep does not belong to plate %s", plate)
		}
		for _, v := range sessions {
			if v.ID == keepID {
				continue
			}
			if err := s.deleteSession(ctx, tx, v.ID); err != nil {
				return err
			}
			deleted++
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "plate conflict resolved", "plate", plate, "kept", keepID, "deleted", deleted)
	return nil
}

// DeleteVehicle removes a session and its transactions.
func (s *VehicleService) DeleteVehicle(ctx context.Context, id string) error {
	if _, err := authorize(ctx, permissions.EntriesDelete); err != nil {
		return err
	}
	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return s.deleteSession(ctx, tx, id)
	})
	if errors.Is(err, common.ErrorNotFound) {
		return notFound("vehicle not found")
	}
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "vehicle deleted", "vehicle_id", id)
	return nil
}

func (s *VehicleService) deleteSession(ctx context.Context, tx dbx.DBTX, id string) error {
	if _, err := s.repomanager.Transactions(tx).DeleteByVehicle(ctx, id); err != nil {
		return err
	}
	return s.repomanager.Vehicles(tx).Delete(ctx, id)
}
