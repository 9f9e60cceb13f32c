package client

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/shopspring/decimal"
)

func (s *GRPCClient) RegisterEntry(ctx context.Context, req *rpc.EntryRequest) (*models.Vehicle, error) {
	return invoke[models.Vehicle](ctx, s, rpc.MethodRegisterEntry, req)
}

func (s *GRPCClient) ProcessExit(ctx context.Context, req *rpc.ExitRequest) (*models.Vehicle, error) {
	return invoke[models.Vehicle](ctx, s, rpc.MethodProcessExit, req)
}

func (s *GRPCClient) RemoveFromParking(ctx context.Context, id, ticketCode string) (*models.Vehicle, error) {
	return invoke[models.Vehicle](ctx, s, rpc.MethodRemoveFromParking, &rpc.RemoveRequest{ID: id, TicketCode: ticketCode})
}

func (s *GRPCClient) ListVehicles(ctx context.Context, status string, limit, offset int) (*models.VehicleList, error) {
	return invoke[models.VehicleList](ctx, s, rpc.MethodListVehicles,
		&rpc.ListVehiclesRequest{Status: status, Limit: limit, Offset: offset})
}

func (s *GRPCClient) FindByTicket(ctx context.Context, ticketCode string) (*models.Vehicle, error) {
	return invoke[models.Vehicle](ctx, s, rpc.MethodFindByTicket, &rpc.TicketRequest{TicketCode: ticketCode})
}

func (s *GRPCClient) FindByPlate(ctx context.Context, plate string) (*models.Vehicle, error) {
	return invoke[models.Vehicle](ctx, s, rpc.MethodFindByPlate, &rpc.PlateRequest{Plate: plate})
}

func (s *GRPCClient) VehiclesByPlate(ctx context.Context, plate string) ([]models.Vehicle, error) {
	resp, err := invoke[rpc.VehiclesResponse](ctx, s, rpc.MethodVehiclesByPlate, &rpc.PlateRequest{Plate: plate})
	if err != nil {
		return nil, err
	}
	return resp.Vehicles, nil
}

func (s *GRPCClient) ListDebtors(ctx context.Context) ([]models.Debtor, error) {
	resp, err := invoke[rpc.DebtorsResponse](ctx, s, rpc.MethodListDebtors, &rpc.Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Debtors, nil
}

func (s *GRPCClient) PlateDebt(ctx context.Context, plate string) (decimal.Decimal, error) {
	resp, err := invoke[rpc.AmountResponse](ctx, s, rpc.MethodPlateDebt, &rpc.PlateRequest{Plate: plate})
	if err != nil {
		return decimal.Zero, err
	}
	return resp.Amount, nil
}

func (s *GRPCClient) DebtDetailByPlate(ctx context.Context, plate string) ([]models.DebtDetail, error) {
	resp, err := invoke[rpc.DebtDetailsResponse](ctx, s, rpc.MethodDebtDetailByPlate, &rpc.PlateRequest{Plate: plate})
	if err != nil {
		return nil, err
	}
	return resp.Details, nil
}

func (s *GRPCClient) TotalDebt(ctx context.Context) (decimal.Decimal, error) {
	resp, err := invoke[rpc.AmountResponse](ctx, s, rpc.MethodTotalDebt, &rpc.Empty{})
	if err != nil {
		return decimal.Zero, err
	}
	return resp.Amount, nil
}

func (s *GRPCClient) SearchPlates(ctx context.Context, prefix string) ([]string, error) {
	resp, err := invoke[rpc.PlatesResponse](ctx, s, rpc.MethodSearchPlates, &rpc.SearchPlatesRequest{Prefix: prefix})
	if err != nil {
		return nil, err
	}
	return resp.Plates, nil
}

func (s *GRPCClient) PlateConflicts(ctx context.Context) ([]models.PlateConflict, error) {
	resp, err := invoke[rpc.PlateConflictsResponse](ctx, s, rpc.MethodPlateConflicts, &rpc.Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Conflicts, nil
}

func (s *GRPCClient) ResolvePlateConflict(ctx context.Context, plate, keepID string) error {
	return s.call(ctx, rpc.MethodResolvePlateConflict, &rpc.ResolveConflictRequest{Plate: plate, KeepID: keepID}, &rpc.Empty{})
}

func (s *GRPCClient) DeleteVehicle(ctx context.Context, id string) error {
	return s.call(ctx, rpc.MethodDeleteVehicle, &rpc.IDRequest{ID: id}, &rpc.Empty{})
}
