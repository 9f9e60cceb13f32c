package grpc

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/services"
)

func (s *GRPCServer) RegisterEntry(ctx context.Context, req *rpc.EntryRequest) (*models.Vehicle, error) {
	v, err := s.svc.Vehicles.RegisterEntry(ctx, services.EntryInput{
		Plate:        req.Plate,
		VehicleType:  req.VehicleType,
		Observations: req.Observations,
		TicketCode:   req.TicketCode,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return v, nil
}

func (s *GRPCServer) ProcessExit(ctx context.Context, req *rpc.ExitRequest) (*models.Vehicle, error) {
	v, err := s.svc.Vehicles.ProcessExit(ctx, services.ExitInput{
		TicketCode:     req.TicketCode,
		PartialPayment: req.PartialPayment,
		PaymentMethod:  req.PaymentMethod,
		OverrideCost:   req.OverrideCost,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return v, nil
}

func (s *GRPCServer) RemoveFromParking(ctx context.Context, req *rpc.RemoveRequest) (*models.Vehicle, error) {
	v, err := s.svc.Vehicles.RemoveFromParking(ctx, req.ID, req.TicketCode)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return v, nil
}

func (s *GRPCServer) ListVehicles(ctx context.Context, req *rpc.ListVehiclesRequest) (*models.VehicleList, error) {
	l, err := s.svc.Vehicles.ListVehicles(ctx, req.Status, req.Limit, req.Offset)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return l, nil
}

func (s *GRPCServer) FindByTicket(ctx context.Context, req *rpc.TicketRequest) (*models.Vehicle, error) {
	v, err := s.svc.Vehicles.FindByTicket(ctx, req.TicketCode)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return v, nil
}

func (s *GRPCServer) FindByPlate(ctx context.Context, req *rpc.PlateRequest) (*models.Vehicle, error) {
	v, err := s.svc.Vehicles.FindByPlate(ctx, req.Plate)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return v, nil
}

func (s *GRPCServer) VehiclesByPlate(ctx context.Context, req *rpc.PlateRequest) (*rpc.VehiclesResponse, error) {
	vs, err := s.svc.Vehicles.VehiclesByPlate(ctx, req.Plate)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.VehiclesResponse{Vehicles: vs}, nil
}

func (s *GRPCServer) ListDebtors(ctx context.Context, _ *rpc.Empty) (*rpc.DebtorsResponse, error) {
	ds, err := s.svc.Vehicles.ListDebtors(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.DebtorsResponse{Debtors: ds}, nil
}

func (s *GRPCServer) PlateDebt(ctx context.Context, req *rpc.PlateRequest) (*rpc.AmountResponse, error) {
	amount, err := s.svc.Vehicles.PlateDebt(ctx, req.Plate)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.AmountResponse{Amount: amount}, nil
}

func (s *GRPCServer) DebtDetailByPlate(ctx context.Context, req *rpc.PlateRequest) (*rpc.DebtDetailsResponse, error) {
	details, err := s.svc.Vehicles.DebtDetailByPlate(ctx, req.Plate)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.DebtDetailsResponse{Details: details}, nil
}

func (s *GRPCServer) TotalDebt(ctx context.Context, _ *rpc.Empty) (*rpc.AmountResponse, error) {
	amount, err := s.svc.Vehicles.TotalDebt(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.AmountResponse{Amount: amount}, nil
}

func (s *GRPCServer) SearchPlates(ctx context.Context, req *rpc.SearchPlatesRequest) (*rpc.PlatesResponse, error) {
	plates, err := s.svc.Vehicles.SearchPlates(ctx, req.Prefix)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.PlatesResponse{Plates: plates}, nil
}

func (s *GRPCServer) PlateConflicts(ctx context.Context, _ *rpc.Empty) (*rpc.PlateConflictsResponse, error) {
	cs, err := s.svc.Vehicles.PlateConflicts(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.PlateConflictsResponse{Conflicts: cs}, nil
}

func (s *GRPCServer) ResolvePlateConflict(ctx context.Context, req *rpc.ResolveConflictRequest) (*rpc.Empty, error) {
	if err := s.svc.Vehicles.ResolvePlateConflict(ctx, req.Plate, req.KeepID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) DeleteVehicle(ctx context.Context, req *rpc.IDRequest) (*rpc.Empty, error) {
	if err := s.svc.Vehicles.DeleteVehicle(ctx, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}
