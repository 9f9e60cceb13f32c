package grpc

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/services"
)

func (s *GRPCServer) ResolveDefaultRate(ctx context.Context, req *rpc.VehicleTypeRequest) (*rpc.AmountResponse, error) {
	amount, err := s.svc.Tariffs.ResolveDefaultRate(ctx, req.VehicleType)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.AmountResponse{Amount: amount}, nil
}

func (s *GRPCServer) ListTariffs(ctx context.Context, req *rpc.ListTariffsRequest) (*rpc.TariffsResponse, error) {
	ts, err := s.svc.Tariffs.List(ctx, req.Search)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.TariffsResponse{Tariffs: ts}, nil
}

func (s *GRPCServer) CreateTariff(ctx context.Context, req *rpc.TariffRequest) (*models.Tariff, error) {
	t, err := s.svc.Tariffs.Create(ctx, services.TariffInput{
		VehicleType:         req.VehicleType,
		PlateOrRef:          req.PlateOrRef,
		Name:                req.Name,
		Description:         req.Description,
		Amount:              req.Amount,
		RateUnit:            req.RateUnit,
		RateDurationHours:   req.RateDurationHours,
		RateDurationMinutes: req.RateDurationMinutes,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return t, nil
}

func (s *GRPCServer) UpdateTariff(ctx context.Context, req *rpc.UpdateTariffRequest) (*models.Tariff, error) {
	t, err := s.svc.Tariffs.Update(ctx, req.ID, services.TariffPatch{
		VehicleType:         req.VehicleType,
		PlateOrRef:          req.PlateOrRef,
		Name:                req.Name,
		Description:         req.Description,
		Amount:              req.Amount,
		RateUnit:            req.RateUnit,
		RateDurationHours:   req.RateDurationHours,
		RateDurationMinutes: req.RateDurationMinutes,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return t, nil
}

func (s *GRPCServer) DeleteTariff(ctx context.Context, req *rpc.IDRequest) (*rpc.Empty, error) {
	if err := s.svc.Tariffs.Delete(ctx, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GetTreasury(ctx context.Context, _ *rpc.Empty) (*models.Treasury, error) {
	t, err := s.svc.Treasury.GetTreasury(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return t, nil
}

func (s *GRPCServer) CloseShift(ctx context.Context, req *rpc.CloseShiftRequest) (*models.ShiftClosure, error) {
	c, err := s.svc.Treasury.CloseShift(ctx, req.CountedCash, req.Notes)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "shift closed", "closure_id", c.ID)
	return c, nil
}

func (s *GRPCServer) ListShiftClosures(ctx context.Context, req *rpc.LimitRequest) (*rpc.ShiftClosuresResponse, error) {
	cs, err := s.svc.Treasury.ListShiftClosures(ctx, req.Limit)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.ShiftClosuresResponse{Closures: cs}, nil
}

func (s *GRPCServer) DailyMetrics(ctx context.Context, _ *rpc.Empty) (*models.DailyMetrics, error) {
	m, err := s.svc.Treasury.DailyMetrics(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return m, nil
}

func (s *GRPCServer) ReportColumns(ctx context.Context, req *rpc.ReportColumnsRequest) (*rpc.ReportColumnsResponse, error) {
	cols, err := s.svc.Reports.ColumnDefinitions(ctx, req.Type)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.ReportColumnsResponse{Columns: cols}, nil
}

func (s *GRPCServer) FetchReport(ctx context.Context, req *rpc.FetchReportRequest) (*models.ReportData, error) {
	data, err := s.svc.Reports.Fetch(ctx, req.Type, req.Columns, models.ReportFilter{
		DateFrom:      req.DateFrom,
		DateTo:        req.DateTo,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
		VehicleType:   models.VehicleType(req.VehicleType),
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return data, nil
}
