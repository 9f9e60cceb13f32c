package grpc

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/migrations"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
)

func (s *GRPCServer) ListBarcodes(ctx context.Context, _ *rpc.Empty) (*rpc.BarcodesResponse, error) {
	bs, err := s.svc.Barcodes.List(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.BarcodesResponse{Barcodes: bs}, nil
}

func (s *GRPCServer) GetBarcode(ctx context.Context, req *rpc.IDRequest) (*models.Barcode, error) {
	b, err := s.svc.Barcodes.GetByID(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return b, nil
}

func (s *GRPCServer) GetBarcodeByCode(ctx context.Context, req *rpc.CodeRequest) (*models.Barcode, error) {
	b, err := s.svc.Barcodes.GetByCode(ctx, req.Code)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return b, nil
}

func (s *GRPCServer) CreateBarcode(ctx context.Context, req *rpc.CreateBarcodeRequest) (*models.Barcode, error) {
	b, err := s.svc.Barcodes.Create(ctx, req.Code, req.Label)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return b, nil
}

func (s *GRPCServer) DeleteBarcode(ctx context.Context, req *rpc.IDRequest) (*rpc.Empty, error) {
	if err := s.svc.Barcodes.Delete(ctx, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) BarcodeImage(ctx context.Context, req *rpc.CodeRequest) (*rpc.BarcodeImageResponse, error) {
	png, err := s.svc.Barcodes.Image(ctx, req.Code)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.BarcodeImageResponse{Code: req.Code, PNG: png}, nil
}

func (s *GRPCServer) ListBackups(ctx context.Context, _ *rpc.Empty) (*rpc.BackupsResponse, error) {
	bs, err := s.svc.Backups.List(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.BackupsResponse{Backups: bs}, nil
}

func (s *GRPCServer) CreateBackup(ctx context.Context, req *rpc.CreateBackupRequest) (*models.BackupEntry, error) {
	e, err := s.svc.Backups.Create(ctx, req.Compress)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "backup created", "path", e.Path)
	return e, nil
}

func (s *GRPCServer) RestoreBackup(ctx context.Context, req *rpc.RestoreBackupRequest) (*rpc.Empty, error) {
	if err := s.svc.Backups.Restore(ctx, req.Path); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Warn(ctx, "backup restored", "path", req.Path)
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) GetBackupConfig(ctx context.Context, _ *rpc.Empty) (*models.BackupConfig, error) {
	c, err := s.svc.Backups.GetConfig(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return c, nil
}

func (s *GRPCServer) UpdateBackupConfig(ctx context.Context, req *models.BackupConfig) (*models.BackupConfig, error) {
	c, err := s.svc.Backups.UpdateConfig(ctx, *req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return c, nil
}

// Ping needs a valid token but no permission.
func (s *GRPCServer) Ping(ctx context.Context, _ *rpc.Empty) (*rpc.PingResponse, error) {
	v, err := migrations.Version(ctx, s.db)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.PingResponse{Status: "OK", SchemaVersion: v}, nil
}
