package client

import (
	"context"

	"github.com/dmitrijs2005/parkdesk/internal/rpc"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/shopspring/decimal"
)

func (s *GRPCClient) ResolveDefaultRate(ctx context.Context, vehicleType string) (decimal.Decimal, error) {
	resp, err := invoke[rpc.AmountResponse](ctx, s, rpc.MethodResolveDefaultRate, &rpc.VehicleTypeRequest{VehicleType: vehicleType})
	if err != nil {
		return decimal.Zero, err
	}
	return resp.Amount, nil
}

func (s *GRPCClient) ListTariffs(ctx context.Context, search string) ([]models.Tariff, error) {
	resp, err := invoke[rpc.TariffsResponse](ctx, s, rpc.MethodListTariffs, &rpc.ListTariffsRequest{Search: search})
	if err != nil {
		return nil, err
	}
	return resp.Tariffs, nil
}

func (s *GRPCClient) CreateTariff(ctx context.Context, req *rpc.TariffRequest) (*models.Tariff, error) {
	return invoke[models.Tariff](ctx, s, rpc.MethodCreateTariff, req)
}

func (s *GRPCClient) UpdateTariff(ctx context.Context, req *rpc.UpdateTariffRequest) (*models.Tariff, error) {
	return invoke[models.Tariff](ctx, s, rpc.MethodUpdateTariff, req)
}

func (s *GRPCClient) DeleteTariff(ctx context.Context, id string) error {
	return s.call(ctx, rpc.MethodDeleteTariff, &rpc.IDRequest{ID: id}, &rpc.Empty{})
}

func (s *GRPCClient) GetTreasury(ctx context.Context) (*models.Treasury, error) {
	return invoke[models.Treasury](ctx, s, rpc.MethodGetTreasury, &rpc.Empty{})
}

func (s *GRPCClient) CloseShift(ctx context.Context, countedCash *decimal.Decimal, notes string) (*models.ShiftClosure, error) {
	return invoke[models.ShiftClosure](ctx, s, rpc.MethodCloseShift, &rpc.CloseShiftRequest{CountedCash: countedCash, Notes: notes})
}

func (s *GRPCClient) ListShiftClosures(ctx context.Context, limit int) ([]models.ShiftClosure, error) {
	resp, err := invoke[rpc.ShiftClosuresResponse](ctx, s, rpc.MethodListShiftClosures, &rpc.LimitRequest{Limit: limit})
	if err != nil {
		return nil, err
	}
	return resp.Closures, nil
}

func (s *GRPCClient) DailyMetrics(ctx context.Context) (*models.DailyMetrics, error) {
	return invoke[models.DailyMetrics](ctx, s, rpc.MethodDailyMetrics, &rpc.Empty{})
}

func (s *GRPCClient) ReportColumns(ctx context.Context, t models.ReportType) ([]models.ReportColumn, error) {
	resp, err := invoke[rpc.ReportColumnsResponse](ctx, s, rpc.MethodReportColumns, &rpc.ReportColumnsRequest{Type: t})
	if err != nil {
		return nil, err
	}
	return resp.Columns, nil
}

func (s *GRPCClient) FetchReport(ctx context.Context, req *rpc.FetchReportRequest) (*models.ReportData, error) {
	return invoke[models.ReportData](ctx, s, rpc.MethodFetchReport, req)
}

func (s *GRPCClient) ListBarcodes(ctx context.Context) ([]models.Barcode, error) {
	resp, err := invoke[rpc.BarcodesResponse](ctx, s, rpc.MethodListBarcodes, &rpc.Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Barcodes, nil
}

func (s *GRPCClient) GetBarcode(ctx context.Context, id string) (*models.Barcode, error) {
	return invoke[models.Barcode](ctx, s, rpc.MethodGetBarcode, &rpc.IDRequest{ID: id})
}

func (s *GRPCClient) GetBarcodeByCode(ctx context.Context, code string) (*models.Barcode, error) {
	return invoke[models.Barcode](ctx, s, rpc.MethodGetBarcodeByCode, &rpc.CodeRequest{Code: code})
}

func (s *GRPCClient) CreateBarcode(ctx context.Context, code, label string) (*models.Barcode, error) {
	return invoke[models.Barcode](ctx, s, rpc.MethodCreateBarcode, &rpc.CreateBarcodeRequest{Code: code, Label: label})
}

func (s *GRPCClient) DeleteBarcode(ctx context.Context, id string) error {
	return s.call(ctx, rpc.MethodDeleteBarcode, &rpc.IDRequest{ID: id}, &rpc.Empty{})
}

// BarcodeImage returns code rendered as a PNG.
func (s *GRPCClient) BarcodeImage(ctx context.Context, code string) ([]byte, error) {
	resp, err := invoke[rpc.BarcodeImageResponse](ctx, s, rpc.MethodBarcodeImage, &rpc.CodeRequest{Code: code})
	if err != nil {
		return nil, err
	}
	return resp.PNG, nil
}

func (s *GRPCClient) ListBackups(ctx context.Context) ([]models.BackupEntry, error) {
	resp, err := invoke[rpc.BackupsResponse](ctx, s, rpc.MethodListBackups, &rpc.Empty{})
	if err != nil {
		return nil, err
	}
	return resp.Backups, nil
}

// CreateBackup uses the saved compression setting when compress is nil.
func (s *GRPCClient) CreateBackup(ctx context.Context, compress *bool) (*models.BackupEntry, error) {
	return invoke[models.BackupEntry](ctx, s, rpc.MethodCreateBackup, &rpc.CreateBackupRequest{Compress: compress})
}

func (s *GRPCClient) RestoreBackup(ctx context.Context, path string) error {
	return s.call(ctx, rpc.MethodRestoreBackup, &rpc.RestoreBackupRequest{Path: path}, &rpc.Empty{})
}

func (s *GRPCClient) GetBackupConfig(ctx context.Context) (*models.BackupConfig, error) {
	return invoke[models.BackupConfig](ctx, s, rpc.MethodGetBackupConfig, &rpc.Empty{})
}

func (s *GRPCClient) UpdateBackupConfig(ctx context.Context, cfg models.BackupConfig) (*models.BackupConfig, error) {
	return invoke[models.BackupConfig](ctx, s, rpc.MethodUpdateBackupConfig, &cfg)
}
