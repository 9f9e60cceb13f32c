package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"image/png"
	"strings"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/dbx"
	"github.com/dmitrijs2005/parkdesk/internal/server/models"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/dmitrijs2005/parkdesk/internal/server/repositories/repomanager"
)

// BarcodeService manages pre-registered scan codes.
type BarcodeService struct {
	base
}

const (
	imageModuleWidth = 2
	imageHeight      = 80
)

func NewBarcodeService(db *sql.DB, m repomanager.RepositoryManager, opts ...Option) *BarcodeService {
	return &BarcodeService{base: newBase(db, m, "barcodes", opts)}
}

func (s *BarcodeService) List(ctx context.Context) ([]models.Barcode, error) {
	if _, err := authorize(ctx, permissions.BarcodesRead); err != nil {
		return nil, err
	}
	return s.repomanager.Barcodes(s.db).List(ctx)
}

func (s *BarcodeService) GetByID(ctx context.Context, id string) (*models.Barcode, error) {
	if _, err := authorize(ctx, permissions.BarcodesRead); err != nil {
		return nil, err
	}
	b, err := s.repomanager.Barcodes(s.db).GetByID(ctx, strings.TrimSpace(id))
	if errors.Is(err, common.ErrorNotFound) {
		return nil, notFound("barcode not found")
	}
	return b, err
}

func (s *BarcodeService) GetByCode(ctx context.Context, code string) (*models.Barcode, error) {
	if _, err := authorize(ctx, permissions.BarcodesRead); err != nil {
		return nil, err
	}
	b, err := s.repomanager.Barcodes(s.db).GetByCode(ctx, strings.TrimSpace(code))
	if errors.Is(err, common.ErrorNotFound) {
		return nil, notFound("barcode not found")
	}
	return b, err
}

// Create registers code, 1..24 letters or digits, with an optional label.
func (s *BarcodeService) Create(ctx context.Context, code, label string) (*models.Barcode, error) {
	if _, err := authorize(ctx, permissions.BarcodesCreate); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if !models.ValidBarcode(code) {
		return nil, validation("barcode must be 1 to 24 letters or digits")
	}
	b := &models.Barcode{ID: common.NewID(common.PrefixBarcode), Code: code, CreatedAt: s.now()}
	if label = strings.TrimSpace(label); label != "" {
		b.Label = &label
	}

	err := s.inTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Barcodes(tx)
		if _, err := repo.GetByCode(ctx, code); err == nil {
			return conflict("barcode %s already exists", code)
		} else if !errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return repo.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *BarcodeService) Delete(ctx context.Context, id string) error {
	if _, err := authorize(ctx, permissions.BarcodesDelete); err != nil {
		return err
	}
	err := s.repomanager.Barcodes(s.db).Delete(ctx, strings.TrimSpace(id))
	if errors.Is(err, common.ErrorNotFound) {
		return notFound("barcode not found")
	}
	return err
}

// Image renders code as a Code128 PNG. The code need not be registered, so
// generated tickets can be printed too.
func (s *BarcodeService) Image(ctx context.Context, code string) ([]byte, error) {
	if _, err := authorize(ctx, permissions.BarcodesRead); err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if !models.ValidBarcode(code) {
		return nil, validation("barcode must be 1 to 24 letters or digits")
	}

	bc, err := code128.Encode(code)
	if err != nil {
		return nil, fmt.Errorf("encode barcode: %w", err)
	}
	scaled, err := barcode.Scale(bc, bc.Bounds().Dx()*imageModuleWidth, imageHeight)
	if err != nil {
		return nil, fmt.Errorf("scale barcode: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
