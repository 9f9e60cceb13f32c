package services

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/dmitrijs2005/parkdesk/internal/server/permissions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarcodes(t *testing.T) {
	f := newFixture(t)
	ctx := adminCtx()

	b, err := f.barcodes.Create(ctx, " 12345678 ", " gate card ")
	require.NoError(t, err)
	assert.Equal(t, "12345678", b.Code)
	require.NotNil(t, b.Label)
	assert.Equal(t, "gate card", *b.Label)

	_, err = f.barcodes.Create(ctx, "12345678", "")
	assert.ErrorIs(t, err, common.ErrorConflict)
	_, err = f.barcodes.Create(ctx, "has space", "")
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = f.barcodes.Create(ctx, "ABCDEFGHIJKLMNOPQRSTUVWXY", "")
	assert.ErrorIs(t, err, common.ErrorValidation, "25 characters")

	got, err := f.barcodes.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.Code, got.Code)

	list, err := f.barcodes.List(withPerms(permissions.BarcodesRead))
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, f.barcodes.Delete(withPerms(permissions.BarcodesRead), b.ID), common.ErrorPermissionDenied)
	require.NoError(t, f.barcodes.Delete(ctx, b.ID))
	_, err = f.barcodes.GetByCode(ctx, "12345678")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.ErrorIs(t, f.barcodes.Delete(ctx, b.ID), common.ErrorNotFound)
}

func TestBarcodes_Image(t *testing.T) {
	f := newFixture(t)

	raw, err := f.barcodes.Image(adminCtx(), " TK00042 ")
	require.NoError(t, err, "unregistered codes render too")
	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, imageHeight, img.Bounds().Dy())
	assert.Greater(t, img.Bounds().Dx(), 0)
	assert.Zero(t, img.Bounds().Dx()%imageModuleWidth, "every module is scaled evenly")

	_, err = f.barcodes.Image(adminCtx(), "not valid")
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = f.barcodes.Image(withPerms(), "TK00042")
	assert.ErrorIs(t, err, common.ErrorPermissionDenied)
}
