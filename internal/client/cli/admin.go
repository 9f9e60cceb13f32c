package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Barcode saves code as a Code128 PNG, to file or to <code>.png.
func (a *App) Barcode(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	code := args[0]
	file := code + ".png"
	if len(args) > 1 {
		file = args[1]
	}

	img, err := a.api.BarcodeImage(ctx, code)
	if err != nil {
		return err
	}
	if err := os.WriteFile(file, img, 0o644); err != nil {
		return fmt.Errorf("save barcode: %w", err)
	}
	fmt.Fprintf(a.out, "Barcode %s saved to %s\n", code, file)
	return nil
}

// Backup handles "backup list", "backup create [plain]" and
// "backup restore <path>". No subcommand lists.
func (a *App) Backup(ctx context.Context, args []string) error {
	sub := "list"
	if len(args) > 0 {
		sub = args[0]
	}

	switch sub {
	case "list":
		list, err := a.api.ListBackups(ctx)
		if err != nil {
			return err
		}
		t := newTable(a.out, "CREATED", "SIZE", "PATH")
		for _, b := range list {
			t.row(stamp(&b.CreatedAt), strconv.FormatInt(b.SizeBytes, 10), b.Path)
		}
		return t.flush()

	case "create":
		var compress *bool
		if len(args) > 1 && args[1] == "plain" {
			off := false
			compress = &off
		}
		b, err := a.api.CreateBackup(ctx, compress)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Backup written to %s (%d bytes)\n", b.Path, b.SizeBytes)
		return nil

	case "restore":
		if len(args) < 2 {
			return errUsage
		}
		path := args[1]
		answer, err := GetSimpleText(a.reader, "Restore replaces current data with "+path+". Type 'yes' to continue", a.out)
		if err != nil {
			return err
		}
		if !strings.EqualFold(answer, "yes") {
			fmt.Fprintln(a.out, "Restore cancelled")
			return nil
		}
		if err := a.api.RestoreBackup(ctx, path); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Restore complete")
		return nil
	}

	return errUsage
}
