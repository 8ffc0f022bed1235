package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/forPelevin/visecut/internal/pipeline"
)

func run(cmd *cobra.Command, input string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log, err := newLogger(settings, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	absIn, err := filepath.Abs(input)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 3*time.Hour)
	defer cancel()

	cfg := pipeline.Config{
		Input:    absIn,
		Settings: settings,
		Log:      log,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	res, err := pipeline.Run(ctx, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, renderManifest(res.Manifest))
	fmt.Fprintf(out, "output: %s\n", res.OutDir)
	if n := len(res.Manifest.Unresolved); n > 0 {
		fmt.Fprintf(out, "%d word(s) had no pronunciation and were mapped to sil\n", n)
	}
	return nil
}
