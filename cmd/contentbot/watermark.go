package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/contentbot/internal/commits"
	"github.com/gorewood/contentbot/internal/output"
	"github.com/gorewood/contentbot/internal/watermark"
)

// watermarkResult holds the data for watermark output.
type watermarkResult struct {
	Set   bool   `json:"set"`
	Raw   string `json:"raw,omitempty"`
	UTC   string `json:"utc,omitempty"`
	Store string `json:"store"`
}

// newWatermarkCmd creates the watermark command group.
func newWatermarkCmd() *cobra.Command {
	var stateFlag string

	cmd := &cobra.Command{
		Use:   "watermark",
		Short: "Inspect and manage the last-run watermark",
		Long: `Inspect and manage the last-run watermark.

Only commits authored after the watermark count as new. Every completed run
moves it to the time the run started.

Examples:
  contentbot watermark show                       # Show the current value
  contentbot watermark reset                      # Treat every commit as new
  contentbot watermark set 7d                     # Reprocess the last week
  contentbot watermark set 2026-10-15T08:00:00Z   # Set an exact instant`,
	}
	cmd.PersistentFlags().StringVar(&stateFlag, "state", watermark.DefaultStateFile, "Watermark state file")

	open := func(c *cobra.Command) (watermark.Store, func() error, error) {
		return openWatermarkStore(c, stateFlag)
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the current watermark",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runWatermarkShow(c, open)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Clear the watermark so the next run treats every commit as new",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runWatermarkSave(c, open, "")
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <timestamp|duration>",
		Short: "Set the watermark to an instant or to a duration before now",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			printer := newPrinter(c)
			now := time.Now()
			at, err := parseWatermarkValue(args[0], now)
			if err != nil {
				userErr := output.NewUserErrorWithCause(err.Error(), err)
				printer.Error(userErr)
				return userErr
			}
			if at.After(now) {
				conflict := output.NewConflictError(fmt.Sprintf("watermark %s is in the future", commits.FormatWatermark(at)))
				printer.Error(conflict)
				return conflict
			}
			return runWatermarkSave(c, open, commits.FormatWatermark(at))
		},
	})

	return cmd
}

type storeOpener func(*cobra.Command) (watermark.Store, func() error, error)

// openWatermarkStore resolves the store the run command would use.
func openWatermarkStore(cmd *cobra.Command, stateFlag string) (watermark.Store, func() error, error) {
	file, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	flags := runFlags{state: stateFlag}
	s, err := resolveSettings(cmd, flags, file, os.Getenv)
	if err != nil {
		return nil, nil, err
	}
	return openStore(cmd.Context(), s)
}

func runWatermarkShow(cmd *cobra.Command, open storeOpener) error {
	printer := newPrinter(cmd)

	store, closeFn, err := open(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}
	defer func() { _ = closeFn() }()

	result, err := describeWatermark(cmd.Context(), store)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(result)
	}
	printer.KeyValue("Store", result.Store)
	if !result.Set {
		printer.KeyValue("Watermark", "(none) - the next run treats every commit in the window as new")
		return nil
	}
	printer.KeyValue("Watermark", result.Raw)
	printer.KeyValue("UTC", result.UTC)
	return nil
}

func describeWatermark(ctx context.Context, store watermark.Store) (watermarkResult, error) {
	result := watermarkResult{Store: watermark.Describe(store)}
	raw, ok, err := store.Load(ctx)
	if err != nil {
		return result, err
	}
	if !ok {
		return result, nil
	}

	at, err := commits.ParseWatermark(raw)
	if err != nil {
		return result, output.NewUserErrorWithCause(fmt.Sprintf("invalid watermark %q; run 'contentbot watermark reset'", raw), err)
	}
	result.Set = true
	result.Raw = raw
	result.UTC = at.Format(time.RFC3339)
	return result, nil
}

func runWatermarkSave(cmd *cobra.Command, open storeOpener, value string) error {
	printer := newPrinter(cmd)

	store, closeFn, err := open(cmd)
	if err != nil {
		printer.Error(err)
		return err
	}
	defer func() { _ = closeFn() }()

	if err := store.Save(cmd.Context(), value); err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.WriteJSON(watermarkResult{Set: value != "", Raw: value, Store: watermark.Describe(store)})
	}
	if value == "" {
		printer.Status("✅", "Watermark cleared (%s)", watermark.Describe(store))
		return nil
	}
	printer.Status("✅", "Watermark set to %s (%s)", value, watermark.Describe(store))
	return nil
}
