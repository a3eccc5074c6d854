package main

import (
	"fmt"
	"math"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"catsearch/internal/catalog"
	"catsearch/internal/fetch"
	"catsearch/internal/fetch/cdms"
	"catsearch/internal/fetch/jpl"
	"catsearch/internal/logging"
	"catsearch/internal/units"
)

func newFetchCommand(ctx *commandContext) *cobra.Command {
	var (
		output       string
		sources      []string
		unitFlag     string
		minFrequency float64
		maxFrequency float64
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the JPL and CDMS catalogs into a local catalog file",
		Long: `Download the substance directories and line lists from the upstream
archives and save them as one catalog file. Interrupting the download keeps
the substances fetched so far.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger := ctx.ensureLogger()

			if unitFlag == "" {
				unitFlag = cfg.Search.FrequencyUnit
			}
			unit, err := units.ParseFrequencyUnit(unitFlag)
			if err != nil {
				return err
			}

			limits := fetch.Unbounded()
			if cmd.Flags().Changed("min-frequency") {
				limits.Min = unit.ToMHz(minFrequency)
			}
			if cmd.Flags().Changed("max-frequency") {
				limits.Max = unit.ToMHz(maxFrequency)
			}

			httpClient := &http.Client{Timeout: time.Duration(cfg.Fetch.TimeoutSeconds) * time.Second}
			var selected []fetch.Source
			for _, name := range sources {
				switch strings.ToLower(strings.TrimSpace(name)) {
				case "jpl":
					selected = append(selected, jpl.New(cfg.Fetch.JPLBaseURL, jpl.WithHTTPClient(httpClient)))
				case "cdms":
					selected = append(selected, cdms.New(cfg.Fetch.CDMSBaseURL, cdms.WithHTTPClient(httpClient)))
				default:
					return fmt.Errorf("unknown source %q (use jpl or cdms)", name)
				}
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			orchestrator := fetch.New(fetch.Options{
				Concurrency: cfg.Fetch.Concurrency,
				Attempts:    cfg.Fetch.Attempts,
				RetryDelay:  time.Duration(cfg.Fetch.RetryDelayMS) * time.Millisecond,
				Logger:      logger,
				Progress:    newProgressFunc(),
			}, selected...)

			result, err := orchestrator.Fetch(runCtx, limits)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stderr)
			if result.Cancelled {
				logger.Warn("download interrupted, saving partial catalog",
					"entries", len(result.Entries))
			}
			for _, failure := range result.Failures {
				logger.Warn("gave up on substance", logging.Err(failure))
			}
			if len(result.Entries) == 0 {
				return fmt.Errorf("nothing downloaded (%d failures)", len(result.Failures))
			}

			target := strings.TrimSpace(output)
			if target == "" {
				target = cfg.Catalog.DownloadPath
			}
			if dir := filepath.Dir(target); dir != "." && dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create catalog directory %q: %w", dir, err)
				}
			}
			kind, _ := catalog.CompressionForName(target)

			doc := catalog.Document{
				Entries:      result.Entries,
				MinFrequency: limits.Min,
				MaxFrequency: limits.Max,
				BuildTime:    time.Now().UTC(),
			}
			saved, err := catalog.Save(target, doc, kind)
			if err != nil {
				return err
			}
			logger.Info("catalog saved",
				"file", saved,
				"entries", len(result.Entries),
				"failures", len(result.Failures))
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d substances to %s\n", len(result.Entries), saved)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&output, "output", "o", "", "Catalog file to write (default from config)")
	flags.StringSliceVar(&sources, "source", []string{"jpl", "cdms"}, "Archives to download from")
	flags.StringVarP(&unitFlag, "frequency-unit", "u", "", "Frequency unit: MHz, GHz, 1/cm, or nm")
	flags.Float64Var(&minFrequency, "min-frequency", math.Inf(-1), "Lowest frequency to keep")
	flags.Float64Var(&maxFrequency, "max-frequency", math.Inf(1), "Highest frequency to keep")
	return cmd
}

// newProgressFunc draws a terminal progress bar over the substance count, or
// stays silent when stderr is not a terminal.
func newProgressFunc() fetch.ProgressFunc {
	var (
		mu  sync.Mutex
		bar *progressbar.ProgressBar
	)
	return func(done, total int) {
		mu.Lock()
		defer mu.Unlock()
		if bar == nil {
			if total == 0 {
				return
			}
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetDescription("downloading"),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetVisibility(stderrIsTerminal()),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Set(done)
	}
}
