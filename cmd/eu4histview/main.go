/*

eu4histview is a small CLI harness over this module's save-replay core,
the way the teacher's cmd/screp is a harness over its replay parser: not
the product (a GUI shell is the actual product this library is meant to
back), but a way to load a game directory and a save file from a
terminal and see the rendered map at a given date.

*/
package main

import (
	"fmt"
	"image/png"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-eu4/eu4hist/gamedata"
	"github.com/go-eu4/eu4hist/history"
	"github.com/go-eu4/eu4hist/provindex"
	"github.com/go-eu4/eu4hist/render"
	"github.com/go-eu4/eu4hist/save"
	"github.com/go-eu4/eu4hist/txtparser"
	"github.com/go-eu4/eu4hist/txtparser/txtsource"
)

const (
	appName    = "eu4histview"
	appVersion = "v0.1.0"
)

var (
	gameDir     string
	savePath    string
	indexPath   string
	renderDate  string
	outPath     string
	verbose     bool
	showSummary bool
	debugTrees  bool
)

func main() {
	root := &cobra.Command{
		Use:     appName,
		Short:   "load an EU4-format game directory and save, and render the map at a date",
		Version: appVersion,
	}
	root.PersistentFlags().StringVar(&gameDir, "game-dir", "", "path to the game's static data directory (required)")
	root.PersistentFlags().StringVar(&indexPath, "index", "", "path to a persisted province index (optional; rebuilt if absent or stale)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&debugTrees, "debug", false, "retain raw parsed trees on loaded data for troubleshooting a bad save")
	root.MarkPersistentFlagRequired("game-dir")

	root.AddCommand(renderCmd())
	root.AddCommand(indexCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig(logger *slog.Logger) gamedata.LoadConfig {
	return gamedata.LoadConfig{Logger: logger, Debug: debugTrees}
}

func indexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "build (or rebuild) the persisted province index and write it to --index",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			opener := txtsource.NewDirOpener(gameDir)
			cfg := loadConfig(logger)

			provinces, err := gamedata.LoadProvinces(opener, cfg)
			if err != nil {
				return fmt.Errorf("loading provinces: %w", err)
			}
			if err := gamedata.IndexRegions(opener, provinces, cfg); err != nil {
				return fmt.Errorf("indexing regions: %w", err)
			}

			if indexPath == "" {
				return fmt.Errorf("--index is required for the index command")
			}
			f, err := os.Create(indexPath)
			if err != nil {
				return fmt.Errorf("creating index file: %w", err)
			}
			defer f.Close()

			if err := provindex.Save(f, provinces); err != nil {
				return fmt.Errorf("writing index: %w", err)
			}
			logger.Info("wrote province index", "path", indexPath, "provinces", len(provinces))
			return nil
		},
	}
	return cmd
}

func renderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "load --save and render the map at --date, writing a PNG to --out",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender()
		},
	}
	cmd.Flags().StringVar(&savePath, "save", "", "path to the save file (required)")
	cmd.Flags().StringVar(&renderDate, "date", "", "target date, Y.M.D (defaults to the save's latest date)")
	cmd.Flags().StringVar(&outPath, "out", "out.png", "output PNG path")
	cmd.Flags().BoolVar(&showSummary, "summary", false, "log province/country counts and date bounds after rendering")
	cmd.MarkFlagRequired("save")
	return cmd
}

func runRender() error {
	logger := newLogger()
	opener := txtsource.NewDirOpener(gameDir)
	cfg := loadConfig(logger)

	countries, err := gamedata.LoadCountries(opener, cfg)
	if err != nil {
		return fmt.Errorf("loading countries: %w", err)
	}

	provinces, err := loadOrBuildProvinceIndex(opener, cfg)
	if err != nil {
		return err
	}

	mapMeta, err := gamedata.LoadMapMeta(opener, cfg)
	if err != nil {
		return fmt.Errorf("loading map metadata: %w", err)
	}

	saveData, err := os.ReadFile(savePath)
	if err != nil {
		return fmt.Errorf("reading save file: %w", err)
	}
	saveTree, err := txtparser.Parse(saveData, txtparser.StripHeader)
	if err != nil {
		return fmt.Errorf("parsing save: %w", err)
	}

	gamedata.CreateDynamicCountries(saveTree, countries)

	hist, err := history.Build(saveTree, provinces, history.BuildConfig{Logger: logger})
	if err != nil {
		return fmt.Errorf("building history: %w", err)
	}

	r, err := render.New(provinces, countries, mapMeta, hist, render.Config{Logger: logger, Debug: debugTrees})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	target := hist.StartDate
	if renderDate != "" {
		d, ok := save.ParseDateKey(renderDate)
		if !ok {
			return fmt.Errorf("invalid --date %q, want Y.M.D", renderDate)
		}
		target = d
	} else if dates := hist.DatesIndex.SortedDates(); len(dates) > 0 {
		target = dates[len(dates)-1]
	}
	if err := r.RenderAtDate(target); err != nil {
		return fmt.Errorf("rendering at %s: %w", target.String(), err)
	}

	if showSummary {
		// Computed on demand, the way the teacher's rep.Compute() is an
		// explicit opt-in rather than always-on parse cost.
		s := save.Summarize(provinces, countries, hist.DatesIndex, hist.StartDate)
		logger.Info("save summary",
			"provinces", s.ProvinceCount,
			"countries", s.CountryCount,
			"start_date", s.StartDate.String(),
			"end_date", s.EndDate.String(),
			"countries_with_provinces", len(s.ProvinceCountByTag))
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer out.Close()

	if err := png.Encode(out, r.Image()); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}

	logger.Info("rendered map", "date", target.String(), "out", outPath)
	return nil
}

func loadOrBuildProvinceIndex(opener txtsource.Opener, cfg gamedata.LoadConfig) (map[int]*save.Province, error) {
	logger := cfg.Logger
	if indexPath != "" {
		if f, err := os.Open(indexPath); err == nil {
			defer f.Close()
			if provinces, err := provindex.Load(f); err == nil {
				logger.Info("loaded persisted province index", "path", indexPath, "provinces", len(provinces))
				if err := gamedata.ApplyInitialHistory(opener, provinces, cfg); err != nil {
					return nil, fmt.Errorf("applying initial history: %w", err)
				}
				return provinces, nil
			} else {
				logger.Warn("persisted province index unusable, rebuilding", "path", indexPath, "error", err)
			}
		}
	}

	provinces, err := gamedata.LoadProvinces(opener, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading provinces: %w", err)
	}
	if err := gamedata.IndexRegions(opener, provinces, cfg); err != nil {
		return nil, fmt.Errorf("indexing regions: %w", err)
	}

	if indexPath != "" {
		if f, err := os.Create(indexPath); err == nil {
			defer f.Close()
			if err := provindex.Save(f, provinces); err != nil {
				logger.Warn("failed to persist province index", "error", err)
			}
		}
	}

	return provinces, nil
}
