package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/icebet20/Ironhockeybot/internal/composer"
	"github.com/icebet20/Ironhockeybot/internal/notifier"
	"github.com/icebet20/Ironhockeybot/internal/oddsapi"
	"github.com/icebet20/Ironhockeybot/internal/picker"
	pkgconfig "github.com/icebet20/Ironhockeybot/internal/pkg/config"
	"github.com/icebet20/Ironhockeybot/internal/pkg/health"
	"github.com/icebet20/Ironhockeybot/internal/pkg/logging"
	"github.com/icebet20/Ironhockeybot/internal/pkg/storage"
	"github.com/icebet20/Ironhockeybot/internal/scheduler"
)

const defaultConfigPath = "configs/production.yaml"

type flags struct {
	configPath string
	runFor     time.Duration
}

func main() {
	if err := run(); err != nil {
		slog.Error("Hockey bot failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := parseFlags()

	slog.Info("Loading config", "path", cfg.configPath)
	appConfig, err := pkgconfig.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logging.Setup(&appConfig.Logging, "hockey-bot")

	band, err := pickerBand(appConfig)
	if err != nil {
		return err
	}

	tg, err := notifier.NewTelegram(appConfig.Telegram.BotToken, appConfig.Telegram.Channel)
	if err != nil {
		return fmt.Errorf("failed to init telegram: %w", err)
	}

	client := oddsapi.NewClient(appConfig)
	catalog := oddsapi.NewCatalog(client, storage.NewFileSportsCache(appConfig.Storage.SportsCacheFile))
	ledger := storage.NewFileLedger(appConfig.Storage.StateFile)
	compose := composer.New(appConfig.Picker.TZOffset)

	ctx, cancel := createContext(cfg.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	// Warm the catalog cache so the first slot does not pay the extra call.
	if sports := catalog.HockeySports(ctx); len(sports) > 0 {
		slog.Info("Sports catalog ready", "hockey_sports", len(sports))
	}

	pickJob := &scheduler.PickJob{
		Catalog:  catalog,
		Source:   client,
		Ledger:   ledger,
		Composer: compose,
		Sender:   tg,
		Band:     band,
	}
	sweepJob := &scheduler.ResultSweepJob{
		Source:   client,
		Ledger:   ledger,
		Composer: compose,
		Sender:   tg,
		DaysFrom: appConfig.Results.DaysFrom,
	}

	sched := scheduler.New(ctx)
	for _, slot := range appConfig.Picker.PostTimes {
		hour, minute, err := pkgconfig.ParseSlot(slot)
		if err != nil {
			return err
		}
		spec := scheduler.SlotSpec(hour, minute, appConfig.Picker.TZOffset)
		if err := sched.AddJob(spec, pickJob); err != nil {
			return err
		}
		slog.Info("Scheduled autopost slot", "local_time", slot, "utc_spec", spec)
	}
	if err := sched.AddJob(fmt.Sprintf("@every %s", appConfig.Results.SweepInterval), sweepJob); err != nil {
		return err
	}

	health.Run(ctx, appConfig.Health.Port, "hockey-bot", appConfig.Health.ReadHeaderTimeout)

	sched.Start()
	sched.RunNow(sweepJob)
	slog.Info("Iron Hockey autonomous bot is running",
		"slots", appConfig.Picker.PostTimes,
		"sweep_interval", appConfig.Results.SweepInterval.String(),
		"odds_range", appConfig.Picker.OddsRange)

	<-ctx.Done()
	sched.Stop()
	return nil
}

func parseFlags() flags {
	var cfg flags
	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}
	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file")
	flag.DurationVar(&cfg.runFor, "run-for", 0, "Auto-stop after duration. 0 = run until SIGINT/SIGTERM")
	flag.Parse()
	return cfg
}

func pickerBand(appConfig *pkgconfig.Config) (picker.Band, error) {
	min, max, err := appConfig.Picker.ParseOddsRange()
	if err != nil {
		return picker.Band{}, err
	}
	return picker.Band{Min: min, Max: max}, nil
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
		}
	}()
}
