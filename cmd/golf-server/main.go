package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/sirupsen/logrus"

	"github.com/lixenwraith/bouncegolf/config"
	"github.com/lixenwraith/bouncegolf/golf"
	"github.com/lixenwraith/bouncegolf/logging"
	"github.com/lixenwraith/bouncegolf/server"
)

var (
	configPath = flag.String("config", "", "Path to a TOML config file")
	writeConf  = flag.Bool("write-config", false, "Write the default config to -config and exit")
	debugFlag  = flag.Bool("debug", false, "Enable debug logging to the log directory")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

// run starts the server and returns the exit code once every deferred cleanup has run
func run() int {
	if *writeConf {
		if *configPath == "" {
			fmt.Fprintln(os.Stderr, "-write-config needs -config")
			return 2
		}
		if err := config.SaveDefault(*configPath); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			return 1
		}
		return 0
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	log, logFile, err := logging.Setup(logging.Options{
		Debug:   cfg.Log.Debug || *debugFlag,
		Persist: true,
		Dir:     cfg.Log.Dir,
		Name:    "golf-server",
		MaxSize: cfg.Log.MaxSize,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		return 1
	}
	if logFile != nil {
		defer logFile.Close()
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			log.WithError(err).Warn("sentry disabled")
		}
		defer sentry.Flush(2 * time.Second)
	}
	defer sentry.Recover()

	if cfg.Stats.Addr != "" {
		// Configuration must be set before statsview.New
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr(cfg.Stats.Addr))
		mgr := statsview.New()
		go mgr.Start()
		defer mgr.Stop()
		log.WithField("addr", cfg.Stats.Addr).Info("stats viewer started")
	}

	svc := golf.NewService(golf.Options{
		RoundLength:  config.Duration(cfg.Game.RoundLength),
		MaxBalls:     cfg.Game.MaxBalls,
		CPUFirstMove: config.Duration(cfg.Game.CPUFirstMove),
		HoleWidth:    cfg.Game.HoleWidth,
		Log:          log.WithField("component", "golf"),
	})
	defer svc.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runCPUCron(ctx, svc, config.Duration(cfg.Game.CPUInterval), log)

	srv := server.New(svc, log.WithField("component", "http"))
	err = srv.ListenAndServe(ctx, server.ListenOptions{
		Addr:         cfg.Server.Addr,
		ReadTimeout:  config.Duration(cfg.Server.ReadTimeout),
		WriteTimeout: config.Duration(cfg.Server.WriteTimeout),
	})
	if err != nil {
		log.WithError(err).Error("server stopped")
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		return 1
	}
	log.Info("shut down")
	return 0
}

// runCPUCron tries to add a computer player every interval until ctx ends
func runCPUCron(ctx context.Context, svc *golf.Service, interval time.Duration, log logrus.FieldLogger) {
	defer sentry.Recover()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			id, ok, err := svc.SpawnCPU()
			switch {
			case err != nil:
				log.WithError(err).Warn("cpu spawn failed")
			case ok:
				log.WithField("ball", id).Info("cpu joined")
			}
		}
	}
}
