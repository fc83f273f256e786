package main

import (
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/subosito/gotenv"

	"github.com/gautampharma/ledger/pkg/config"
	"github.com/gautampharma/ledger/pkg/server"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		Prefix:          "ledger",
	})

	_ = gotenv.Load()

	var cfgFile string
	flag.StringVar(&cfgFile, "config", "", "Config file (default is config.yaml)")
	flag.Parse()

	cfg, err := config.Build(cfgFile, nil)
	if err != nil {
		logger.Fatal("failed to load config", "err", err)
	}

	srv := server.New(cfg, logger, nil)
	logger.Info("starting server", "addr", cfg.ListenAddr, "data_dir", cfg.DataDir)
	if err := srv.Start(cfg.ListenAddr); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
