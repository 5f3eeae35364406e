// Command chainmapdemo walks through a small chainmap table and then runs
// a concurrent insert load against a large one.
//
// Settings come from defaults, an optional YAML file given with -config,
// and CHAINMAP_* environment variables (e.g. CHAINMAP_LOCK=spin).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := InitLogger(cfg.LogLevel, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	walkthrough(cfg, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	stats, err := runLoad(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("load failed")
		stop()
		os.Exit(1)
	}
	log.Info().Object("stats", stats).Msg("load stats")
}
