// Copyright 2025 LNP/BP RGB Contributors
//
// rgbvalidate is the validation service entrypoint: it loads bootstrap
// configuration, dials a chain resolver, and serves the HTTP validation
// API until it receives a shutdown signal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lnp-bp/rgb-validation-core/internal/corelog"
	"github.com/lnp-bp/rgb-validation-core/pkg/chainrpc"
	"github.com/lnp-bp/rgb-validation-core/pkg/metrics"
	"github.com/lnp-bp/rgb-validation-core/pkg/server"
	"github.com/lnp-bp/rgb-validation-core/pkg/svcconfig"
	"github.com/lnp-bp/rgb-validation-core/pkg/validation"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the service configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "rgbvalidate: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := svcconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := corelog.New(os.Stdout, "[rgbvalidate] ", corelog.ParseLevel(cfg.Logging.Level))

	chainParams := &chaincfg.MainNetParams
	if cfg.Chain.Network == "testnet" {
		chainParams = &chaincfg.TestNet3Params
	} else if cfg.Chain.Network == "signet" {
		chainParams = &chaincfg.SigNetParams
	}

	resolver, err := chainrpc.Dial(cfg.Chain.RPCAddr, os.Getenv("RGB_CHAIN_RPC_USER"), os.Getenv("RGB_CHAIN_RPC_PASS"), chainParams)
	if err != nil {
		return fmt.Errorf("dial chain resolver: %w", err)
	}
	defer resolver.Close()

	validator := validation.New(resolver)
	m := metrics.New(prometheus.DefaultRegisterer)
	handler := server.New(validator, m, logger.Std())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Infof("starting on %s (chain=%s)", cfg.Listen.Addr, cfg.Chain.Network)
	return server.Serve(ctx, cfg.Listen.Addr, handler, logger.Std())
}
