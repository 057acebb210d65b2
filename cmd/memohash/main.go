/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Command memohash prints SHA-256 digests of files.
// Paths are taken from command-line arguments or, if there are none, from stdin (one per line).
// Digests of recently hashed paths are remembered, so repeated paths are not read again.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/xid"
	"github.com/spf13/pflag"

	"github.com/acronis/go-memocache/config"
	"github.com/acronis/go-memocache/log"
	"github.com/acronis/go-memocache/memocache"
)

const metricsNamespace = "memohash"

const (
	exitCodeOK      = 0
	exitCodeFailure = 1
	exitCodeUsage   = 2
)

func main() {
	os.Exit(runMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func runMain(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("memohash", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	cfgPath := flags.StringP("config", "c", "", "path to the configuration file")
	cfgType := flags.String("config-type", string(config.DataTypeYAML), "format of the configuration file (yaml or json)")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitCodeOK
		}
		return exitCodeUsage
	}

	cfg, err := loadAppConfig(*cfgPath, config.DataType(*cfgType))
	if err != nil {
		_, _ = fmt.Fprintln(stderr, err)
		return exitCodeUsage
	}

	logger, closeLogger := log.NewLogger(cfg.Log)
	defer closeLogger()
	logger = logger.With(log.String("run_id", xid.New().String()))

	if err = run(context.Background(), cfg, flags.Args(), stdin, stdout, logger); err != nil {
		logger.Error("memohash failed", log.Error(err))
		return exitCodeFailure
	}
	return exitCodeOK
}

var errSomeFilesFailed = errors.New("some files could not be hashed")

func run(ctx context.Context, cfg *AppConfig, paths []string, stdin io.Reader, stdout io.Writer, logger log.FieldLogger) error {
	if len(paths) == 0 {
		var err error
		if paths, err = readPaths(stdin); err != nil {
			return err
		}
	}

	logger.Info("hashing files", log.Int("paths", len(paths)), log.Int("cache_capacity", cfg.Cache.Capacity))

	metrics := memocache.NewPrometheusMetricsWithOpts(memocache.PrometheusMetricsOpts{
		Namespace:   metricsNamespace,
		ConstLabels: cfg.Metrics.ConstLabels,
	})
	metrics.MustRegister()
	defer metrics.Unregister()

	h, err := newHasher(ctx, cfg, metrics, logger)
	if err != nil {
		return err
	}
	failed, err := h.hashPaths(paths, stdout)
	h.logStats()
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errSomeFilesFailed, failed, len(paths))
	}
	return nil
}
