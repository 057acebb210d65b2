/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package main

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/acronis/go-memocache/log"
	"github.com/acronis/go-memocache/memocache"
	"github.com/acronis/go-memocache/retry"
)

var errIsDirectory = errors.New("is a directory")

// runStats counts cache events of a single run on top of the wrapped collector.
type runStats struct {
	memocache.MetricsCollector
	hits      int
	misses    int
	evictions int
	failures  int
}

func (s *runStats) IncHits() {
	s.hits++
	s.MetricsCollector.IncHits()
}

func (s *runStats) IncMisses() {
	s.misses++
	s.MetricsCollector.IncMisses()
}

func (s *runStats) AddEvictions(n int) {
	s.evictions += n
	s.MetricsCollector.AddEvictions(n)
}

func (s *runStats) IncComputeFailures() {
	s.failures++
	s.MetricsCollector.IncComputeFailures()
}

// hasher prints SHA-256 digests of files, remembering digests of recently seen paths.
type hasher struct {
	cache  *memocache.Cache[string, string]
	stats  *runStats
	logger log.FieldLogger
}

func newHasher(ctx context.Context, cfg *AppConfig, metrics memocache.MetricsCollector, logger log.FieldLogger) (*hasher, error) {
	compute := withReadRetries(ctx, cfg.Compute.Retry, hashFile, logger)

	stats := &runStats{MetricsCollector: metrics}
	cache, err := memocache.NewFromConfig[string, string](cfg.Cache, compute, memocache.Options{
		MetricsCollector: stats,
		Logger:           logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	return &hasher{cache: cache, stats: stats, logger: logger}, nil
}

// withReadRetries makes read retry retryable errors until cfg.MaxAttempts reads in total are made.
func withReadRetries(
	ctx context.Context, cfg RetryConfig, read memocache.ComputeFunc[string, string], logger log.FieldLogger,
) memocache.ComputeFunc[string, string] {
	if cfg.MaxAttempts <= 1 {
		return read
	}
	policy := retry.NewExponentialBackoffPolicy(time.Duration(cfg.InitialInterval), cfg.MaxAttempts-1)
	notify := func(err error, delay time.Duration) {
		logger.Warn("reading file failed, will retry", log.Error(err), log.Duration("delay", delay))
	}
	return retry.Compute[string, string](ctx, policy, isRetryableReadErr, notify,
		func(_ context.Context, path string) (string, error) { return read(path) })
}

// hashPaths writes "<digest>  <path>" for every path and returns the number of paths that could not be hashed.
func (h *hasher) hashPaths(paths []string, out io.Writer) (failed int, err error) {
	for _, path := range paths {
		digest, hashErr := h.cache.Get(path)
		if hashErr != nil {
			h.logger.Error("failed to hash file", log.String("path", path), log.Error(hashErr))
			failed++
			continue
		}
		if _, err = fmt.Fprintf(out, "%s  %s\n", digest, path); err != nil {
			return failed, fmt.Errorf("write output: %w", err)
		}
	}
	return failed, nil
}

func (h *hasher) logStats() {
	h.logger.Info("done",
		log.Int("hits", h.stats.hits),
		log.Int("misses", h.stats.misses),
		log.Int("evictions", h.stats.evictions),
		log.Int("failures", h.stats.failures),
		log.Int("cached", h.cache.Len()),
	)
}

func hashFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s: %w", path, errIsDirectory)
	}

	f, err := os.Open(path) //nolint:gosec // reading user-supplied paths is the purpose of the tool
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	digest := sha256.New()
	if _, err = io.Copy(digest, f); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return hex.EncodeToString(digest.Sum(nil)), nil
}

func isRetryableReadErr(err error) bool {
	return !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, fs.ErrPermission) && !errors.Is(err, errIsDirectory)
}

// readPaths returns non-empty lines of r with surrounding whitespace trimmed.
func readPaths(r io.Reader) ([]string, error) {
	var paths []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			paths = append(paths, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}
	return paths, nil
}
