// Package main provides the spyglass-demo CLI for exercising the telemetry
// pipeline against a configured sink.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spyglass-io/spyglass"
	"github.com/spyglass-io/spyglass/collector"
	"github.com/spyglass-io/spyglass/sink"
	"github.com/spyglass-io/spyglass/stats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	mode := os.Args[1]
	switch mode {
	case "run":
		runDemo(os.Args[2:])
	case "bench":
		runBench(os.Args[2:])
	case "-h", "--help", "help":
		printUsage()
	default:
		_, _ = fmt.Fprintf(os.Stderr, "Unknown mode: %s\n", mode)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`spyglass-demo - telemetry pipeline demo

Usage:
  spyglass-demo <mode> [flags]

Modes:
  run     Fire a concurrent workload through the pipeline and print a summary
  bench   Measure the per-event enqueue cost

Run Mode Flags:
  --config    Config file path (YAML/JSON); defaults apply when omitted
  --workers   Concurrent producer goroutines (default: 3)
  --events    Events per worker (default: 1000)

Bench Mode Flags:
  --events    Events to enqueue (default: 100000)`)
}

func runDemo(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	workers := fs.Int("workers", 3, "concurrent producer goroutines")
	events := fs.Int("events", 1000, "events per worker")
	_ = fs.Parse(args)

	logger, _ := zap.NewDevelopment()
	defer func() { _ = logger.Sync() }()
	spyglass.SetLogger(logger)

	cfg := &spyglass.Config{}
	if *configPath != "" {
		loaded, err := spyglass.LoadConfig(*configPath)
		if err != nil {
			logger.Fatal("load config", zap.Error(err))
		}
		cfg = loaded
	}

	ctx := context.Background()

	dest, err := sink.New(ctx, cfg.Sink)
	if err != nil {
		logger.Fatal("build sink", zap.Error(err))
	}
	col, err := collector.New(dest, cfg.Collector)
	if err != nil {
		logger.Fatal("build collector", zap.Error(err))
	}

	store, err := stats.FromConfig(cfg.Stats)
	if err != nil {
		logger.Fatal("build stats store", zap.Error(err))
	}

	em := spyglass.NewEmitter(col)

	// One trace for the whole run; each worker gets its own span.
	runCtx := spyglass.WithTraceID(ctx, spyglass.SpanID())

	var wg sync.WaitGroup
	for w := range *workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			workerCtx := spyglass.WithSpanID(runCtx, spyglass.SpanID())
			for i := range *events {
				start := spyglass.NowNS()
				simulateWork()
				dur := spyglass.NowNS() - start

				isErr := rand.Float64() < 0.05
				status := 200
				if isErr {
					status = 500
					store.RecordError(stats.ErrorItem{
						TimestampNS: spyglass.NowNS(),
						Route:       "/demo",
						Status:      status,
						Kind:        "DemoError",
						Detail:      fmt.Sprintf("worker %d event %d", w, i),
					})
				}

				em.EmitRequest(workerCtx, "/demo", status, dur)
				store.Record(dur, isErr)
			}
		}()
	}
	wg.Wait()

	em.Emit(runCtx, spyglass.KindCustom, map[string]any{"msg": "demo-complete"})

	if err := col.Close(); err != nil {
		logger.Error("close collector", zap.Error(err))
	}
	if err := dest.Close(); err != nil {
		logger.Error("close sink", zap.Error(err))
	}

	sum := store.Summary()
	logger.Info("demo complete",
		zap.Uint64("delivered", col.Delivered()),
		zap.Uint64("dropped", col.Dropped()),
		zap.Uint64("samples", sum.Count),
		zap.Float64("error_rate", sum.ErrorRate),
		zap.Duration("p50", time.Duration(sum.P50)),
		zap.Duration("p99", time.Duration(sum.P99)),
		zap.Int("recent_errors", len(store.RecentErrors())),
	)
}

// simulateWork burns a small, variable amount of time.
func simulateWork() {
	time.Sleep(time.Duration(rand.IntN(200)) * time.Microsecond)
}

func runBench(args []string) {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	events := fs.Int("events", 100000, "events to enqueue")
	_ = fs.Parse(args)

	col, err := collector.New(sink.Nop{}, &spyglass.CollectorConfig{
		QueueSize:     1 << 16,
		BatchMax:      1024,
		FlushInterval: time.Second,
	})
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	em := spyglass.NewEmitter(col)
	ctx := spyglass.Activate(context.Background(), spyglass.SpanID(), spyglass.SpanID())

	start := time.Now()
	for range *events {
		em.EmitFunc(ctx, "bench", 1234, false)
	}
	elapsed := time.Since(start)
	_ = col.Close()

	fmt.Printf("enqueue avg: %.2f µs/event (%d events in %s)\n",
		float64(elapsed.Microseconds())/float64(*events), *events, elapsed)
}
