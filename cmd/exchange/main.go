package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	pyroscope "github.com/grafana/pyroscope-go"
	"github.com/yanun0323/logs"

	"main/internal/bus"
	"main/internal/matchmaker"
	"main/internal/obs"
	"main/internal/ops"
	"main/internal/playback"
	"main/internal/tape"
)

func main() {
	if err := run(); err != nil {
		logs.Errorf("exchange: %v", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "config.json", "Path to JSON config")
	orderLimit := flag.Uint64("order-limit", 0, "Stop after feeding this many orders (0=until signal)")
	syntheticSeed := flag.Int64("synthetic-seed", time.Now().UnixNano(), "Seed for the synthetic order generator")
	pyroscopeAddr := flag.String("pyroscope", "", "Pyroscope server address (empty=disabled)")
	flag.Parse()

	loaded, err := ops.Load(*configPath)
	if err != nil {
		return err
	}
	logs.Infof("config loaded: %d symbol(s)", loaded.Registry.SymbolCount())

	if *pyroscopeAddr != "" {
		profiler, err := pyroscope.Start(pyroscope.Config{
			ApplicationName: "exchange",
			ServerAddress:   *pyroscopeAddr,
			ProfileTypes: []pyroscope.ProfileType{
				pyroscope.ProfileCPU,
				pyroscope.ProfileAllocObjects,
				pyroscope.ProfileAllocSpace,
				pyroscope.ProfileInuseObjects,
				pyroscope.ProfileInuseSpace,
			},
		})
		if err != nil {
			return fmt.Errorf("start profiler: %w", err)
		}
		defer profiler.Stop()
	}

	var sink matchmaker.EventSink
	if loaded.TapeDSN != "" {
		writer, err := tape.NewWriter(loaded.TapeDSN, loaded.TapeBatchSize)
		if err != nil {
			return err
		}
		defer func() {
			if err := writer.Close(); err != nil {
				logs.Errorf("trade tape close failed: %v", err)
			}
		}()
		sink = writer
	}

	producer, err := newProducer(loaded, *syntheticSeed)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := obs.NewMetrics()
	matchmakers := matchmaker.BuildMatchmakers(loaded.Registry)
	queues := make(map[int32]*bus.Queue, len(matchmakers))

	var wg sync.WaitGroup
	for instrumentType, m := range matchmakers {
		queue := bus.NewQueue(loaded.QueueCapacity)
		queues[int32(instrumentType)] = queue
		worker := matchmaker.NewWorker(m, queue, metrics, sink)
		wg.Add(1)
		go func() {
			defer wg.Done()
			worker.Run(ctx)
		}()
	}

	feed(ctx, loaded, producer, queues, metrics, *orderLimit)

	for _, queue := range queues {
		queue.Close()
	}
	wg.Wait()

	snapshot := metrics.Snapshot()
	logs.Infof("done: orders=%d trades=%d queue_drops=%d outcomes=%v",
		snapshot.OrdersConsumed, snapshot.TradesEmitted, snapshot.QueueDrops, snapshot.OutcomeCounts)
	return nil
}

func newProducer(loaded ops.Loaded, seed int64) (playback.Producer, error) {
	if loaded.PlaybackPath != "" {
		producer, err := playback.NewCSVProducer(loaded.PlaybackPath, loaded.Registry)
		if err != nil {
			return nil, err
		}
		logs.Infof("playback producer: %d row(s) from %s", producer.Len(), loaded.PlaybackPath)
		return producer, nil
	}
	logs.Info("no playback file configured, using synthetic producer")
	return playback.NewSyntheticProducer(loaded.Registry, seed), nil
}

// feed routes orders from the producer to the queue of the owning
// instrument type until the context is done, the producer runs dry, or
// the order limit is hit.
func feed(ctx context.Context, loaded ops.Loaded, producer playback.Producer, queues map[int32]*bus.Queue, metrics *obs.Metrics, limit uint64) {
	var fed uint64
	for ctx.Err() == nil {
		if limit > 0 && fed >= limit {
			return
		}
		o, ok := producer.Next()
		if !ok {
			logs.Info("producer exhausted")
			return
		}
		sym, ok := loaded.Registry.Symbol(o.SymbolID)
		if !ok {
			logs.Warnf("order for unknown symbol id %d dropped", o.SymbolID)
			continue
		}
		queue, ok := queues[int32(sym.Type)]
		if !ok {
			logs.Warnf("no worker for instrument type %s, order dropped", sym.Type)
			continue
		}
		if !queue.TryEnqueue(o) {
			metrics.ObserveQueueDrop()
			for !queue.TryEnqueue(o) {
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Millisecond):
				}
			}
		}
		fed++
		if loaded.PlaybackDelay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(loaded.PlaybackDelay):
			}
		}
	}
}
