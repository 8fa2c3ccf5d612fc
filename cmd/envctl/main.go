// Command envctl is a demonstration harness: it wires the envelope
// serialization orchestrator to a real queue backend (NATS or Kafka),
// publishes a synthetic event on a timer, and logs the round trip as
// each publish comes back through the receive path.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/adred-codev/envelopes/carrier"
	"github.com/adred-codev/envelopes/clock"
	"github.com/adred-codev/envelopes/codec"
	"github.com/adred-codev/envelopes/idgen"
	"github.com/adred-codev/envelopes/internal/config"
	"github.com/adred-codev/envelopes/internal/hostinfo"
	"github.com/adred-codev/envelopes/internal/obslog"
	"github.com/adred-codev/envelopes/internal/queue"
	"github.com/adred-codev/envelopes/internal/queue/kafkaqueue"
	"github.com/adred-codev/envelopes/internal/queue/natsqueue"
	"github.com/adred-codev/envelopes/serializer"
	"github.com/adred-codev/envelopes/subscriber"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	_ "go.uber.org/automaxprocs"
)

// DemoEvent is the one message type the demo harness round-trips.
type DemoEvent struct {
	Sequence int    `json:"sequence"`
	Message  string `json:"message"`
}

const demoTypeID = "envctl.demo.v1"

func splitBrokers(brokers string) []string {
	var result []string
	for _, b := range strings.Split(brokers, ",") {
		if trimmed := strings.TrimSpace(b); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func main() {
	debug := flag.Bool("debug", false, "enable debug logging (overrides ENV_LOG_LEVEL)")
	flag.Parse()

	cfg, err := config.Load(nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "envctl: failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.LogLevel = "debug"
	}

	logger := obslog.NewLogger(obslog.LoggerConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger.Info().Int("gomaxprocs", runtime.GOMAXPROCS(0)).Msg("starting envctl")
	cfg.LogConfig(logger)

	if snap, err := hostinfo.NewMonitor(100 * time.Millisecond).Sample(); err == nil {
		logger.Info().
			Float64("cpu_percent", snap.CPUPercent).
			Int("cpu_cores", snap.CPUCores).
			Uint64("memory_used_mb", snap.MemoryUsedMB).
			Msg("host snapshot at startup")
	}

	registry := subscriber.NewMap()
	registry.Register(demoTypeID, func() any { return &DemoEvent{} }, codec.JSON{})

	ser := serializer.New(
		registry,
		registry,
		clock.System{},
		idgen.UUID{},
		serializer.StaticSource(cfg.SourceURI),
		serializer.Callbacks{},
		serializer.Options{
			CleanRentedBuffers: cfg.CleanRentedBuffers,
			LogMessageContent:  cfg.LogMessageContent,
		},
	)

	backend, err := newBackend(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create queue backend")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := obslog.NewCollector(func() float64 {
		snap, err := hostinfo.NewMonitor(50 * time.Millisecond).Sample()
		if err != nil {
			return 0
		}
		return snap.CPUPercent
	})
	collector.Start(cfg.MetricsInterval)
	defer collector.Stop()

	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/metrics", obslog.HandleMetrics)
		logger.Info().Str("addr", cfg.MetricsAddr).Msg("serving metrics")
		if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil {
			logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	go func() {
		if err := backend.Subscribe(ctx, func(ctx context.Context, msg queue.Message) error {
			env, _, err := ser.ConvertToEnvelope(msg.Body, carrier.QueueMetadata{})
			if err != nil {
				logger.Error().Err(err).Msg("convert-to-envelope failed")
				return err
			}
			logger.Info().
				Str("id", env.ID).
				Str("type", env.Type).
				Interface("data", env.Data).
				Msg("received envelope")
			return nil
		}); err != nil {
			logger.Error().Err(err).Msg("subscribe loop stopped")
		}
	}()

	go runPublishLoop(ctx, cfg, ser, backend, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("shutting down")
	cancel()
	if err := backend.Close(); err != nil {
		logger.Error().Err(err).Msg("error closing queue backend")
	}
}

func newBackend(cfg *config.Config, logger zerolog.Logger) (queue.Backend, error) {
	switch cfg.QueueBackend {
	case "kafka":
		return kafkaqueue.New(kafkaqueue.Config{
			Brokers:       splitBrokers(cfg.KafkaBrokers),
			ConsumerGroup: cfg.ConsumerGroup,
			Topic:         cfg.Subject,
		}, logger)
	default:
		return natsqueue.New(natsqueue.Config{
			URL:           cfg.NATSUrl,
			Subject:       cfg.Subject,
			MaxReconnects: 10,
			ReconnectWait: 2 * time.Second,
		}, logger)
	}
}

// runPublishLoop stamps and publishes a DemoEvent on every tick,
// throttled to cfg.PublishRate messages/sec.
func runPublishLoop(ctx context.Context, cfg *config.Config, ser *serializer.Serializer, backend queue.Backend, logger zerolog.Logger) {
	limiter := rate.NewLimiter(rate.Limit(cfg.PublishRate), cfg.PublishBurst)

	sequence := 0
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}

		sequence++
		env, err := ser.CreateEnvelope(&DemoEvent{Sequence: sequence, Message: "hello from envctl"})
		if err != nil {
			logger.Error().Err(err).Msg("create-envelope failed")
			continue
		}

		wire, err := ser.Serialize(env)
		if err != nil {
			logger.Error().Err(err).Msg("serialize failed")
			continue
		}

		if err := backend.Publish(ctx, queue.Message{Body: wire}); err != nil {
			logger.Error().Err(err).Msg("publish failed")
			continue
		}

		logger.Debug().Str("id", env.ID).Int("sequence", sequence).Msg("published envelope")
	}
}
