package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/flightlink/mavconn"
	"github.com/flightlink/mavconn/diag"
	"github.com/flightlink/mavconn/frame"
)

// bridge fans every decoded frame out to all links except the one it
// arrived on. Frames a link cannot absorb are dropped and counted, a
// stalled ground station link must not hold back the others.
type bridge struct {
	logger    *zap.Logger
	monitor   *diag.RateMonitor
	collector *diag.LinkCollector
	dropped   atomic.Uint64

	mu    sync.RWMutex
	links map[string]mavconn.Channel

	closedc chan string
}

func newBridge(logger *zap.Logger) *bridge {
	return &bridge{
		logger:    logger,
		monitor:   diag.NewRateMonitor("heartbeat"),
		collector: diag.NewLinkCollector(),
		links:     make(map[string]mavconn.Channel),
		closedc:   make(chan string, 16),
	}
}

func (b *bridge) open(lc LinkConfig) error {
	name := lc.Name
	var opts []mavconn.Option
	if lc.TxQueueSize > 0 {
		opts = append(opts, mavconn.WithTxQueueSize(lc.TxQueueSize))
	}
	opts = append(opts,
		mavconn.WithMessageHandler(func(m *frame.Message) {
			b.forward(name, m)
		}),
		mavconn.WithClosedHandler(func() {
			select {
			case b.closedc <- name:
			default:
			}
		}))

	ch, err := mavconn.OpenURL(lc.URL, opts...)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.links[name] = ch
	b.mu.Unlock()
	b.collector.Register(name, ch)
	b.logger.Info("link up",
		zap.String("link", name),
		zap.String("local", ch.LocalAddr()),
		zap.String("remote", ch.RemoteAddr()))
	return nil
}

func (b *bridge) forward(from string, m *frame.Message) {
	if m.ID == 0 {
		b.monitor.Tick()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for name, ch := range b.links {
		if name == from {
			continue
		}
		if err := ch.SendBytes(m.Raw); err != nil {
			b.dropped.Add(1)
		}
	}
}

func (b *bridge) closeAll() {
	b.mu.RLock()
	channels := make([]mavconn.Channel, 0, len(b.links))
	for _, ch := range b.links {
		channels = append(channels, ch)
	}
	b.mu.RUnlock()
	for _, ch := range channels {
		ch.Close()
	}
}

func (b *bridge) logStatus() {
	b.mu.RLock()
	for name, ch := range b.links {
		s := ch.Stats()
		b.logger.Info("link status",
			zap.String("link", name),
			zap.Uint64("rx_msgs", s.MessagesReceived),
			zap.Uint64("tx_msgs", s.MessagesSent),
			zap.Uint64("rx_bytes", s.BytesReceived),
			zap.Uint64("tx_bytes", s.BytesSent),
			zap.Uint64("rx_bad_frames", s.RxBadFrames),
			zap.Int("tx_queue", s.TxQueueLen))
	}
	b.mu.RUnlock()

	hb := b.monitor.Sample()
	b.logger.Info("bridge status",
		zap.Float64("heartbeat_hz", hb.Freq),
		zap.String("heartbeat_health", hb.Health.String()),
		zap.Uint64("forward_dropped", b.dropped.Load()))
}

func runBridge(cfg *Config, logger *zap.Logger) error {
	mavconn.UseLogger(logger)

	b := newBridge(logger)
	prometheus.MustRegister(b.collector)
	defer prometheus.Unregister(b.collector)

	for _, lc := range cfg.Links {
		if err := b.open(lc); err != nil {
			b.closeAll()
			return err
		}
	}
	defer b.closeAll()

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: cfg.MetricsAddr, Handler: mux}
		go func() {
			logger.Info("metrics listening", zap.String("addr", cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", zap.Error(err))
			}
		}()
		defer srv.Shutdown(context.Background())
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(time.Duration(cfg.StatusEvery))
	defer ticker.Stop()

	logger.Info("bridge running", zap.Int("links", len(cfg.Links)))
	for {
		select {
		case <-ctx.Done():
			logger.Info("shutting down")
			return nil
		case name := <-b.closedc:
			logger.Warn("link closed, shutting down", zap.String("link", name))
			return nil
		case <-ticker.C:
			b.logStatus()
		}
	}
}
