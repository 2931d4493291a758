package diag

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/flightlink/mavconn"
)

const (
	namespace = "mavconn"
	subsystem = "link"
)

// Link is the view of a channel the collector needs. A
// mavconn.Channel satisfies it.
type Link interface {
	LocalAddr() string
	RemoteAddr() string
	Stats() mavconn.Stats
}

// LinkCollector exports per-link I/O counters. Channels keep their own
// counters, so the collector reads them at scrape time instead of
// mirroring every event into counter vectors.
type LinkCollector struct {
	mu    sync.RWMutex
	links map[string]Link

	info      *prometheus.Desc
	txBytes   *prometheus.Desc
	rxBytes   *prometheus.Desc
	txMsgs    *prometheus.Desc
	rxMsgs    *prometheus.Desc
	rxDropped *prometheus.Desc
	rxBad     *prometheus.Desc
	queueLen  *prometheus.Desc
	queueCap  *prometheus.Desc
}

var _ prometheus.Collector = (*LinkCollector)(nil)

// NewLinkCollector create an empty collector, register links on it and
// the collector itself on a prometheus registry.
func NewLinkCollector() *LinkCollector {
	labels := []string{"link"}
	return &LinkCollector{
		links: make(map[string]Link),
		info: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "info"),
			"Link endpoint addresses.",
			[]string{"link", "local", "remote"}, nil),
		txBytes: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "tx_bytes_total"),
			"Bytes written to the link medium.", labels, nil),
		rxBytes: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "rx_bytes_total"),
			"Bytes read from the link medium.", labels, nil),
		txMsgs: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "tx_messages_total"),
			"Frames fully written to the link medium.", labels, nil),
		rxMsgs: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "rx_messages_total"),
			"Frames decoded from the link byte stream.", labels, nil),
		rxDropped: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "rx_dropped_bytes_total"),
			"Bytes discarded while hunting for a frame start.", labels, nil),
		rxBad: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "rx_bad_frames_total"),
			"Frames discarded for a checksum mismatch or unknown message id.",
			labels, nil),
		queueLen: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "tx_queue_depth"),
			"Frames waiting in the outbound queue.", labels, nil),
		queueCap: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, subsystem, "tx_queue_capacity"),
			"Capacity bound of the outbound queue.", labels, nil),
	}
}

// Register adds a link under a stable name, replacing any link
// previously registered under it.
func (c *LinkCollector) Register(name string, l Link) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links[name] = l
}

// Unregister removes the link registered under name.
func (c *LinkCollector) Unregister(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.links, name)
}

func (c *LinkCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.info
	ch <- c.txBytes
	ch <- c.rxBytes
	ch <- c.txMsgs
	ch <- c.rxMsgs
	ch <- c.rxDropped
	ch <- c.rxBad
	ch <- c.queueLen
	ch <- c.queueCap
}

func (c *LinkCollector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, l := range c.links {
		s := l.Stats()
		ch <- prometheus.MustNewConstMetric(c.info, prometheus.GaugeValue,
			1, name, l.LocalAddr(), l.RemoteAddr())
		ch <- prometheus.MustNewConstMetric(c.txBytes, prometheus.CounterValue,
			float64(s.BytesSent), name)
		ch <- prometheus.MustNewConstMetric(c.rxBytes, prometheus.CounterValue,
			float64(s.BytesReceived), name)
		ch <- prometheus.MustNewConstMetric(c.txMsgs, prometheus.CounterValue,
			float64(s.MessagesSent), name)
		ch <- prometheus.MustNewConstMetric(c.rxMsgs, prometheus.CounterValue,
			float64(s.MessagesReceived), name)
		ch <- prometheus.MustNewConstMetric(c.rxDropped, prometheus.CounterValue,
			float64(s.RxDroppedBytes), name)
		ch <- prometheus.MustNewConstMetric(c.rxBad, prometheus.CounterValue,
			float64(s.RxBadFrames), name)
		ch <- prometheus.MustNewConstMetric(c.queueLen, prometheus.GaugeValue,
			float64(s.TxQueueLen), name)
		ch <- prometheus.MustNewConstMetric(c.queueCap, prometheus.GaugeValue,
			float64(s.TxQueueCap), name)
	}
}
