package diag

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flightlink/mavconn"
)

type fakeLink struct {
	local  string
	remote string
	stats  mavconn.Stats
}

func (f *fakeLink) LocalAddr() string    { return f.local }
func (f *fakeLink) RemoteAddr() string   { return f.remote }
func (f *fakeLink) Stats() mavconn.Stats { return f.stats }

func TestLinkCollector(t *testing.T) {
	c := NewLinkCollector()
	c.Register("fc", &fakeLink{
		local: "/dev/ttyACM0:57600",
		stats: mavconn.Stats{
			BytesSent:        17,
			BytesReceived:    34,
			MessagesSent:     1,
			MessagesReceived: 2,
			RxDroppedBytes:   3,
			RxBadFrames:      1,
			TxQueueLen:       4,
			TxQueueCap:       1000,
		},
	})

	expected := `
# HELP mavconn_link_rx_bad_frames_total Frames discarded for a checksum mismatch or unknown message id.
# TYPE mavconn_link_rx_bad_frames_total counter
mavconn_link_rx_bad_frames_total{link="fc"} 1
# HELP mavconn_link_rx_bytes_total Bytes read from the link medium.
# TYPE mavconn_link_rx_bytes_total counter
mavconn_link_rx_bytes_total{link="fc"} 34
# HELP mavconn_link_tx_bytes_total Bytes written to the link medium.
# TYPE mavconn_link_tx_bytes_total counter
mavconn_link_tx_bytes_total{link="fc"} 17
# HELP mavconn_link_tx_queue_depth Frames waiting in the outbound queue.
# TYPE mavconn_link_tx_queue_depth gauge
mavconn_link_tx_queue_depth{link="fc"} 4
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"mavconn_link_tx_bytes_total",
		"mavconn_link_rx_bytes_total",
		"mavconn_link_rx_bad_frames_total",
		"mavconn_link_tx_queue_depth"))

	problems, err := testutil.CollectAndLint(c)
	require.NoError(t, err)
	assert.Empty(t, problems)

	c.Unregister("fc")
	assert.Equal(t, 0, testutil.CollectAndCount(c))
}

func TestLinkCollectorReplace(t *testing.T) {
	c := NewLinkCollector()
	c.Register("gcs", &fakeLink{stats: mavconn.Stats{BytesSent: 1}})
	c.Register("gcs", &fakeLink{stats: mavconn.Stats{BytesSent: 2}})

	expected := `
# HELP mavconn_link_tx_bytes_total Bytes written to the link medium.
# TYPE mavconn_link_tx_bytes_total counter
mavconn_link_tx_bytes_total{link="gcs"} 2
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"mavconn_link_tx_bytes_total"))
}
