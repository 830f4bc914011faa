package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(CommandsTotal.WithLabelValues("/queue/join", "ok"))
	CommandsTotal.WithLabelValues("/queue/join", "ok").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(CommandsTotal.WithLabelValues("/queue/join", "ok")))

	QueuePlayers.WithLabelValues("1").Set(4)
	assert.Equal(t, 4.0, testutil.ToFloat64(QueuePlayers.WithLabelValues("1")))
}
