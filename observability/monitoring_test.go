package observability

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_MonitoringManager_Counts(t *testing.T) {
	req := require.New(t)
	mm := NewMonitoringManager(slog.Default())

	mm.IncrMessagesStored()
	mm.IncrMessagesStored()
	mm.IncrScheduledPromoted()
	mm.AddPushes(3, 1)
	mm.RecordProcess(ProcessStats{PID: 42, Status: "S", RSSBytes: 64 << 20})

	stats := mm.GetLatest()
	req.Equal(uint64(2), stats.MessagesStored)
	req.Equal(uint64(1), stats.ScheduledPromoted)
	req.Equal(uint64(3), stats.PushesDelivered)
	req.Equal(uint64(1), stats.PushesFailed)
	req.Equal(uint64(64), stats.ProcessRSSMb)
	req.Equal("S", stats.AsMap()["process_status"])
}

func Test_Nil_MonitoringManager_Is_A_NoOp(t *testing.T) {
	var mm *MonitoringManager

	mm.IncrMessagesStored()
	mm.AddPushes(1, 0)
	mm.RecordProcess(ProcessStats{})
	require.Equal(t, MonitoringStats{}, mm.GetLatest())
}
