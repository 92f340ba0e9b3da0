package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twitter/uploadq/common/clock"
	"github.com/twitter/uploadq/common/stats"
	"github.com/twitter/uploadq/upload/domain"
	"github.com/twitter/uploadq/upload/server"
)

const fastConfig = `{
	"Server": {"Type": "pool", "NumSlots": 2, "TickInterval": "1ms"},
	"Generator": {"Type": "random", "MinInterval": "1ms", "MaxInterval": "2ms",
		"MinFiles": 1, "MaxFiles": 2, "MinFileSize": 1, "MaxFileSize": 3, "Seed": 5},
	"Stats": {"Type": "finagle"}
}`

// expectSubscriptions makes s hand out subscriptions that close on Dispose.
func expectSubscriptions(s *server.MockScheduler) {
	waiting := make(chan []domain.ClientSnapshot, 1)
	slots := make(chan []server.SlotSnapshot, 1)
	waiting <- []domain.ClientSnapshot{}
	slots <- []server.SlotSnapshot{{Index: 0, ClientId: -1}}

	s.EXPECT().WaitingClients().Return((<-chan []domain.ClientSnapshot)(waiting), func() {})
	s.EXPECT().Slots().Return((<-chan []server.SlotSnapshot)(slots), func() {})
	s.EXPECT().Dispose().Do(func() {
		close(waiting)
		close(slots)
	})
}

func mockCLI(t *testing.T, s server.Scheduler, out *bytes.Buffer) *simpleCLI {
	return newSimpleCLI(out, func(config server.ServerConfiguration, clk clock.Clock, stat stats.StatsReceiver) (server.Scheduler, error) {
		assert.Equal(t, 2, config.NumSlots)
		assert.Equal(t, time.Millisecond, config.TickInterval)
		return s, nil
	}, clock.New())
}

func TestRunDrivesScheduler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := server.NewMockScheduler(ctrl)
	expectSubscriptions(s)
	s.EXPECT().AddClient(gomock.Any()).Return(nil).MinTimes(1)
	gomock.InOrder(
		s.EXPECT().Idle().Return(false),
		s.EXPECT().Idle().Return(true),
	)

	out := &bytes.Buffer{}
	c := mockCLI(t, s, out)
	c.rootCmd.SetArgs([]string{"run", "--config", fastConfig, "--duration", "100ms", "--drain_timeout", "5s", "--log_level", "error"})
	require.NoError(t, c.Exec())

	assert.Contains(t, out.String(), stats.GeneratorClientsCounter)
}

func TestRunStopsWhenSchedulerIsDisposed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := server.NewMockScheduler(ctrl)
	expectSubscriptions(s)
	s.EXPECT().AddClient(gomock.Any()).Return(errors.Wrap(server.ErrDisposed, "gone")).Times(1)
	s.EXPECT().Idle().Return(true)

	out := &bytes.Buffer{}
	c := mockCLI(t, s, out)
	c.rootCmd.SetArgs([]string{"run", "--config", fastConfig, "--duration", "50ms", "--log_level", "error"})
	require.NoError(t, c.Exec())
	assert.Contains(t, out.String(), stats.GeneratorSinkErrCounter)
}

func TestRunOverridesSlots(t *testing.T) {
	var got int
	out := &bytes.Buffer{}
	c := newSimpleCLI(out, func(config server.ServerConfiguration, clk clock.Clock, stat stats.StatsReceiver) (server.Scheduler, error) {
		got = config.NumSlots
		return nil, errors.New("no scheduler today")
	}, clock.New())
	c.rootCmd.SetArgs([]string{"run", "--config", "local.slow", "--slots", "7", "--log_level", "error"})

	assert.Error(t, c.Exec())
	assert.Equal(t, 7, got)
}

func TestRunRejectsBadConfig(t *testing.T) {
	out := &bytes.Buffer{}
	c := newSimpleCLI(out, func(server.ServerConfiguration, clock.Clock, stats.StatsReceiver) (server.Scheduler, error) {
		t.Fatal("scheduler must not be built")
		return nil, nil
	}, clock.New())

	c.rootCmd.SetArgs([]string{"run", "--config", "no.such.config", "--log_level", "error"})
	assert.Error(t, c.Exec())

	c.rootCmd.SetArgs([]string{"run", "--config", `{"Server": {"Type": "pool", "TickInterval": "never"}}`, "--log_level", "error"})
	assert.Error(t, c.Exec())
}

func TestBadLogLevel(t *testing.T) {
	c := NewSimpleCLI(&bytes.Buffer{}).(*simpleCLI)
	c.rootCmd.SetArgs([]string{"configs", "--log_level", "loud"})
	assert.Error(t, c.Exec())
}

func TestConfigsCommand(t *testing.T) {
	out := &bytes.Buffer{}
	c := NewSimpleCLI(out).(*simpleCLI)
	c.rootCmd.SetArgs([]string{"configs", "--log_level", "error"})
	require.NoError(t, c.Exec())
	assert.Equal(t, "default\nlocal.fast\nlocal.slow\n", out.String())

	out.Reset()
	c.rootCmd.SetArgs([]string{"configs", "--verbose", "--log_level", "error"})
	require.NoError(t, c.Exec())
	assert.Contains(t, out.String(), "local.slow:")
	assert.Contains(t, out.String(), "NumSlots: 2")
}

func TestRunAgainstUploadServer(t *testing.T) {
	out := &bytes.Buffer{}
	c := NewSimpleCLI(out).(*simpleCLI)
	c.rootCmd.SetArgs([]string{"run", "--config", fastConfig, "--duration", "100ms", "--drain_timeout", "10s", "--log_level", "error"})
	require.NoError(t, c.Exec())

	assert.Contains(t, out.String(), stats.UploadClientsAddedCounter)
	assert.Contains(t, out.String(), stats.UploadTransfersCompletedCounter)
}

func TestDrain(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s := server.NewMockScheduler(ctrl)
	gomock.InOrder(
		s.EXPECT().Idle().Return(false).Times(2),
		s.EXPECT().Idle().Return(true),
	)
	assert.NoError(t, drain(s, 5*time.Second))

	busy := server.NewMockScheduler(ctrl)
	busy.EXPECT().Idle().Return(false).MinTimes(1)
	assert.Equal(t, errNotIdle, drain(busy, 30*time.Millisecond))
	assert.Equal(t, errNotIdle, drain(busy, 0))
}
