package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/twitter/uploadq/common/clock"
)

func TestPrecisionChange(t *testing.T) {
	stat := DefaultStatsReceiver().(*defaultStatsReceiver)
	if stat.precision != time.Millisecond {
		t.Fatal("Default precision should be millis.")
	}

	statp := stat.Precision(time.Microsecond).(*defaultStatsReceiver)
	if stat.precision != time.Millisecond {
		t.Fatal("Default precision should still be millis.")
	}
	if statp.precision != time.Microsecond {
		t.Fatal("New stat precision should be micros.")
	}
}

func TestScopeChange(t *testing.T) {
	stat := DefaultStatsReceiver().(*defaultStatsReceiver)
	if len(stat.scope) != 0 {
		t.Fatal("Default scope should be empty.")
	}

	statp := stat.Scope("a/b", "c").(*defaultStatsReceiver)
	if len(stat.scope) != 0 {
		t.Fatal("Default scope should still empty.")
	}
	if len(statp.scope) != 2 || statp.scope[0] != "a_SLASH_b" || statp.scope[1] != "c" {
		t.Fatal("Invalid scope value: ", statp.scope)
	}
	if statp.scopedName("d") != "a_SLASH_b/c/d" {
		t.Fatal("Invalid scope name: " + statp.scopedName("d"))
	}
}

func TestMarshal(t *testing.T) {
	m := clock.NewManual(time.Unix(0, 0))
	Time = m
	defer func() { Time = clock.New() }()

	reg := NewFinagleStatsRegistry()
	reg.GetOrRegister("counter", newMetricCounter()).(Counter).Inc(1)
	reg.GetOrRegister("gauge", newMetricGauge()).(Gauge).Update(2)

	l := reg.GetOrRegister("latency", newLatency()).(Latency).Time()
	m.Advance(5 * time.Nanosecond)
	l.Stop()
	l.Time()
	m.Advance(10 * time.Nanosecond)
	l.Stop()

	bytes, err := reg.(MarshalerPretty).MarshalJSONPretty()
	assert.NoError(t, err)
	expected :=
		`{
  "counter": 1,
  "gauge": 2,
  "latency.avg": 7.5,
  "latency.count": 2,
  "latency.max": 10,
  "latency.min": 5,
  "latency.p50": 7.5,
  "latency.p90": 10,
  "latency.p95": 10,
  "latency.p99": 10,
  "latency.p999": 10,
  "latency.p9999": 10,
  "latency.sum": 15
}`
	assert.Equal(t, expected, string(bytes))
}

func TestStatsOk(t *testing.T) {
	reg := NewFinagleStatsRegistry()
	stat := NewCustomStatsReceiver(func() StatsRegistry { return reg })
	stat.Counter(UploadClientsAddedCounter).Inc(3)
	stat.GaugeFloat(UploadTopPriorityGauge).Update(4.3)

	ok := StatsOk("", reg, t, map[string]Rule{
		UploadClientsAddedCounter:   {Checker: Int64EqTest, Value: 3},
		UploadTopPriorityGauge:      {Checker: FloatEqTest, Value: 4.3},
		UploadClientsRemovedCounter: {Checker: DoesNotExistTest},
	})
	assert.True(t, ok)
}

func TestNilStatsReceiver(t *testing.T) {
	stat := NilStatsReceiver()
	stat.Scope("a").Counter("b").Inc(1)
	stat.Latency("c").Time().Stop()
	assert.Equal(t, int64(0), stat.Counter("b").Count())
	assert.Empty(t, stat.Render(true))
}
