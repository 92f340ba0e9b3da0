package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var epoch = time.Unix(1000, 0)

func waitingClient(id int64, waited time.Duration, files ...int) *Client {
	return &Client{Id: id, ArrivalTime: epoch.Add(-waited), Files: files}
}

func TestScoreFormula(t *testing.T) {
	c := waitingClient(1, 2*time.Second, 10, 20)
	assert.Equal(t, 4.3, Score(c, 3, epoch))
}

func TestScoreUsesFloatDivision(t *testing.T) {
	c := waitingClient(1, 0, 4)
	assert.Equal(t, 0.75, Score(c, 3, epoch))
}

func TestScoreWithoutArrivalTime(t *testing.T) {
	c := &Client{Id: 1, Files: []int{2}}
	assert.Equal(t, 2.0, Score(c, 4, epoch))
}

func TestCompareCachesScoreButNeverReadsIt(t *testing.T) {
	pc := &PriorityComparer{ClientsWaiting: 2}
	older := waitingClient(1, 3*time.Second, 50)
	newer := waitingClient(2, time.Second, 50)

	// A stale cached score must not affect ordering.
	newer.PriorityScore = 1e9
	assert.True(t, pc.Compare(older, newer, epoch) < 0)
	assert.True(t, pc.Compare(newer, older, epoch) > 0)
	assert.InDelta(t, 9.04, older.PriorityScore, 1e-9)
	assert.InDelta(t, 1.04, newer.PriorityScore, 1e-9)
}

func TestCompareNilSortsLast(t *testing.T) {
	pc := &PriorityComparer{ClientsWaiting: 1}
	c := waitingClient(1, 0, 1)
	assert.Equal(t, 0, pc.Compare(nil, nil, epoch))
	assert.Equal(t, 1, pc.Compare(nil, c, epoch))
	assert.Equal(t, -1, pc.Compare(c, nil, epoch))
}

func TestSortOrdersByDescendingScore(t *testing.T) {
	a := waitingClient(1, 0, 10)             // 0 + 3/10
	b := waitingClient(2, 0, 1)              // 0 + 3/1
	c := waitingClient(3, 2*time.Second, 50) // 4 + 3/50
	clients := []*Client{a, nil, b, c}

	pc := &PriorityComparer{ClientsWaiting: 3}
	pc.Sort(clients, epoch)

	assert.Equal(t, []*Client{c, b, a, nil}, clients)
}

func TestSortIsStableForTies(t *testing.T) {
	a := waitingClient(1, time.Second, 5)
	b := waitingClient(2, time.Second, 5)
	clients := []*Client{a, b}

	pc := &PriorityComparer{ClientsWaiting: 2}
	pc.Sort(clients, epoch)
	assert.Equal(t, []*Client{a, b}, clients)
}

func TestSmallFileBiasGrowsWithContention(t *testing.T) {
	small := waitingClient(1, 0, 1)
	large := waitingClient(2, 0, 100)

	low := Score(small, 1, epoch) - Score(large, 1, epoch)
	high := Score(small, 10, epoch) - Score(large, 10, epoch)
	assert.True(t, high > low)
}

// A client with a tiny first file is eventually overtaken by an older client
// once the older one has waited past sqrt(1 - 1/s).
func TestStarvationAvoidance(t *testing.T) {
	const k = 1
	const sD = 40
	threshold := math.Sqrt(1 - 1.0/sD)

	pc := &PriorityComparer{ClientsWaiting: k}
	now := epoch

	before := time.Duration(0.9 * threshold * float64(time.Second))
	d := waitingClient(1, before, sD)
	c := waitingClient(2, 0, 1)
	assert.True(t, pc.Compare(c, d, now) < 0, "small file should lead while D is young")

	after := time.Duration(1.1 * threshold * float64(time.Second))
	d.ArrivalTime = now.Add(-after)
	assert.True(t, pc.Compare(d, c, now) < 0, "old client should overtake once its wait passes the threshold")
}
