package domain

import (
	"sort"
	"time"
)

// Score computes a client's priority given k, the current size of the
// waiting set:
//
//	score = t^2 + k/s
//
// t is the client's wait in seconds and s the size of its first pending file.
// The quadratic wait term keeps old clients from starving; the k/s term favors
// small first files, more strongly as contention grows.
// A client without files scores as if its first file had size 1.
func Score(c *Client, k int, now time.Time) float64 {
	t := c.TimeWaiting(now).Seconds()
	s, ok := c.FirstFile()
	if !ok || s < 1 {
		s = 1
	}
	return t*t + float64(k)/float64(s)
}

// PriorityComparer orders clients by descending Score.
// Every comparison recomputes the score from live inputs; the score written
// back to Client.PriorityScore is never read here.
type PriorityComparer struct {
	ClientsWaiting int
}

// Compare returns a negative number when x should be served before y, positive
// when after, and zero when they tie. A nil client sorts last, two nils are equal.
func (pc *PriorityComparer) Compare(x, y *Client, now time.Time) int {
	switch {
	case x == nil && y == nil:
		return 0
	case x == nil:
		return 1
	case y == nil:
		return -1
	}
	return compareScores(pc.score(x, now), pc.score(y, now))
}

// Sort orders clients highest priority first. Scores are computed once per
// client against a single now, so the order is consistent for the whole sort.
// Ties keep their existing relative order.
func (pc *PriorityComparer) Sort(clients []*Client, now time.Time) {
	scores := make(map[*Client]float64, len(clients))
	for _, c := range clients {
		if c != nil {
			scores[c] = pc.score(c, now)
		}
	}
	sort.SliceStable(clients, func(i, j int) bool {
		x, y := clients[i], clients[j]
		if x == nil || y == nil {
			return y == nil && x != nil
		}
		return compareScores(scores[x], scores[y]) < 0
	})
}

func (pc *PriorityComparer) score(c *Client, now time.Time) float64 {
	s := Score(c, pc.ClientsWaiting, now)
	c.PriorityScore = s
	return s
}

func compareScores(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	}
	return 0
}
