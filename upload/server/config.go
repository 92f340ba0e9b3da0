package server

import (
	"fmt"
	"time"
)

const (
	// Number of transfer slots when none is configured.
	DefaultNumSlots = 5

	// How often a busy slot advances its transfer by one tick.
	DefaultTickInterval = 100 * time.Millisecond

	// Max number of clients to track transfer history for.
	DefaultHistorySize = 10000
)

// ServerConfiguration variables read at initialization
// NumSlots - size of the transfer slot pool, fixed for the server's lifetime.
// TickInterval - period of a slot's tick process.
// HistorySize - number of clients whose completed transfers are remembered.
// DebugMode - if true, slots do not start tick goroutines. Instead transfers
//
//	must be advanced manually by calling step()
type ServerConfiguration struct {
	NumSlots     int
	TickInterval time.Duration
	HistorySize  int
	DebugMode    bool
}

func (sc *ServerConfiguration) String() string {
	return fmt.Sprintf("ServerConfiguration: NumSlots: %d, TickInterval: %s, HistorySize: %d, DebugMode: %t",
		sc.NumSlots, sc.TickInterval, sc.HistorySize, sc.DebugMode)
}

// withDefaults fills zero values with defaults.
func (sc ServerConfiguration) withDefaults() ServerConfiguration {
	if sc.NumSlots <= 0 {
		sc.NumSlots = DefaultNumSlots
	}
	if sc.TickInterval <= 0 {
		sc.TickInterval = DefaultTickInterval
	}
	if sc.HistorySize <= 0 {
		sc.HistorySize = DefaultHistorySize
	}
	return sc
}
