package server

import (
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/twitter/uploadq/common/clock"
	"github.com/twitter/uploadq/common/stats"
	"github.com/twitter/uploadq/upload/domain"
)

// Client id reported by an idle slot.
const noClient int64 = -1

// Completion is emitted by a slot when the file it was serving finished.
type Completion struct {
	Slot     int
	ClientId int64
	FileSize int
}

// SlotSnapshot is an immutable copy of one slot's state.
// ClientId is noClient and Progress is 0 whenever Busy is false.
type SlotSnapshot struct {
	Index        int
	Busy         bool
	ClientId     int64
	FileSize     int
	TicksElapsed int
	Progress     float64
}

// slotListener receives slot events. It is always called without the slot's lock held.
type slotListener interface {
	onSlotProgressed(snap SlotSnapshot)
	onSlotCompleted(done Completion)
}

// TransferSlot uploads one file at a time, advancing by one tick per tickInterval.
type TransferSlot struct {
	index        int
	tickInterval time.Duration
	debugMode    bool
	clk          clock.Clock
	stat         stats.StatsReceiver

	mu           sync.Mutex
	busy         bool
	clientId     int64
	fileSize     int
	ticksElapsed int
	progress     float64
	disposed     bool
	listener     slotListener

	// Bumped on every assignment and reset. A tick carrying an older
	// generation belongs to a finished transfer and is dropped.
	gen    uint64
	stop   chan struct{}
	ticker clock.Ticker
}

func newTransferSlot(index int, config ServerConfiguration, clk clock.Clock, stat stats.StatsReceiver, listener slotListener) *TransferSlot {
	return &TransferSlot{
		index:        index,
		tickInterval: config.TickInterval,
		debugMode:    config.DebugMode,
		clk:          clk,
		stat:         stat,
		clientId:     noClient,
		listener:     listener,
	}
}

// Assign starts uploading c's first file on this slot.
// A busy slot or a client without files makes this a no-op and assigned is false.
// exhausted reports that c has no files left after this assignment; the caller
// is responsible for dropping it from its waiting set.
func (s *TransferSlot) Assign(c *domain.Client) (assigned, exhausted bool, err error) {
	if c == nil {
		return false, false, errors.Wrapf(ErrInvalidArgument, "nil client assigned to slot %d", s.index)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return false, false, errors.Wrapf(ErrDisposed, "slot %d cannot accept client %d", s.index, c.Id)
	}
	if s.busy || c.NumFiles() == 0 {
		return false, false, nil
	}

	c.Stamp(s.clk.Now())
	size, _ := c.PopFile()
	s.busy = true
	s.clientId = c.Id
	s.fileSize = size
	s.ticksElapsed = 0
	s.progress = 0
	s.gen++

	log.WithFields(
		log.Fields{
			"slot":      s.index,
			"client":    c.Id,
			"fileSize":  size,
			"remaining": c.NumFiles(),
		}).Debug("slot assigned")

	if !s.debugMode {
		s.stop = make(chan struct{})
		s.ticker = s.clk.NewTicker(s.tickInterval)
		go s.run(s.gen, s.stop, s.ticker)
	}
	return true, c.NumFiles() == 0, nil
}

// run drives one transfer until it completes, is reset, or the slot is disposed.
func (s *TransferSlot) run(gen uint64, stop <-chan struct{}, ticker clock.Ticker) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if !s.tick(gen) {
				return
			}
		}
	}
}

// tick advances the transfer of generation gen by one tick and emits the
// resulting event. Returns false once that transfer is no longer running.
func (s *TransferSlot) tick(gen uint64) bool {
	s.mu.Lock()
	if s.disposed || !s.busy || gen != s.gen {
		s.mu.Unlock()
		return false
	}
	s.ticksElapsed++
	s.progress = float64(s.ticksElapsed) / float64(s.fileSize)
	s.stat.Counter(stats.SlotTicksCounter).Inc(1)
	listener := s.listener

	if s.ticksElapsed >= s.fileSize {
		done := Completion{Slot: s.index, ClientId: s.clientId, FileSize: s.fileSize}
		s.resetLocked()
		s.mu.Unlock()

		log.WithFields(
			log.Fields{
				"slot":     done.Slot,
				"client":   done.ClientId,
				"fileSize": done.FileSize,
			}).Debug("slot completed transfer")
		if listener != nil {
			s.emit(gen, func() { listener.onSlotCompleted(done) })
		}
		return false
	}

	snap := s.snapshotLocked()
	s.mu.Unlock()
	if listener != nil {
		return s.emit(gen, func() { listener.onSlotProgressed(snap) })
	}
	return true
}

// emit calls fn, recovering from a panic by abandoning the transfer of
// generation gen. Returns false if fn panicked.
func (s *TransferSlot) emit(gen uint64, fn func()) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			s.stat.Counter(stats.SlotPanicCounter).Inc(1)
			log.WithFields(
				log.Fields{
					"slot":  s.index,
					"panic": r,
				}).Error("slot listener panicked, slot reverts to idle")
			s.mu.Lock()
			if s.gen == gen && s.busy {
				s.resetLocked()
			}
			s.mu.Unlock()
			ok = false
		}
	}()
	fn()
	return true
}

// resetLocked returns the slot to idle and stops the current transfer's tick process.
func (s *TransferSlot) resetLocked() {
	s.busy = false
	s.clientId = noClient
	s.fileSize = 0
	s.ticksElapsed = 0
	s.progress = 0
	s.gen++
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
}

// generation returns the id of the current transfer, used by step() to tick
// only transfers that were running before the step began.
func (s *TransferSlot) generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// Detach stops event delivery. Ticks still advance until Dispose.
func (s *TransferSlot) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = nil
}

// Dispose stops any transfer in flight and makes the slot permanently inert.
func (s *TransferSlot) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	if s.busy {
		log.WithFields(
			log.Fields{
				"slot":   s.index,
				"client": s.clientId,
				"ticks":  s.ticksElapsed,
			}).Info("disposing slot with transfer in flight")
	}
	s.resetLocked()
	s.disposed = true
	s.listener = nil
}

func (s *TransferSlot) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

func (s *TransferSlot) Snapshot() SlotSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *TransferSlot) snapshotLocked() SlotSnapshot {
	return SlotSnapshot{
		Index:        s.index,
		Busy:         s.busy,
		ClientId:     s.clientId,
		FileSize:     s.fileSize,
		TicksElapsed: s.ticksElapsed,
		Progress:     s.progress,
	}
}

func (s *TransferSlot) String() string {
	return spew.Sprintf("slot%d%+v", s.index, s.Snapshot())
}
