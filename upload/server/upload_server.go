package server

import (
	"os"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/twitter/uploadq/async"
	"github.com/twitter/uploadq/common/clock"
	"github.com/twitter/uploadq/common/log/hooks"
	"github.com/twitter/uploadq/common/stats"
	"github.com/twitter/uploadq/upload/domain"
)

// Used to get proper logging from tests...
func init() {
	if loglevel := os.Getenv("UPLOADQ_LOGLEVEL"); loglevel != "" {
		level, err := log.ParseLevel(loglevel)
		if err != nil {
			log.Error(err)
			return
		}
		log.SetLevel(level)
		log.AddHook(hooks.NewContextHook())
	} else {
		// keep test output short
		log.SetLevel(log.ErrorLevel)
	}
}

// ClientHistory accumulates the transfers completed for one client.
type ClientHistory struct {
	ClientId         int64
	FilesCompleted   int
	TicksTransferred int
	LastCompletion   time.Time
}

var _ Scheduler = (*UploadServer)(nil)

// UploadServer is the Scheduler implementation. It owns the waiting set and
// the slot pool and is the only thing that mutates either.
type UploadServer struct {
	config ServerConfiguration
	clk    clock.Clock
	stat   stats.StatsReceiver

	// Fixed at construction; each slot guards its own state.
	slots []*TransferSlot

	mu       sync.Mutex
	waiting  []*domain.Client
	comparer domain.PriorityComparer
	disposed bool
	history  *lru.Cache // client id -> ClientHistory

	waitingPub *async.Latest[[]domain.ClientSnapshot]
	slotsPub   *async.Latest[[]SlotSnapshot]
}

// NewUploadServer creates a server with an idle slot pool.
// A nil clk uses the wall clock, a nil stat discards metrics.
func NewUploadServer(config ServerConfiguration, clk clock.Clock, stat stats.StatsReceiver) (*UploadServer, error) {
	config = config.withDefaults()
	if clk == nil {
		clk = clock.New()
	}
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}

	history, err := lru.New(config.HistorySize)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create client history cache")
	}

	s := &UploadServer{
		config:     config,
		clk:        clk,
		stat:       stat,
		history:    history,
		waiting:    []*domain.Client{},
		waitingPub: async.NewLatest([]domain.ClientSnapshot{}),
	}
	s.slots = make([]*TransferSlot, config.NumSlots)
	for i := range s.slots {
		s.slots[i] = newTransferSlot(i, config, clk, stat, s)
	}
	s.slotsPub = async.NewLatest(s.slotSnapshots())

	log.WithFields(
		log.Fields{
			"config": config.String(),
		}).Info("created upload server")
	return s, nil
}

// AddClient stamps c's arrival, queues it and dispatches idle slots.
// c is owned by the server from here on and must not be mutated by the caller.
func (s *UploadServer) AddClient(c *domain.Client) error {
	if c == nil {
		s.stat.Counter(stats.UploadAddClientRejectedCounter).Inc(1)
		return errors.Wrap(ErrInvalidArgument, "nil client")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		s.stat.Counter(stats.UploadAddClientRejectedCounter).Inc(1)
		log.WithFields(
			log.Fields{
				"client": c.Id,
			}).Warn("rejected client, server is disposed")
		return errors.Wrapf(ErrDisposed, "cannot add client %d", c.Id)
	}
	if err := c.Validate(); err != nil {
		s.stat.Counter(stats.UploadAddClientRejectedCounter).Inc(1)
		return errors.Wrap(ErrInvalidArgument, err.Error())
	}
	if s.indexLocked(c.Id) >= 0 || s.servedLocked()[c.Id] {
		s.stat.Counter(stats.UploadAddClientRejectedCounter).Inc(1)
		return errors.Wrapf(ErrInvalidArgument, "client %d is already known", c.Id)
	}

	now := s.clk.Now()
	c.ArrivalTime = now
	s.waiting = append(s.waiting, c)
	s.stat.Counter(stats.UploadClientsAddedCounter).Inc(1)
	log.WithFields(
		log.Fields{
			"client":  c.Id,
			"files":   c.Files,
			"waiting": len(s.waiting),
		}).Info("added client")

	s.sortLocked(now)
	s.dispatchLocked(now)
	s.publishWaitingLocked(now)
	s.publishSlotsLocked()
	return nil
}

// RemoveClient drops the waiting client with c's id. A transfer already in
// flight for it runs to completion. Removing an unknown client is a no-op.
func (s *UploadServer) RemoveClient(c *domain.Client) error {
	if c == nil {
		return errors.Wrap(ErrInvalidArgument, "nil client")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return errors.Wrapf(ErrDisposed, "cannot remove client %d", c.Id)
	}
	if !s.removeLocked(c.Id) {
		return nil
	}
	log.WithFields(
		log.Fields{
			"client":  c.Id,
			"waiting": len(s.waiting),
		}).Info("removed client")

	now := s.clk.Now()
	s.sortLocked(now)
	if s.dispatchLocked(now) > 0 {
		s.publishSlotsLocked()
	}
	s.publishWaitingLocked(now)
	return nil
}

// dispatchLocked fills idle slots, in pool order, with the highest priority
// waiting client that no slot is serving yet. Returns the number of assignments.
func (s *UploadServer) dispatchLocked(now time.Time) int {
	defer s.stat.Latency(stats.UploadDispatchLatency_ms).Time().Stop()

	assigned := 0
	for _, slot := range s.slots {
		if slot.Busy() {
			continue
		}
		c := s.nextEligibleLocked()
		if c == nil {
			break
		}

		waited := c.TimeWaiting(now)
		ok, exhausted, err := slot.Assign(c)
		if err != nil {
			log.WithFields(
				log.Fields{
					"slot":   slot.index,
					"client": c.Id,
					"err":    err,
				}).Error("failed to assign client")
			continue
		}
		if !ok {
			continue
		}

		assigned++
		s.stat.Counter(stats.UploadFilesDispatchedCounter).Inc(1)
		s.stat.Histogram(stats.UploadDispatchWaitTime_ms).Update(int64(waited / time.Millisecond))
		if exhausted {
			s.removeLocked(c.Id)
			s.sortLocked(now)
		}
	}
	s.updateGaugesLocked()
	return assigned
}

// nextEligibleLocked returns the first waiting client with files that is not
// being served by a busy slot, or nil.
func (s *UploadServer) nextEligibleLocked() *domain.Client {
	served := s.servedLocked()
	for _, c := range s.waiting {
		if c.NumFiles() > 0 && !served[c.Id] {
			return c
		}
	}
	return nil
}

// servedLocked returns the ids of clients with a transfer in flight.
func (s *UploadServer) servedLocked() map[int64]bool {
	served := map[int64]bool{}
	for _, slot := range s.slots {
		if snap := slot.Snapshot(); snap.Busy {
			served[snap.ClientId] = true
		}
	}
	return served
}

func (s *UploadServer) indexLocked(id int64) int {
	for i, c := range s.waiting {
		if c.Id == id {
			return i
		}
	}
	return -1
}

func (s *UploadServer) removeLocked(id int64) bool {
	i := s.indexLocked(id)
	if i < 0 {
		return false
	}
	s.waiting = append(s.waiting[:i], s.waiting[i+1:]...)
	s.stat.Counter(stats.UploadClientsRemovedCounter).Inc(1)
	return true
}

func (s *UploadServer) sortLocked(now time.Time) {
	s.comparer.ClientsWaiting = len(s.waiting)
	s.comparer.Sort(s.waiting, now)
}

func (s *UploadServer) updateGaugesLocked() {
	busy := 0
	for _, slot := range s.slots {
		if slot.Busy() {
			busy++
		}
	}
	top := 0.0
	if len(s.waiting) > 0 {
		top = s.waiting[0].PriorityScore
	}
	s.stat.Gauge(stats.UploadWaitingClientsGauge).Update(int64(len(s.waiting)))
	s.stat.Gauge(stats.UploadBusySlotsGauge).Update(int64(busy))
	s.stat.GaugeFloat(stats.UploadTopPriorityGauge).Update(top)
}

func (s *UploadServer) publishWaitingLocked(now time.Time) {
	snaps := make([]domain.ClientSnapshot, len(s.waiting))
	for i, c := range s.waiting {
		snaps[i] = c.Snapshot(now)
	}
	s.waitingPub.Publish(snaps)
}

func (s *UploadServer) publishSlotsLocked() {
	s.slotsPub.Publish(s.slotSnapshots())
}

func (s *UploadServer) slotSnapshots() []SlotSnapshot {
	snaps := make([]SlotSnapshot, len(s.slots))
	for i, slot := range s.slots {
		snaps[i] = slot.Snapshot()
	}
	return snaps
}

// onSlotCompleted records the finished file and hands the freed slot to the next client.
func (s *UploadServer) onSlotCompleted(done Completion) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}

	now := s.clk.Now()
	s.stat.Counter(stats.UploadTransfersCompletedCounter).Inc(1)
	s.recordLocked(done, now)
	log.WithFields(
		log.Fields{
			"slot":     done.Slot,
			"client":   done.ClientId,
			"fileSize": done.FileSize,
			"waiting":  len(s.waiting),
		}).Info("file transfer completed")

	s.sortLocked(now)
	s.dispatchLocked(now)
	s.publishWaitingLocked(now)
	s.publishSlotsLocked()
}

func (s *UploadServer) onSlotProgressed(snap SlotSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return
	}
	log.WithFields(
		log.Fields{
			"slot":     snap.Index,
			"client":   snap.ClientId,
			"progress": snap.Progress,
		}).Debug("slot progressed")
	s.publishSlotsLocked()
}

func (s *UploadServer) recordLocked(done Completion, now time.Time) {
	h := ClientHistory{ClientId: done.ClientId}
	if iface, ok := s.history.Get(done.ClientId); ok {
		h = iface.(ClientHistory)
	}
	h.FilesCompleted++
	h.TicksTransferred += done.FileSize
	h.LastCompletion = now
	s.history.Add(done.ClientId, h)
}

// History returns the transfers completed so far for clientId.
// Only the most recently completing clients are remembered.
func (s *UploadServer) History(clientId int64) (ClientHistory, bool) {
	iface, ok := s.history.Get(clientId)
	if !ok {
		return ClientHistory{}, false
	}
	return iface.(ClientHistory), true
}

// Idle is true when no client is waiting and no slot is busy.
func (s *UploadServer) Idle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.waiting) > 0 {
		return false
	}
	for _, slot := range s.slots {
		if slot.Busy() {
			return false
		}
	}
	return true
}

// WaitingClients subscribes to waiting set snapshots, highest priority first.
func (s *UploadServer) WaitingClients() (<-chan []domain.ClientSnapshot, func()) {
	return s.waitingPub.Subscribe()
}

// Slots subscribes to slot pool snapshots, in pool order.
func (s *UploadServer) Slots() (<-chan []SlotSnapshot, func()) {
	return s.slotsPub.Subscribe()
}

// Dispose stops every slot and closes both subscriptions after a final slot
// snapshot. Later AddClient and RemoveClient calls fail with ErrDisposed.
func (s *UploadServer) Dispose() {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	waiting := len(s.waiting)
	s.mu.Unlock()

	for _, slot := range s.slots {
		slot.Detach()
		slot.Dispose()
	}
	s.slotsPub.Publish(s.slotSnapshots())
	s.waitingPub.Close()
	s.slotsPub.Close()

	log.WithFields(
		log.Fields{
			"waiting": waiting,
		}).Info("disposed upload server")
}

// step advances every transfer that is in flight when step is called by one
// tick. Only used with DebugMode, where slots have no tick goroutines.
func (s *UploadServer) step() {
	gens := make([]uint64, len(s.slots))
	for i, slot := range s.slots {
		gens[i] = slot.generation()
	}
	for i, slot := range s.slots {
		slot.tick(gens[i])
	}
}
