package cli

import (
	"sync"

	"github.com/luci/go-render/render"
	log "github.com/sirupsen/logrus"

	"github.com/twitter/uploadq/upload/domain"
	"github.com/twitter/uploadq/upload/server"
)

// snapshotLogger logs the snapshots a Scheduler publishes until it is disposed.
type snapshotLogger struct {
	wg sync.WaitGroup

	mu          sync.Mutex
	lastWaiting []domain.ClientSnapshot
	lastSlots   []server.SlotSnapshot
	updates     int
}

func watchScheduler(s server.Scheduler) *snapshotLogger {
	l := &snapshotLogger{}
	waiting, _ := s.WaitingClients()
	slots, _ := s.Slots()

	l.wg.Add(2)
	go func() {
		defer l.wg.Done()
		for snap := range waiting {
			l.onWaiting(snap)
		}
	}()
	go func() {
		defer l.wg.Done()
		for snap := range slots {
			l.onSlots(snap)
		}
	}()
	return l
}

func (l *snapshotLogger) onWaiting(snap []domain.ClientSnapshot) {
	l.mu.Lock()
	l.lastWaiting = snap
	l.updates++
	l.mu.Unlock()

	fields := log.Fields{"waiting": len(snap)}
	if len(snap) > 0 {
		fields["head"] = snap[0].Id
		fields["headScore"] = snap[0].PriorityScore
	}
	log.WithFields(fields).Info("waiting set changed")
	if log.GetLevel() >= log.DebugLevel {
		log.Debugf("waiting set: %s", render.Render(snap))
	}
}

func (l *snapshotLogger) onSlots(snap []server.SlotSnapshot) {
	l.mu.Lock()
	l.lastSlots = snap
	l.updates++
	l.mu.Unlock()

	if log.GetLevel() >= log.DebugLevel {
		log.Debugf("slots: %s", render.Render(snap))
	}
}

// wait blocks until both subscriptions were closed by Dispose.
func (l *snapshotLogger) wait() {
	l.wg.Wait()
}

// last returns the final snapshots seen and the number of updates received.
func (l *snapshotLogger) last() ([]domain.ClientSnapshot, []server.SlotSnapshot, int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastWaiting, l.lastSlots, l.updates
}
