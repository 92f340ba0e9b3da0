// Package generator produces a synthetic stream of upload clients.
package generator

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"time"

	uuid "github.com/nu7hatch/gouuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/twitter/uploadq/common/clock"
	"github.com/twitter/uploadq/common/stats"
	"github.com/twitter/uploadq/upload/domain"
	"github.com/twitter/uploadq/upload/server"
)

// Config bounds are inclusive.
// MaxArrivalsPerSec caps the arrival rate on top of the random interval, 0 disables the cap.
// Seed 0 seeds from the wall clock.
type Config struct {
	MinInterval       time.Duration
	MaxInterval       time.Duration
	MinFiles          int
	MaxFiles          int
	MinFileSize       int
	MaxFileSize       int
	MaxArrivalsPerSec float64
	Seed              int64
}

func DefaultConfig() Config {
	return Config{
		MinInterval: 200 * time.Millisecond,
		MaxInterval: 2000 * time.Millisecond,
		MinFiles:    3,
		MaxFiles:    9,
		MinFileSize: 1,
		MaxFileSize: 99,
	}
}

func (c Config) validate() error {
	switch {
	case c.MinInterval <= 0 || c.MaxInterval < c.MinInterval:
		return errors.Errorf("bad arrival interval [%s, %s]", c.MinInterval, c.MaxInterval)
	case c.MinFiles < 1 || c.MaxFiles < c.MinFiles:
		return errors.Errorf("bad file count [%d, %d]", c.MinFiles, c.MaxFiles)
	case c.MinFileSize < 1 || c.MaxFileSize < c.MinFileSize:
		return errors.Errorf("bad file size [%d, %d]", c.MinFileSize, c.MaxFileSize)
	case c.MaxArrivalsPerSec < 0:
		return errors.Errorf("negative arrival rate %f", c.MaxArrivalsPerSec)
	}
	return nil
}

// Generator hands a new random client to its sink after every random interval.
// Client ids are sequential starting at 1 and keep counting across restarts.
type Generator struct {
	config  Config
	sink    ClientSink
	clk     clock.Clock
	stat    stats.StatsReceiver
	limiter *rate.Limiter

	mu     sync.Mutex
	rng    *rand.Rand
	nextId int64
	cancel context.CancelFunc
	done   chan struct{}
}

func NewGenerator(config Config, sink ClientSink, clk clock.Clock, stat stats.StatsReceiver) (*Generator, error) {
	if sink == nil {
		return nil, errors.New("generator needs a client sink")
	}
	if err := config.validate(); err != nil {
		return nil, errors.Wrap(err, "invalid generator config")
	}
	if clk == nil {
		clk = clock.New()
	}
	if stat == nil {
		stat = stats.NilStatsReceiver()
	}
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Generator{
		config: config,
		sink:   sink,
		clk:    clk,
		stat:   stat,
		rng:    rand.New(rand.NewSource(seed)),
		nextId: 1,
	}
	if config.MaxArrivalsPerSec > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(config.MaxArrivalsPerSec), 1)
	}
	return g, nil
}

// Start launches the arrival loop. Starting a running generator is a no-op.
// The loop ends when ctx is done, Stop is called, or the sink is disposed.
func (g *Generator) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancel != nil {
		return nil
	}

	runId, err := uuid.NewV4()
	if err != nil {
		return errors.Wrap(err, "failed to create generator run id")
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	g.cancel = cancel
	g.done = done

	log.WithFields(
		log.Fields{
			"run":    runId.String(),
			"config": g.config,
		}).Info("starting client generator")
	go g.loop(ctx, runId.String(), done)
	return nil
}

// Stop ends the arrival loop and waits for it to exit. Transfers already
// handed to the sink are unaffected.
func (g *Generator) Stop() {
	g.mu.Lock()
	cancel, done := g.cancel, g.done
	g.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running is true between Start and the end of the arrival loop.
func (g *Generator) Running() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancel != nil
}

func (g *Generator) loop(ctx context.Context, runId string, done chan struct{}) {
	defer func() {
		g.mu.Lock()
		g.cancel()
		g.cancel = nil
		g.done = nil
		g.mu.Unlock()
		close(done)
	}()

	for {
		if !g.sleep(ctx, g.nextInterval()) {
			return
		}
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return
			}
		}

		// The sink owns c once AddClient returns, so log from copies.
		c := g.Next()
		id, files := c.Id, append([]int(nil), c.Files...)
		g.stat.Counter(stats.GeneratorClientsCounter).Inc(1)
		err := g.sink.AddClient(c)
		if err == nil {
			log.WithFields(
				log.Fields{
					"run":    runId,
					"client": id,
					"files":  files,
				}).Debug("generated client")
			continue
		}

		g.stat.Counter(stats.GeneratorSinkErrCounter).Inc(1)
		log.WithFields(
			log.Fields{
				"run":    runId,
				"client": id,
				"err":    err,
			}).Warn("sink refused generated client")
		if errors.Cause(err) == server.ErrDisposed {
			return
		}
	}
}

// sleep waits for d on the generator's clock. Returns false if ctx ended first.
func (g *Generator) sleep(ctx context.Context, d time.Duration) bool {
	ticker := g.clk.NewTicker(d)
	defer ticker.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-ticker.C():
		return ctx.Err() == nil
	}
}

func (g *Generator) nextInterval() time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()
	span := int64(g.config.MaxInterval - g.config.MinInterval)
	return g.config.MinInterval + time.Duration(g.rng.Int63n(span+1))
}

// Next builds the next client: a fresh sequential id and a random number of
// random file sizes, sorted ascending.
func (g *Generator) Next() *domain.Client {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.config.MinFiles + g.rng.Intn(g.config.MaxFiles-g.config.MinFiles+1)
	files := make([]int, n)
	for i := range files {
		files[i] = g.config.MinFileSize + g.rng.Intn(g.config.MaxFileSize-g.config.MinFileSize+1)
	}
	sort.Ints(files)

	c := &domain.Client{Id: g.nextId, Files: files}
	g.nextId++
	return c
}
