package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twitter/uploadq/upload/config"
	"github.com/twitter/uploadq/upload/generator"
	"github.com/twitter/uploadq/upload/server"
)

const defaultDrainTimeout = 30 * time.Second

var errNotIdle = errors.New("scheduler still busy")

type runCmd struct {
	configSelector string
	duration       time.Duration
	slots          int
	drainTimeout   time.Duration
	statsPretty    bool
}

func (c *runCmd) registerFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "run",
		Short: "Generate clients and upload their files until the duration elapses or SIGINT",
	}
	r.Flags().StringVar(&c.configSelector, "config", "default", "Configuration name (see configs) or literal JSON")
	r.Flags().DurationVar(&c.duration, "duration", 0, "How long to generate clients, 0 runs until interrupted")
	r.Flags().IntVar(&c.slots, "slots", 0, "Override the number of transfer slots")
	r.Flags().DurationVar(&c.drainTimeout, "drain_timeout", defaultDrainTimeout, "How long to let queued uploads finish after generation stops")
	r.Flags().BoolVar(&c.statsPretty, "stats_pretty", true, "Pretty print the final stats")
	return r
}

func (c *runCmd) run(cl *simpleCLI, cmd *cobra.Command, args []string) error {
	parsed, err := loadConfig(c.configSelector)
	if err != nil {
		return err
	}
	log.Infof("uploadsim config:%s", parsed)

	serverConfig, err := parsed.Server.CreateServerConfig()
	if err != nil {
		return err
	}
	if c.slots > 0 {
		serverConfig.NumSlots = c.slots
	}
	genConfig, err := parsed.Generator.CreateGeneratorConfig()
	if err != nil {
		return err
	}
	stat, _, err := parsed.Stats.CreateStatsReceiver()
	if err != nil {
		return err
	}

	sched, err := cl.newScheduler(serverConfig, cl.clk, stat)
	if err != nil {
		return errors.Wrap(err, "failed to create scheduler")
	}
	watcher := watchScheduler(sched)

	gen, err := generator.NewGenerator(genConfig, sched, cl.clk, stat)
	if err != nil {
		sched.Dispose()
		watcher.wait()
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if c.duration > 0 {
		var cancelTimeout context.CancelFunc
		ctx, cancelTimeout = context.WithTimeout(ctx, c.duration)
		defer cancelTimeout()
	}

	if err := gen.Start(ctx); err != nil {
		sched.Dispose()
		watcher.wait()
		return err
	}
	<-ctx.Done()
	gen.Stop()
	log.Info("generation stopped, draining")

	if err := drain(sched, c.drainTimeout); err != nil {
		log.WithFields(
			log.Fields{
				"timeout": c.drainTimeout,
			}).Warn("scheduler did not drain, disposing with uploads in flight")
	}
	sched.Dispose()
	watcher.wait()

	waiting, _, updates := watcher.last()
	log.WithFields(
		log.Fields{
			"updates":          updates,
			"waitingOnDispose": len(waiting),
		}).Info("run finished")
	fmt.Fprintf(cl.out, "%s\n", stat.Render(c.statsPretty))
	return nil
}

// loadConfig treats a selector starting with '{' as literal JSON.
func loadConfig(selector string) (*config.JSONConfigs, error) {
	if strings.HasPrefix(strings.TrimSpace(selector), "{") {
		return config.ParseConfig([]byte(selector))
	}
	return config.GetConfig(selector)
}

// drain polls s with exponential backoff until it is idle or timeout elapses.
func drain(s server.Scheduler, timeout time.Duration) error {
	if timeout <= 0 {
		if s.Idle() {
			return nil
		}
		return errNotIdle
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 10 * time.Millisecond
	b.MaxInterval = time.Second
	b.MaxElapsedTime = timeout
	return backoff.Retry(func() error {
		if s.Idle() {
			return nil
		}
		return errNotIdle
	}, b)
}
