// Package cli implements the uploadsim command line: it wires an upload
// server to a client generator and reports what happened.
package cli

import (
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/twitter/uploadq/common/clock"
	"github.com/twitter/uploadq/common/stats"
	"github.com/twitter/uploadq/upload/server"
)

// CLI interface that includes command handling
type CLI interface {
	Exec() error
}

// SchedulerFactory builds the Scheduler a run drives.
type SchedulerFactory func(config server.ServerConfiguration, clk clock.Clock, stat stats.StatsReceiver) (server.Scheduler, error)

// Implements CLI - basic
type simpleCLI struct {
	rootCmd *cobra.Command
	out     io.Writer

	logLevel     string
	newScheduler SchedulerFactory
	clk          clock.Clock
}

func (c *simpleCLI) Exec() error {
	return c.rootCmd.Execute()
}

// NewSimpleCLI returns the uploadsim command writing its reports to out.
func NewSimpleCLI(out io.Writer) CLI {
	return newSimpleCLI(out, func(config server.ServerConfiguration, clk clock.Clock, stat stats.StatsReceiver) (server.Scheduler, error) {
		return server.NewUploadServer(config, clk, stat)
	}, clock.New())
}

func newSimpleCLI(out io.Writer, newScheduler SchedulerFactory, clk clock.Clock) *simpleCLI {
	c := &simpleCLI{
		out:          out,
		newScheduler: newScheduler,
		clk:          clk,
	}

	c.rootCmd = &cobra.Command{
		Use:               "uploadsim",
		Short:             "uploadsim simulates clients competing for a fixed pool of upload slots",
		SilenceUsage:      true,
		PersistentPreRunE: c.setLogLevel,
	}
	c.rootCmd.PersistentFlags().StringVar(&c.logLevel, "log_level", "info", "Log everything at this level and above (error|info|debug)")

	c.addCmd(&runCmd{})
	c.addCmd(&configsCmd{})
	return c
}

// Needs cobra parameters for use from rootCmd
func (c *simpleCLI) setLogLevel(cmd *cobra.Command, args []string) error {
	level, err := log.ParseLevel(c.logLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}

func (c *simpleCLI) addCmd(cmd command) {
	cobraCmd := cmd.registerFlags()
	cobraCmd.RunE = func(innerCmd *cobra.Command, args []string) error {
		return cmd.run(c, innerCmd, args)
	}
	c.rootCmd.AddCommand(cobraCmd)
}

type command interface {
	registerFlags() *cobra.Command
	run(cl *simpleCLI, cmd *cobra.Command, args []string) error
}
