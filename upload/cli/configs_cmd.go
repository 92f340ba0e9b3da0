package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/twitter/uploadq/upload/config"
)

type configsCmd struct {
	verbose bool
}

func (c *configsCmd) registerFlags() *cobra.Command {
	r := &cobra.Command{
		Use:   "configs",
		Short: "List the named configurations accepted by run --config",
	}
	r.Flags().BoolVar(&c.verbose, "verbose", false, "Also print each configuration after defaults are applied")
	return r
}

func (c *configsCmd) run(cl *simpleCLI, cmd *cobra.Command, args []string) error {
	for _, name := range config.ConfigNames() {
		if !c.verbose {
			fmt.Fprintln(cl.out, name)
			continue
		}
		parsed, err := config.GetConfig(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cl.out, "%s:%s\n", name, parsed)
	}
	return nil
}
