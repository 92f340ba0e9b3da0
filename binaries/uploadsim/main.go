package main

import (
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/twitter/uploadq/common/log/hooks"
	"github.com/twitter/uploadq/upload/cli"
)

// Simulates upload clients competing for a fixed pool of transfer slots
//	Supported commands: (see "-h" for all options)
//		run [--config <name|json>] [--duration <d>] [--slots <n>] [--drain_timeout <d>]
//		configs [--verbose]
//	Global flags:
// 		--log_level [<error|info|debug> level and above should be logged]

func main() {
	log.AddHook(hooks.NewContextHook())

	err := cli.NewSimpleCLI(os.Stdout).Exec()
	if err != nil {
		log.Fatal("Error running uploadsim ", err)
	}
}
