package config

// UploadConfigs the map of available configurations
var UploadConfigs = map[string]string{
	"default":    defaultConfig,
	"local.fast": localFast,
	"local.slow": localSlow,
}

// defaultConfig the configuration values that are used for the sections a specific configuration leaves out
const defaultConfig = `{
	"Server": {
		"Type": "pool",
		"NumSlots": 5,
		"TickInterval": "100ms",
		"HistorySize": 10000
	},
	"Generator": {
		"Type": "random",
		"MinInterval": "200ms",
		"MaxInterval": "2000ms",
		"MinFiles": 3,
		"MaxFiles": 9,
		"MinFileSize": 1,
		"MaxFileSize": 99
	},
	"Stats": {
		"Type": "finagle"
	}
}`

// localFast config for local.fast - !!! make sure this constant is added to UploadConfigs map above !!!
const localFast = `{
	"Server": {
		"Type": "pool",
		"NumSlots": 8,
		"TickInterval": "5ms"
	},
	"Generator": {
		"Type": "random",
		"MinInterval": "10ms",
		"MaxInterval": "50ms",
		"MinFiles": 1,
		"MaxFiles": 5,
		"MinFileSize": 1,
		"MaxFileSize": 20,
		"MaxArrivalsPerSec": 50
	}
}`

// localSlow config for local.slow - !!! make sure this constant is added to UploadConfigs map above !!!
const localSlow = `{
	"Server": {
		"Type": "pool",
		"NumSlots": 2,
		"TickInterval": "250ms"
	}
}`
