package config

import "flag"

var CliArgs *CliConfig

type CliConfig struct {
	ConfigFile string
	EnvFile    string
	Debug      bool
	MCP        bool
	Version    bool
}

func ParseArgs() {
	if CliArgs != nil {
		panic("already defined")
	}
	CliArgs = &CliConfig{}
	flag.StringVar(&CliArgs.ConfigFile, "config", "", "Path to an optional YAML config file")
	flag.StringVar(&CliArgs.EnvFile, "env-file", ".env", "Path to an optional .env file")
	flag.BoolVar(&CliArgs.Debug, "d", false, "Enable debug mode")
	flag.BoolVar(&CliArgs.Debug, "debug", false, "Enable debug mode")
	flag.BoolVar(&CliArgs.MCP, "mcp", false, "Serve the search_pet and ask_openai MCP tools on stdio instead of HTTP")
	flag.BoolVar(&CliArgs.Version, "v", false, "Print version and exit")
	flag.Parse()
}
