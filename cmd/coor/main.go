// Command coor is the CLI for the coor-agent orchestration runtime.
//
// Usage:
//
//	coor serve --config config.yaml
//	coor run -u alice -m "what's the weather in lisbon?"
//	coor list-default-agents
//	coor schema config
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
)

func main() {
	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("coor"),
		kong.Description("coor-agent - multi-agent orchestration runtime"),
		kong.UsageOnError(),
	)

	if err := initLogger(cli.LogLevel, cli.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
