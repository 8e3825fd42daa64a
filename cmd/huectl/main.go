package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/huectl/cmd/huectl/commands"
	"github.com/dokzlo13/huectl/internal/app"
)

var version = "dev"

func main() {
	ctx := app.SignalContext()

	rootCmd := commands.NewRootCommand(version)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
