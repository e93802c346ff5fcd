package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/lingorelay/lingorelay/internal/interfaces/cli/migrate"
	"github.com/lingorelay/lingorelay/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lingorelay",
		Short: "LingoRelay - multilingual channel relay service",
		Long:  `LingoRelay relays messages between language channels of a space, translating each message into every other configured language.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
