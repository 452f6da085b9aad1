package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/daghub-backend/internal/app"
)

func main() {
	app.LoadDotEnv()

	root := &cobra.Command{
		Use:           "daghub",
		Short:         "Digital agriculture solutions catalogue backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		serveCommand(),
		migrateCommand(),
		seedCommand(),
		importCommand(),
		tokenCommand(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
