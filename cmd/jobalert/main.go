package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:          "jobalert",
		Short:        "Job alert chat bot",
		SilenceUsage: true,
	}

	root.AddCommand(serveCMD(), scrapeCMD(), sourcesCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
