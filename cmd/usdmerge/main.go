package main

import (
	"fmt"
	"os"

	"github.com/usdtools/usdmerge/cmd/usdmerge/commands"
)

func main() {
	rootCmd := commands.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "usdmerge: %v\n", err)
		os.Exit(1)
	}
}
