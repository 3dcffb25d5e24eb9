package main

import (
	"fmt"
	"os"

	"github.com/samujjwal/rental-sub006/cmd/discovery/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
