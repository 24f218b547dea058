package main

import (
	"os"

	"github.com/evidfuse/evidfuse/cmd/evidfuse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
