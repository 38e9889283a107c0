package main

import (
	"os"

	"github.com/mediloop/chatline/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
