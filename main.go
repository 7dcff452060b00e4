package main

import (
	"os"

	"github.com/Rui6filipe/Augusta/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
