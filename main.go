package main

import (
	"os"

	"github.com/abhisek/gugudan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
