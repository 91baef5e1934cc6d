package main

import (
	"os"

	"github.com/taxonomiaia/taxocli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
