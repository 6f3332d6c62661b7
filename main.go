package main

import (
	"os"

	"github.com/seo-check/seo-check/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
