package main

import (
	"os"

	"github.com/mannubhai1/jinja2visualiser/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
