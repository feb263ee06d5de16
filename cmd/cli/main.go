package main

import (
	"os"

	"github.com/soumyendra98/GymApp/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
