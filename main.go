package main

import (
	"os"

	"github.com/Umesh49/ZeroTrace/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
