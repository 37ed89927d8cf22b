package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mirzapolat/visual-bereal-processor/internal/config"
	"github.com/mirzapolat/visual-bereal-processor/internal/tui"
)

func main() {
	configFlag := flag.String("config", "", "Path to config file")
	flag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		if _, err := os.Stat(*configFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: config file not found: %s\n", *configFlag)
			os.Exit(1)
		}
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	baseDir := os.Getenv("BEREAL_BASE_DIR")
	if flag.NArg() > 0 {
		baseDir = flag.Arg(0)
	}

	if err := tui.Run(settings, baseDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
