package main

import (
	"flag"
	"fmt"
	"os"

	"machina/internal/logger"
	"machina/internal/runner"
	"machina/pkg/color"
	"machina/pkg/interpreter"
	"machina/pkg/source"

	"github.com/charmbracelet/log"
)

// Main entry point for the Machina interpreter.
func main() {
	options := runner.Runner{}

	flag.BoolVar(&options.Help, "h", false, "Show help")
	flag.BoolVar(&options.Verbose, "v", false, "Verbose mode (debug log and program listing)")
	flag.BoolVar(&options.NoColor, "n", false, "No color")
	flag.BoolVar(&options.List, "l", false, "List the resolved program and exit")
	flag.StringVar(&options.Entry, "e", "main", "Entry function")
	flag.IntVar(&options.MaxDepth, "d", interpreter.DefaultMaxDepth, "Maximum call depth")
	flag.IntVar(&options.MaxSteps, "s", 0, "Maximum executed instructions (0 = unlimited)")
	flag.StringVar(&options.Encoding, "enc", source.UTF8, "Source encoding (utf-8, utf-16, shift-jis)")

	flag.Parse()
	args := flag.Args()

	logger.Init(options.Verbose, options.NoColor)
	if options.Help {
		fmt.Printf("Usage: %s [options] <file>\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	if options.NoColor {
		color.EnableColor(false)
	}

	if len(args) == 0 {
		log.Fatal("No input file provided", "help", fmt.Sprintf("%s -h", os.Args[0]))
	}

	options.SourceFile = args[0]

	if err := options.Run(); err != nil {
		log.Fatal("Execution failed", "error", err)
	}
}
