package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dlains/cube"
	"github.com/dlains/cube/config"
)

const version = "0.1.0"

var (
	dumpFlag  bool
	traceFlag bool
)

func main() {
	root := &cobra.Command{
		Use:          "cube [script]",
		Short:        "cube",
		Long:         "cube compiles and runs the L scripting language: a file if given, otherwise a line-at-a-time REPL.",
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE:         run,
	}

	root.Flags().BoolVarP(&dumpFlag, "dump", "d", false, "print a disassembly of the compiled chunk before running it")
	root.Flags().BoolVar(&traceFlag, "trace", false, "log each dispatched instruction at debug level")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(_ *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.VM.EnableTrace {
		traceFlag = true
	}
	cube.Colorized = cfg.Output.Colorized

	if traceFlag {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if len(args) == 1 {
		return runFile(args[0])
	}
	return runREPL()
}

func runFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("can't open %s: %w", path, err)
	}

	result := cube.Run(string(source), dumpFlag, traceFlag)
	if result != cube.InterpretOK {
		os.Exit(exitCodeFor(result))
	}
	return nil
}

func runREPL() error {
	vm := cube.NewVM()
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("cube " + version)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return nil
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		cube.RunWith(vm, line, dumpFlag, traceFlag)
	}
}

func exitCodeFor(result cube.InterpretResult) int {
	switch result {
	case cube.InterpretCompileError:
		return 65
	case cube.InterpretRuntimeError:
		return 70
	default:
		return 0
	}
}
