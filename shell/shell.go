// Package shell implements the textual command loop of the simulator.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/krish-2325/memory-management-simulator/simulation"
)

var (
	// ErrUnknownCommand is returned for a command the shell does not know.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrUsage is returned when a command has missing or malformed
	// arguments.
	ErrUsage = errors.New("usage")
)

// Shell reads commands and runs them against a simulation.
type Shell struct {
	sim    *simulation.Simulation
	out    io.Writer
	prompt string
	onLineStart func()
	onLineDone  func()
}

// New creates a shell that writes its output to out.
func New(s *simulation.Simulation, out io.Writer) *Shell {
	return &Shell{sim: s, out: out}
}

// WithPrompt makes the shell print the prompt before reading each command.
func (sh *Shell) WithPrompt(prompt string) *Shell {
	sh.prompt = prompt
	return sh
}

// WithLineCallbacks registers functions called right before and right after
// each line is executed. Either may be nil.
func (sh *Shell) WithLineCallbacks(onStart, onDone func()) *Shell {
	sh.onLineStart = onStart
	sh.onLineDone = onDone
	return sh
}

// Run executes commands line by line until exit or the end of the input.
// Command errors are printed and do not stop the loop.
func (sh *Shell) Run(in io.Reader) error {
	fmt.Fprintln(sh.out, "Memory Simulator Started")

	scanner := bufio.NewScanner(in)
	for {
		if sh.prompt != "" {
			fmt.Fprint(sh.out, sh.prompt)
		}

		if !scanner.Scan() {
			return scanner.Err()
		}

		if sh.onLineStart != nil {
			sh.onLineStart()
		}

		exit, err := sh.Execute(scanner.Text())
		if err != nil {
			sh.report(err)
		}

		if sh.onLineDone != nil {
			sh.onLineDone()
		}

		if exit {
			return nil
		}
	}
}

// Execute runs one command line. It returns true if the command asks the
// shell to stop.
func (sh *Shell) Execute(line string) (exit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
		return false, nil
	}

	name, args := fields[0], fields[1:]
	if name == "exit" || name == "quit" {
		return true, nil
	}

	cmd, ok := commands[name]
	if !ok {
		return false, ErrUnknownCommand
	}

	if len(args) < cmd.minArgs {
		return false, fmt.Errorf("%w: %s", ErrUsage, cmd.usage)
	}

	return false, cmd.run(sh, args)
}

func (sh *Shell) report(err error) {
	if errors.Is(err, ErrUnknownCommand) {
		fmt.Fprintln(sh.out, "Unknown command")
		return
	}

	fmt.Fprintf(sh.out, "Error: %v\n", err)
}

func (sh *Shell) printf(format string, a ...any) {
	fmt.Fprintf(sh.out, format, a...)
}

func parseSize(s string) (uint64, error) {
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a size", ErrUsage, s)
	}

	return n, nil
}

func parseHex(s string) (uint64, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	n, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a hexadecimal address", ErrUsage, s)
	}

	return n, nil
}

func isHex(s string) bool {
	return strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")
}

func parseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrUsage, s)
	}

	return n, nil
}
