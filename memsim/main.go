// Package main is the entry point of the memory simulator.
package main

import "github.com/krish-2325/memory-management-simulator/memsim/cmd"

func main() {
	cmd.Execute()
}
