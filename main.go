// The main package for the brewery pipeline executable.
package main

import (
	"github.com/diogotoledo/inbev-case/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
