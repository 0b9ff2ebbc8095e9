// cmd/tools/audit-cli/main.go

// Command audit-cli runs the checklist integrity engine over exported list
// instances without a Zeebe broker.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
