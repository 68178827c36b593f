// Command sheetbridge serves the spreadsheet bridge between browsers and the
// remote task service.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "sheetbridge: %v\n", err)
		os.Exit(1)
	}
}
