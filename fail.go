package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Fail logs a failed input and, when dir is set, writes the reason to a
// report file named after the input.
func Fail(dir, input string, reason error) {
	log.Printf("fail: %s: %v", input, reason)

	if dir == "" {
		return
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Printf("fail report: %v", err)
		return
	}

	name := strings.NewReplacer("/", "_", "\\", "_", ":", "_").Replace(input) + ".txt"

	err := os.WriteFile(filepath.Join(dir, name), []byte(fmt.Sprintf("%s\n\n%v\n", input, reason)), 0o644)
	if err != nil {
		log.Printf("fail report: %v", err)
	}
}
