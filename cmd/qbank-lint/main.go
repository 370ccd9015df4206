// Lints question-bank JSON files without touching the database.
//
// Usage: qbank-lint [dir]   (default ./qbanks)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"pharmprep/qbank"
)

func main() {
	dir := "./qbanks"
	if len(os.Args) > 1 {
		dir = os.Args[1]
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		fmt.Printf("error: cannot read %s: %v\n", dir, err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("no .json bank files found in %s\n", dir)
		return
	}

	exitCode := 0
	for _, f := range files {
		bank, err := qbank.ParseFile(f)
		if err != nil {
			fmt.Printf("%s: %v\n", f, err)
			exitCode = 1
			continue
		}

		result := qbank.Validate(bank)
		if result.Valid() {
			fmt.Printf("%s: OK (%d questions)\n", f, len(bank.Questions))
			continue
		}

		for _, issue := range result.Issues {
			fmt.Printf("%s: %s\n", f, issue)
		}
		exitCode = 1
	}
	os.Exit(exitCode)
}
