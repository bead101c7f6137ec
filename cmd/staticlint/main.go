// Package main implements a multichecker with the project's custom
// static analysis checks.
//
// Usage:
//
//	go run cmd/staticlint/main.go ./...
//	./staticlint ./...
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/tabwatch/tabwatch/cmd/staticlint/analyzers"
)

func main() {
	multichecker.Main(
		analyzers.NoExitAnalyzer,
	)
}
