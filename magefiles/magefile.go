//go:build mage

// SPDX-License-Identifier: MIT

// Package main provides build targets for the moodlog project using Mage.
//
// Usage:
//
//	mage build      Compile moodlog binary to bin/
//	mage test:all   Run all tests
//	mage test:race  Run all tests with the race detector
//	mage test:cover Write a coverage profile to bin/coverage.out
//	mage lint       Run golangci-lint
//	mage vet        Run go vet
//	mage render     Regenerate grafico.svg and README.md in the repo root
//	mage clean      Remove build artifacts
//	mage install    Install moodlog to GOPATH/bin
package main

import (
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Clean removes build artifacts.
func Clean() error {
	if err := os.RemoveAll(binaryDir); err != nil {
		return err
	}
	return sh.RunV(binGo, "clean")
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output(binGo, "env", "GOPATH")
	if err != nil {
		return err
	}
	src := filepath.Join(binaryDir, binaryName)
	dst := filepath.Join(gopath, "bin", binaryName)
	return sh.Copy(dst, src)
}

// Render rebuilds the heat-map and README from the configured data.
func Render() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binaryDir, binaryName), "render", "--out", ".")
}
