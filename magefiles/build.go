//go:build mage

// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/sh"
)

const (
	binGo      = "go"
	binaryName = "moodlog"
	binaryDir  = "bin"
	cmdDir     = "./cmd/moodlog"
	versionVar = "github.com/mesh-intelligence/moodlog/internal/cli.Version"
)

// Build compiles the moodlog binary to bin/. MOODLOG_VERSION, when set,
// is stamped into the binary.
func Build() error {
	if err := os.MkdirAll(binaryDir, 0o755); err != nil {
		return err
	}
	args := []string{"build", "-v"}
	if v := strings.TrimPrefix(os.Getenv("MOODLOG_VERSION"), "v"); v != "" {
		args = append(args, "-ldflags", "-X "+versionVar+"="+v)
	}
	args = append(args, "-o", filepath.Join(binaryDir, binaryName), cmdDir)
	return sh.RunV(binGo, args...)
}
