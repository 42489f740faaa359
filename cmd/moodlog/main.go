// Package main provides the moodlog CLI.
package main

import "github.com/mesh-intelligence/moodlog/internal/cli"

func main() {
	cli.Execute()
}
