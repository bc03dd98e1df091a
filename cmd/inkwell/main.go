// Package main is the entry point for the inkwell command line tool.
package main

import "github.com/inkwellapp/inkwell/internal/cli"

func main() {
	cli.Execute()
}
