// main package for srilang command-line tool
// Package main is the entry point for the srilang CLI.
package main

import "github.com/sriharikapu/SRILang/cmd"

func main() {
	cmd.Execute()
}
