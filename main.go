// Package main provides the gncat CLI application.
// gncat keeps a natural history specimen catalog locally and in a shared
// remote file.
package main

import "github.com/gnames/gncat/cmd"

func main() {
	cmd.Execute()
}
