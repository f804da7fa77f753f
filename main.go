package main

import "github.com/tantalor93/resolverbench/cmd"

func main() {
	cmd.Execute()
}
