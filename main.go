package main

import "github.com/cmmoran/dtogen/cmd"

func main() {
	cmd.Execute()
}
