package main

import "github.com/naka-gawa/workflow-perf/cmd"

func main() {
	cmd.Execute()
}
