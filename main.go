package main

import "github.com/mouse-blink/pareto/cmd"

func main() {
	cmd.Execute()
}
