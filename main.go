package main

import "github.com/datafn/tabcalc/cmd"

func main() {
	cmd.Execute()
}
