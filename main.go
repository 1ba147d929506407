package main

import "github.com/nathanhack/qhamming/cmd"

func main() {
	cmd.Execute()
}
