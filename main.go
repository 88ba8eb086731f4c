package main

import "github.com/guimove/trunkfit/cmd"

func main() {
	cmd.Execute()
}
