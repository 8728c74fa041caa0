package main

import "github.com/last-obs/lastvis/cmd"

func main() {
	cmd.Execute()
}
