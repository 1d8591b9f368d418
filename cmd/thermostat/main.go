package main

import "github.com/oshokin/thermostat-panel/cmd/thermostat/cmd"

func main() {
	cmd.Execute()
}
