//go:build tinygo && avr

//go:generate tinygo flash -target=arduino

package main

import (
	"context"

	"github.com/oshokin/thermostat-panel/internal/hal"
	"github.com/oshokin/thermostat-panel/internal/service/controller"
)

func main() {
	loop := controller.New(hal.NewMachineBoard(), hal.NewMachineClock())

	// Nothing cancels the context; the loop runs until power-off.
	if err := loop.Run(context.Background()); err != nil {
		// No console on the panel: park so the pins keep their last state.
		select {}
	}
}
