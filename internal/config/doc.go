// Package config defines the host-side settings of the thermostat binary and
// provides helpers to load, validate and save them in YAML format.
//
// Settings cover how the loop reaches the hardware (simulator or serial GPIO
// bridge) and how loudly it logs. Thermostat behaviour itself (thresholds,
// debounce delays, multiplex timing) is compiled in and not configurable.
package config
