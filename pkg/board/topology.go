package board

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Topology declares which channels exist on a board. The dispatcher
// checks every command target against it before producing actions, so a
// grammar-valid command addressed to an absent channel is rejected
// instead of reaching the hardware.
type Topology struct {
	DigitalPins   []uint8 `yaml:"digital_pins"`
	AnalogPins    []uint8 `yaml:"analog_pins"`
	ServoChannels []uint8 `yaml:"servo_channels"`
	LedPin        uint8   `yaml:"led_pin"`
	PwmPin        uint8   `yaml:"pwm_pin"`
}

// DefaultTopology matches the reference board: digital pins 2-4 and
// 6-12, analog pins 0-5, LED on d13, PWM on d5, four servo channels.
func DefaultTopology() *Topology {
	return &Topology{
		DigitalPins:   []uint8{2, 3, 4, 6, 7, 8, 9, 10, 11, 12},
		AnalogPins:    []uint8{0, 1, 2, 3, 4, 5},
		ServoChannels: []uint8{0, 1, 2, 3},
		LedPin:        13,
		PwmPin:        5,
	}
}

// LoadTopology reads a topology from a YAML file, starting from the
// defaults so a partial file only overrides what it names.
func LoadTopology(path string) (*Topology, error) {
	topo := DefaultTopology()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read topology %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, topo); err != nil {
		return nil, fmt.Errorf("parse topology %s: %w", path, err)
	}
	return topo, nil
}

// HasDigital reports whether the digital pin exists.
func (t *Topology) HasDigital(pin uint8) bool {
	return contains(t.DigitalPins, pin)
}

// HasAnalog reports whether the analog pin exists.
func (t *Topology) HasAnalog(pin uint8) bool {
	return contains(t.AnalogPins, pin)
}

// HasServo reports whether the servo channel exists.
func (t *Topology) HasServo(ch uint8) bool {
	return contains(t.ServoChannels, ch)
}

func contains(set []uint8, v uint8) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
