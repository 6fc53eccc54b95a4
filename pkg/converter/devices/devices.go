package devices

import (
	"fmt"
	"strings"

	"github.com/carrierdown/elektron-sysex-to-midi/pkg/converter"
)

// Info describes a supported device
type Info struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// List returns the supported devices
func List() []Info {
	return []Info{
		{ID: "md", Name: "Elektron Machinedrum", Description: "16 track drum machine, pattern dumps with 64 step extension"},
	}
}

// Lookup returns the device handler for a name
func Lookup(name string) (converter.Device, error) {
	switch strings.ToLower(name) {
	case "", "md", "machinedrum":
		return NewMachineDrum(), nil
	default:
		return nil, fmt.Errorf("unknown device %q", name)
	}
}
