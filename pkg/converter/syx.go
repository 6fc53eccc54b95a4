package converter

import (
	"errors"
	"fmt"
)

// SysEx constants
const (
	SysExStart = 0xF0
	SysExEnd   = 0xF7
)

// Elektron extended manufacturer ID
var elektronID = [...]byte{0x00, 0x20, 0x3C}

// SplitSyx splits a dump into its SysEx messages, each including the F0 and
// F7 framing bytes. Bytes outside a message are skipped; an unterminated
// message is reported as an error.
func SplitSyx(data []byte) ([][]byte, error) {
	msgs, _, err := splitSyx(data)
	return msgs, err
}

func splitSyx(data []byte) ([][]byte, []int, error) {
	var msgs [][]byte
	var offsets []int
	start := -1
	for i, b := range data {
		switch {
		case b == SysExStart:
			if start >= 0 {
				return msgs, offsets, fmt.Errorf("invalid SysEx: message at %d not terminated before %d", start, i)
			}
			start = i
		case b == SysExEnd && start >= 0:
			msgs = append(msgs, data[start:i+1])
			offsets = append(offsets, start)
			start = -1
		}
	}
	if start >= 0 {
		return msgs, offsets, fmt.Errorf("invalid SysEx: message at %d not terminated", start)
	}
	return msgs, offsets, nil
}

// ValidateSyx validates a single SysEx message
func ValidateSyx(data []byte) error {
	if len(data) < 2 {
		return errors.New("syx data too short")
	}

	if data[0] != SysExStart {
		return fmt.Errorf("invalid SysEx: expected start byte 0x%02X, got 0x%02X", SysExStart, data[0])
	}

	if data[len(data)-1] != SysExEnd {
		return fmt.Errorf("invalid SysEx: expected end byte 0x%02X, got 0x%02X", SysExEnd, data[len(data)-1])
	}

	for i := 1; i < len(data)-1; i++ {
		if data[i] > 127 {
			return fmt.Errorf("invalid SysEx: byte at position %d is > 127 (0x%02X)", i, data[i])
		}
	}

	return nil
}

// ExtractManufacturerID extracts the manufacturer ID from SysEx data
func ExtractManufacturerID(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, errors.New("syx data too short for manufacturer ID")
	}

	if data[0] != SysExStart {
		return nil, errors.New("invalid SysEx start")
	}

	// extended IDs start with 0x00
	if data[1] == 0x00 {
		if len(data) < 5 {
			return nil, errors.New("syx data too short for extended manufacturer ID")
		}
		return data[1:4], nil
	}

	return data[1:2], nil
}

// IsElektronSyx checks if the SysEx data is from an Elektron device
func IsElektronSyx(data []byte) bool {
	if len(data) < 5 {
		return false
	}
	return data[0] == SysExStart &&
		data[1] == elektronID[0] &&
		data[2] == elektronID[1] &&
		data[3] == elektronID[2]
}

// MessageInfo summarizes one SysEx message of a dump
type MessageInfo struct {
	Offset   int
	Length   int
	Elektron bool
	Model    byte // device model byte after the manufacturer ID
	Command  byte // message ID
}

// SummarizeSyx lists the messages in a dump
func SummarizeSyx(data []byte) ([]MessageInfo, error) {
	msgs, offsets, err := splitSyx(data)
	infos := make([]MessageInfo, 0, len(msgs))
	for i, msg := range msgs {
		info := MessageInfo{Offset: offsets[i], Length: len(msg), Elektron: IsElektronSyx(msg)}
		// F0 00 20 3C <model> <device> <command>
		if info.Elektron && len(msg) > 6 {
			info.Model = msg[4]
			info.Command = msg[6]
		}
		infos = append(infos, info)
	}
	return infos, err
}
