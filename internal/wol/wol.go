// Package wol implements the Wake-on-LAN wire format: MAC address
// parsing and magic packet construction.
package wol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when a MAC address string cannot be parsed.
var ErrInvalidFormat = errors.New("invalid MAC address format")

const (
	macGroups = 6
	macReps   = 16

	// PacketSize is the fixed length of a magic packet: a 6-byte
	// synchronization header followed by the target MAC repeated 16 times.
	PacketSize = macGroups + macReps*macGroups
)

// MACAddress is a parsed 48-bit hardware address.
type MACAddress [6]byte

// ParseMAC parses a MAC address string. Accepted forms use exactly six
// groups of one or two hex digits, separated uniformly by ':' or '-':
//
//	01:23:45:67:89:ab
//	01-23-45-67-89-AB
//	1:2:3:4:5:6
//
// Single-digit groups are zero-padded. Mixed separators, missing groups
// and non-hex characters are rejected.
func ParseMAC(s string) (MACAddress, error) {
	var mac MACAddress

	sep := ":"
	switch {
	case strings.Contains(s, ":") && strings.Contains(s, "-"):
		return mac, fmt.Errorf("parse %q: mixed separators: %w", s, ErrInvalidFormat)
	case strings.Contains(s, "-"):
		sep = "-"
	case !strings.Contains(s, ":"):
		return mac, fmt.Errorf("parse %q: no separator: %w", s, ErrInvalidFormat)
	}

	groups := strings.Split(s, sep)
	if len(groups) != macGroups {
		return mac, fmt.Errorf("parse %q: want %d groups, got %d: %w", s, macGroups, len(groups), ErrInvalidFormat)
	}

	for i, group := range groups {
		if len(group) == 0 || len(group) > 2 {
			return mac, fmt.Errorf("parse %q: group %d: %w", s, i+1, ErrInvalidFormat)
		}
		b, err := strconv.ParseUint(group, 16, 8)
		if err != nil {
			return mac, fmt.Errorf("parse %q: group %d: %w", s, i+1, ErrInvalidFormat)
		}
		mac[i] = byte(b)
	}

	return mac, nil
}

// String returns the canonical lower-case, colon-separated form.
func (m MACAddress) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

// MagicPacket is the payload that wakes a machine.
type MagicPacket [PacketSize]byte

// NewMagicPacket builds the magic packet for the given target: six 0xFF
// bytes followed by the MAC repeated sixteen times. Every valid address
// yields a packet; there is no failure path.
func NewMagicPacket(mac MACAddress) MagicPacket {
	var p MagicPacket

	for i := 0; i < macGroups; i++ {
		p[i] = 0xFF
	}
	for rep := 0; rep < macReps; rep++ {
		copy(p[macGroups+rep*macGroups:], mac[:])
	}

	return p
}

// Bytes returns the packet's wire form.
func (p MagicPacket) Bytes() []byte {
	return p[:]
}

// MAC returns the target address embedded in the packet.
func (p MagicPacket) MAC() MACAddress {
	var mac MACAddress
	copy(mac[:], p[macGroups:2*macGroups])
	return mac
}
