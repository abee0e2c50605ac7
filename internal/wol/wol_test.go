package wol

import (
	"bytes"
	"net"
	"testing"

	mdwol "github.com/mdlayher/wol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMAC_ValidFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  MACAddress
	}{
		{"colon separated", "00:11:22:33:44:55", MACAddress{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}},
		{"dash separated", "00-11-22-33-44-55", MACAddress{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}},
		{"upper case", "AA:BB:CC:DD:EE:FF", MACAddress{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}},
		{"mixed case", "aA:Bb:cC:Dd:eE:fF", MACAddress{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}},
		{"single digit groups", "1:2:3:4:5:6", MACAddress{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}},
		{"mixed group widths", "1:23:4:56:7:89", MACAddress{0x01, 0x23, 0x04, 0x56, 0x07, 0x89}},
		{"broadcast address", "ff-ff-ff-ff-ff-ff", MACAddress{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMAC(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseMAC_InvalidFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"no separator", "001122334455"},
		{"mixed separators", "00:11-22:33:44:55"},
		{"too few groups", "00:11:22:33:44"},
		{"too many groups", "00:11:22:33:44:55:66"},
		{"empty group", "00::22:33:44:55"},
		{"trailing separator", "00:11:22:33:44:"},
		{"leading separator", ":11:22:33:44:55"},
		{"three digit group", "000:11:22:33:44:55"},
		{"non-hex characters", "00:11:22:33:44:gg"},
		{"sign in group", "00:11:22:33:44:+5"},
		{"dot separated", "0011.2233.4455"},
		{"whitespace", "00 :11:22:33:44:55"},
		{"random text", "not-a-mac"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMAC(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFormat)
			if tt.input != "" {
				assert.Contains(t, err.Error(), tt.input)
			}
		})
	}
}

func TestMACAddress_String(t *testing.T) {
	mac, err := ParseMAC("AA-B-CC-1-EE-F")
	require.NoError(t, err)

	assert.Equal(t, "aa:0b:cc:01:ee:0f", mac.String())
}

func TestParseMAC_RoundTrip(t *testing.T) {
	mac, err := ParseMAC("01:23:45:67:89:ab")
	require.NoError(t, err)

	again, err := ParseMAC(mac.String())
	require.NoError(t, err)
	assert.Equal(t, mac, again)
}

func TestNewMagicPacket_Layout(t *testing.T) {
	mac, err := ParseMAC("01:23:45:67:89:ab")
	require.NoError(t, err)

	packet := NewMagicPacket(mac)
	raw := packet.Bytes()

	require.Len(t, raw, PacketSize)
	require.Len(t, raw, 102)

	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 6), raw[:6])
	for rep := 0; rep < 16; rep++ {
		offset := 6 + rep*6
		assert.Equal(t, mac[:], raw[offset:offset+6], "repetition %d", rep)
	}
}

func TestMagicPacket_MACRoundTrip(t *testing.T) {
	mac, err := ParseMAC("aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)

	packet := NewMagicPacket(mac)

	assert.Equal(t, mac, packet.MAC())
}

func TestNewMagicPacket_ReferenceDecoderAcceptsIt(t *testing.T) {
	mac, err := ParseMAC("00:11:22:33:44:55")
	require.NoError(t, err)

	packet := NewMagicPacket(mac)

	var decoded mdwol.MagicPacket
	require.NoError(t, decoded.UnmarshalBinary(packet.Bytes()))
	assert.Equal(t, net.HardwareAddr{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}, decoded.Target)
	assert.Empty(t, decoded.Password)
}
