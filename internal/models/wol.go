package models

import "net"

// NetworkInterface is a local interface selected for broadcasting.
type NetworkInterface struct {
	Name      string
	IP        net.IP     // interface IPv4 address, used as the send source
	Network   *net.IPNet // IPv4 network the broadcast address derives from
	Broadcast net.IP     // subnet broadcast address
}

// SendTarget pairs a resolved interface with a destination port.
type SendTarget struct {
	Interface NetworkInterface
	Port      int
}

// SendResult records one send attempt for one target on one interface.
type SendResult struct {
	Target    string // target exactly as given on the command line or in a file
	MAC       string // canonical MAC address, empty if parsing failed
	Interface string
	Broadcast net.IP
	Port      int
	Error     error
}

// RunSummary aggregates the results of a wake run.
type RunSummary struct {
	Results       []SendResult
	Targets       int // targets requested
	Interfaces    int // interfaces selected
	PacketsSent   int
	ParseFailures int
	SendFailures  int
}

// Failed reports how many targets or sends went wrong.
func (s *RunSummary) Failed() int {
	return s.ParseFailures + s.SendFailures
}

// ListenConfig holds the diagnostic receiver settings.
type ListenConfig struct {
	Ports []int // empty means the conventional WOL ports
}

// CapturedPacket describes one magic packet received by the listener.
type CapturedPacket struct {
	MAC    string
	Source string
	Port   int // local port the packet arrived on
	Length int
}
