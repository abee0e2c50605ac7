// Package sender transmits magic packets over UDP broadcast.
package sender

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/fgeck/gowol-homelab/internal/models"
	"github.com/rs/zerolog"
)

// ErrSendFailed is returned when a packet could not be handed to the
// network. The underlying OS error stays in the chain.
var ErrSendFailed = errors.New("sending magic packet failed")

// Service defines the interface for packet transmission.
type Service interface {
	Send(ctx context.Context, packet []byte, target models.SendTarget) error
}

// Client wraps the UDP socket operations for mocking.
type Client interface {
	Broadcast(source net.IP, dst *net.UDPAddr, payload []byte) error
}

// DefaultClient sends real UDP datagrams. Each call opens its own socket,
// enables SO_BROADCAST on it and closes it before returning.
type DefaultClient struct{}

// Broadcast writes one datagram from the given source address to dst.
func (c *DefaultClient) Broadcast(source net.IP, dst *net.UDPAddr, payload []byte) error {
	var local *net.UDPAddr
	if source != nil {
		// Binding the interface address pins the datagram to that
		// interface instead of whatever the routing table prefers.
		local = &net.UDPAddr{IP: source}
	}

	conn, err := net.DialUDP("udp4", local, dst)
	if err != nil {
		return fmt.Errorf("opening socket: %w", err)
	}
	defer func() { _ = conn.Close() }()

	if err := setBroadcast(conn); err != nil {
		return fmt.Errorf("enabling broadcast: %w", err)
	}

	n, err := conn.Write(payload)
	if err != nil {
		return fmt.Errorf("writing datagram: %w", err)
	}
	if n != len(payload) {
		return fmt.Errorf("short write: %d of %d bytes", n, len(payload))
	}

	return nil
}

// Impl implements the sender Service interface.
type Impl struct {
	client Client
	logger zerolog.Logger
}

// New creates a new sender service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		client: &DefaultClient{},
		logger: logger,
	}
}

// NewWithClient creates a new sender service with a custom client (for testing).
func NewWithClient(logger zerolog.Logger, client Client) *Impl {
	return &Impl{
		client: client,
		logger: logger,
	}
}

// Send transmits one packet to the target's broadcast address. Sending is
// fire-and-forget: success means the datagram left this machine, nothing
// more.
func (s *Impl) Send(ctx context.Context, packet []byte, target models.SendTarget) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dst := &net.UDPAddr{IP: target.Interface.Broadcast, Port: target.Port}

	s.logger.Debug().
		Str("interface", target.Interface.Name).
		Str("destination", dst.String()).
		Int("bytes", len(packet)).
		Msg("sending magic packet")

	if err := s.client.Broadcast(target.Interface.IP, dst, packet); err != nil {
		return fmt.Errorf("%w: %s via %s: %w", ErrSendFailed, dst, target.Interface.Name, err)
	}

	return nil
}
