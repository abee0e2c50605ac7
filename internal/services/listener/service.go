// Package listener provides a diagnostic receiver for magic packets.
package listener

import (
	"context"
	"fmt"
	"net"

	"github.com/fgeck/gowol-homelab/internal/models"
	"github.com/mdlayher/wol"
	"github.com/rs/zerolog"
	"gopkg.in/tomb.v2"
)

// DefaultPorts are the conventional Wake-on-LAN UDP ports.
var DefaultPorts = []int{9, 7}

// Service defines the interface for receiving magic packets.
type Service interface {
	Listen(ctx context.Context, cfg models.ListenConfig, handle func(models.CapturedPacket)) error
}

// PacketConn is the subset of *net.UDPConn the listener needs.
type PacketConn interface {
	ReadFrom(b []byte) (n int, addr net.Addr, err error)
	Close() error
	LocalAddr() net.Addr
}

// Client opens listening sockets, wrapped for mocking.
type Client interface {
	Listen(port int) (PacketConn, error)
}

// DefaultClient binds UDP sockets on all IPv4 addresses.
type DefaultClient struct{}

// Listen opens a UDP socket on the given port.
func (c *DefaultClient) Listen(port int) (PacketConn, error) {
	return net.ListenUDP("udp4", &net.UDPAddr{Port: port})
}

// Impl implements the listener Service interface.
type Impl struct {
	client Client
	logger zerolog.Logger
}

// New creates a new listener service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		client: &DefaultClient{},
		logger: logger,
	}
}

// NewWithClient creates a new listener service with a custom client (for testing).
func NewWithClient(logger zerolog.Logger, client Client) *Impl {
	return &Impl{
		client: client,
		logger: logger,
	}
}

// Listen binds the configured ports and invokes handle for every magic
// packet received, until ctx is cancelled or a socket fails. Datagrams
// that do not decode as magic packets are ignored.
func (s *Impl) Listen(ctx context.Context, cfg models.ListenConfig, handle func(models.CapturedPacket)) error {
	ports := cfg.Ports
	if len(ports) == 0 {
		ports = DefaultPorts
	}

	type boundConn struct {
		conn PacketConn
		port int
	}

	// Bind everything up front so a taken port fails the whole command
	// instead of leaving it half-listening.
	conns := make([]boundConn, 0, len(ports))
	for _, port := range ports {
		conn, err := s.client.Listen(port)
		if err != nil {
			for _, bound := range conns {
				_ = bound.conn.Close()
			}
			return fmt.Errorf("listening on port %d: %w", port, err)
		}
		conns = append(conns, boundConn{conn: conn, port: port})

		s.logger.Info().
			Str("addr", conn.LocalAddr().String()).
			Int("port", port).
			Msg("listening for magic packets")
	}

	t, tctx := tomb.WithContext(ctx)
	for _, bound := range conns {
		// Pin the loop variable: with go < 1.22 the closures below would
		// otherwise share one variable across iterations.
		bound := bound
		t.Go(func() error {
			<-tctx.Done()
			_ = bound.conn.Close()
			return nil
		})
		t.Go(func() error {
			return s.readLoop(tctx, bound.conn, bound.port, handle)
		})
	}

	return t.Wait()
}

func (s *Impl) readLoop(ctx context.Context, conn PacketConn, port int, handle func(models.CapturedPacket)) error {
	buf := make([]byte, 256)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			// The close watcher tears the socket down on cancellation,
			// which surfaces here as a read error.
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("reading from %s: %w", conn.LocalAddr(), err)
		}

		var packet wol.MagicPacket
		if err := packet.UnmarshalBinary(buf[:n]); err != nil {
			s.logger.Debug().
				Str("source", addr.String()).
				Int("length", n).
				Msg("ignoring datagram, not a magic packet")
			continue
		}

		captured := models.CapturedPacket{
			MAC:    packet.Target.String(),
			Source: addr.String(),
			Port:   port,
			Length: n,
		}

		s.logger.Debug().
			Str("mac", captured.MAC).
			Str("source", captured.Source).
			Int("port", captured.Port).
			Msg("magic packet received")

		handle(captured)
	}
}
