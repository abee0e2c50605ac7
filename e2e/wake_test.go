//go:build e2e

package e2e

import (
	"context"
	"io"
	"net"
	"os"
	"testing"
	"time"

	mdwol "github.com/mdlayher/wol"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fgeck/gowol-homelab/internal/models"
	"github.com/fgeck/gowol-homelab/internal/services/listener"
	"github.com/fgeck/gowol-homelab/internal/services/runner"
	"github.com/fgeck/gowol-homelab/internal/services/sender"
	"github.com/fgeck/gowol-homelab/internal/wol"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func loopbackTarget(port int) models.SendTarget {
	return models.SendTarget{
		Interface: models.NetworkInterface{
			Name:      "lo",
			IP:        net.IPv4(127, 0, 0, 1),
			Broadcast: net.IPv4(127, 0, 0, 1),
		},
		Port: port,
	}
}

func TestSender_LoopbackDelivery_E2E(t *testing.T) {
	// A local UDP socket stands in for the sleeping machine.
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	port := conn.LocalAddr().(*net.UDPAddr).Port

	mac, err := wol.ParseMAC("00:11:22:33:44:55")
	require.NoError(t, err)
	packet := wol.NewMagicPacket(mac)

	svc := sender.New(testLogger())
	require.NoError(t, svc.Send(context.Background(), packet.Bytes(), loopbackTarget(port)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	buf := make([]byte, 256)
	n, _, err := conn.ReadFromUDP(buf)
	require.NoError(t, err)
	require.Equal(t, wol.PacketSize, n)

	var decoded mdwol.MagicPacket
	require.NoError(t, decoded.UnmarshalBinary(buf[:n]))
	assert.Equal(t, "00:11:22:33:44:55", decoded.Target.String())
}

func TestListener_LoopbackCapture_E2E(t *testing.T) {
	// Grab a free UDP port, then hand it to the listener.
	probe, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	require.NoError(t, err)
	port := probe.LocalAddr().(*net.UDPAddr).Port
	require.NoError(t, probe.Close())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	captured := make(chan models.CapturedPacket, 1)
	errCh := make(chan error, 1)
	go func() {
		svc := listener.New(testLogger())
		errCh <- svc.Listen(ctx, models.ListenConfig{Ports: []int{port}}, func(p models.CapturedPacket) {
			captured <- p
		})
	}()

	mac, err := wol.ParseMAC("aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)
	packet := wol.NewMagicPacket(mac)
	senderSvc := sender.New(testLogger())

	// The listener binds asynchronously, so keep sending until it hears us.
	deadline := time.After(2 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	var got models.CapturedPacket
waiting:
	for {
		select {
		case got = <-captured:
			break waiting
		case <-tick.C:
			_ = senderSvc.Send(ctx, packet.Bytes(), loopbackTarget(port))
		case <-deadline:
			t.Fatal("timed out waiting for the listener to capture a packet")
		}
	}

	assert.Equal(t, "aa:bb:cc:dd:ee:ff", got.MAC)
	assert.Equal(t, port, got.Port)
	assert.Equal(t, wol.PacketSize, got.Length)

	cancel()
	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for the listener to stop")
	}
}

// RealWake tests - only run if explicitly configured
func TestRealWake_E2E(t *testing.T) {
	mac := os.Getenv("TEST_WAKE_MAC")
	if mac == "" {
		t.Skip("TEST_WAKE_MAC not set")
	}

	svc := runner.New(testLogger())

	summary, err := svc.Run(context.Background(), models.WakeConfig{
		Targets: []string{mac},
		Port:    9,
	})

	require.NoError(t, err)
	assert.GreaterOrEqual(t, summary.PacketsSent, 1)
	assert.Zero(t, summary.Failed())
}
