package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fgeck/gowol-homelab/internal/config"
	"github.com/fgeck/gowol-homelab/internal/models"
	"github.com/fgeck/gowol-homelab/internal/services/listener"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var listenPorts []int

var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Wait for magic packets and print them",
	Long: `Listen on the conventional Wake-on-LAN ports (9 and 7) and print
every magic packet received. Useful for checking that packets actually
arrive on a network segment. Stop with Ctrl-C.`,
	RunE: runListen,
}

func init() {
	listenCmd.Flags().IntSliceVarP(&listenPorts, "port", "p", nil, "UDP port to listen on (repeatable, default 9 and 7)")
}

func runListen(cmd *cobra.Command, args []string) error {
	// Port 0 would silently bind an ephemeral port.
	for _, p := range listenPorts {
		if err := config.ValidatePort(p); err != nil {
			log.Error().Err(err).Msg("invalid listen port")
			return err
		}
	}

	// Set up context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Warn().Str("signal", sig.String()).Msg("received signal, shutting down")
		cancel()
	}()

	listenerSvc := listener.New(log.Logger)
	err := listenerSvc.Listen(ctx, models.ListenConfig{Ports: listenPorts}, func(p models.CapturedPacket) {
		fmt.Printf("magic packet for %s from %s (port %d, %d bytes)\n", p.MAC, p.Source, p.Port, p.Length)
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("listener failed")
		return err
	}

	return nil
}
