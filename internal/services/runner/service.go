// Package runner orchestrates a wake run across targets and interfaces.
package runner

import (
	"context"
	"fmt"
	"strings"

	"github.com/fgeck/gowol-homelab/internal/models"
	"github.com/fgeck/gowol-homelab/internal/services/netif"
	"github.com/fgeck/gowol-homelab/internal/services/sender"
	"github.com/fgeck/gowol-homelab/internal/wol"
	"github.com/rs/zerolog"
)

// Service defines the interface for the wake runner.
type Service interface {
	Run(ctx context.Context, cfg models.WakeConfig) (*models.RunSummary, error)
}

// Impl implements the runner Service interface.
type Impl struct {
	netifSvc  netif.Service
	senderSvc sender.Service
	logger    zerolog.Logger
}

// New creates a new runner service.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		netifSvc:  netif.New(logger),
		senderSvc: sender.New(logger),
		logger:    logger,
	}
}

// NewWithServices creates a new runner service with custom services (for testing).
func NewWithServices(logger zerolog.Logger, netifSvc netif.Service, senderSvc sender.Service) *Impl {
	return &Impl{
		netifSvc:  netifSvc,
		senderSvc: senderSvc,
		logger:    logger,
	}
}

type target struct {
	raw string
	mac wol.MACAddress
}

// Run resolves the interfaces, parses every target up front, then attempts
// exactly one send per target and interface pair. Individual failures are
// recorded in the summary and never stop the other pairs; only conditions
// that prevent any send at all return an error.
func (s *Impl) Run(ctx context.Context, cfg models.WakeConfig) (*models.RunSummary, error) {
	if len(cfg.Targets) == 0 {
		return nil, fmt.Errorf("no targets to wake")
	}

	interfaces, err := s.resolveInterfaces(cfg.Networks)
	if err != nil {
		return nil, err
	}

	summary := &models.RunSummary{
		Targets:    len(cfg.Targets),
		Interfaces: len(interfaces),
	}

	// Step 1: parse everything. Bad targets become failed results.
	var valid []target
	for _, raw := range cfg.Targets {
		mac, err := s.parseTarget(raw, cfg.Hosts)
		if err != nil {
			s.logger.Error().Err(err).Str("target", raw).Msg("skipping target")
			summary.ParseFailures++
			summary.Results = append(summary.Results, models.SendResult{Target: raw, Error: err})
			continue
		}
		valid = append(valid, target{raw: raw, mac: mac})
	}

	// Step 2: fan out, one packet per target and interface.
	for _, tgt := range valid {
		packet := wol.NewMagicPacket(tgt.mac)

		for _, ifc := range interfaces {
			result := models.SendResult{
				Target:    tgt.raw,
				MAC:       tgt.mac.String(),
				Interface: ifc.Name,
				Broadcast: ifc.Broadcast,
				Port:      cfg.Port,
			}

			sendTarget := models.SendTarget{Interface: ifc, Port: cfg.Port}
			if err := s.senderSvc.Send(ctx, packet.Bytes(), sendTarget); err != nil {
				result.Error = err
				summary.SendFailures++
				s.logger.Error().
					Err(err).
					Str("mac", result.MAC).
					Str("interface", ifc.Name).
					Msg("send failed")
			} else {
				summary.PacketsSent++
				s.logger.Debug().
					Str("mac", result.MAC).
					Str("interface", ifc.Name).
					Str("broadcast", ifc.Broadcast.String()).
					Int("port", cfg.Port).
					Msg("magic packet sent")
			}

			summary.Results = append(summary.Results, result)
		}
	}

	s.logger.Info().
		Int("targets", summary.Targets).
		Int("interfaces", summary.Interfaces).
		Int("sent", summary.PacketsSent).
		Int("failed", summary.Failed()).
		Msg("wake run completed")

	return summary, nil
}

func (s *Impl) resolveInterfaces(networks []string) ([]models.NetworkInterface, error) {
	if len(networks) == 0 {
		interfaces, err := s.netifSvc.ResolveAll()
		if err != nil {
			return nil, fmt.Errorf("resolving interfaces: %w", err)
		}
		return interfaces, nil
	}

	interfaces := make([]models.NetworkInterface, 0, len(networks))
	for _, selector := range networks {
		ni, err := s.netifSvc.Resolve(selector)
		if err != nil {
			return nil, fmt.Errorf("resolving interface: %w", err)
		}
		interfaces = append(interfaces, *ni)
	}

	return interfaces, nil
}

// parseTarget turns a raw target into a MAC address, falling back to the
// host alias table when the string is not an address itself.
func (s *Impl) parseTarget(raw string, hosts map[string]string) (wol.MACAddress, error) {
	mac, parseErr := wol.ParseMAC(raw)
	if parseErr == nil {
		return mac, nil
	}

	if alias, ok := hosts[strings.ToLower(raw)]; ok {
		mac, err := wol.ParseMAC(alias)
		if err != nil {
			return mac, fmt.Errorf("host %q: %w", raw, err)
		}
		s.logger.Debug().Str("host", raw).Str("mac", mac.String()).Msg("resolved host alias")
		return mac, nil
	}

	return mac, parseErr
}
