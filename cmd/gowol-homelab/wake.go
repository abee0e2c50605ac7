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
	"github.com/fgeck/gowol-homelab/internal/services/runner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	errNoTargets     = errors.New("no targets specified")
	errTargetsFailed = errors.New("not all wake operations succeeded")
)

// newRunner creates the runner service (swappable for testing).
var newRunner = func(logger zerolog.Logger) runner.Service {
	return runner.New(logger)
}

func runWake(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg := &models.Config{Port: config.DefaultPort}
	if configFile != "" {
		parser := config.NewParser()
		loaded, err := parser.LoadFile(configFile)
		if err != nil {
			log.Error().Err(err).Str("file", configFile).Msg("failed to load config")
			return err
		}
		cfg = loaded
	}

	// Collect targets from the command line and the targets file.
	targets := append([]string{}, args...)
	if targetsFile != "" {
		fileTargets, err := config.ReadTargetsFile(targetsFile)
		if err != nil {
			log.Error().Err(err).Str("file", targetsFile).Msg("failed to read targets file")
			if len(targets) == 0 {
				return err
			}
		}
		targets = append(targets, fileTargets...)
	}

	if len(targets) == 0 {
		log.Error().Msg("no targets specified, pass MAC addresses or use --file")
		_ = cmd.Help()
		return errNoTargets
	}

	// Flags win over the config file.
	nets := networks
	if len(nets) == 0 {
		nets = cfg.Networks
	}
	dstPort := cfg.Port
	if cmd.Flags().Changed("port") {
		dstPort = port
	}
	if err := config.ValidatePort(dstPort); err != nil {
		log.Error().Err(err).Msg("invalid destination port")
		return err
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

	// Run wake
	runnerSvc := newRunner(log.Logger)
	summary, err := runnerSvc.Run(ctx, models.WakeConfig{
		Targets:  targets,
		Networks: nets,
		Port:     dstPort,
		Hosts:    cfg.Hosts,
	})
	if err != nil {
		log.Error().Err(err).Msg("wake run failed")
		return err
	}

	if failed := summary.Failed(); failed > 0 {
		return fmt.Errorf("%w (%d of %d)", errTargetsFailed, failed, len(summary.Results))
	}

	log.Info().Int("packets", summary.PacketsSent).Msg("all magic packets sent")
	return nil
}
