package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fgeck/gowol-homelab/internal/config"
	"github.com/fgeck/gowol-homelab/internal/models"
	"github.com/fgeck/gowol-homelab/internal/wol"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [flags] [TARGET ...]",
	Short: "Validate configuration and targets",
	Long:  `Validate the configuration file, a targets file and command line targets without sending any packets.`,
	Args:  cobra.ArbitraryArgs,
	RunE:  validateConfig,
}

func init() {
	validateCmd.Flags().StringVarP(&targetsFile, "file", "f", "", "targets file to validate")
}

func validateConfig(cmd *cobra.Command, args []string) error {
	if configFile == "" && targetsFile == "" && len(args) == 0 {
		log.Error().Msg("nothing to validate, pass --config, --file or targets")
		return cmd.Help()
	}

	cfg := &models.Config{Port: config.DefaultPort}
	if configFile != "" {
		// Check if file exists
		if _, err := os.Stat(configFile); os.IsNotExist(err) {
			log.Error().Str("file", configFile).Msg("config file not found")
			return fmt.Errorf("config file not found: %s", configFile)
		}

		parser := config.NewParser()
		loaded, err := parser.LoadFile(configFile)
		if err != nil {
			log.Error().Err(err).Str("file", configFile).Msg("failed to parse config")
			return err
		}
		cfg = loaded

		// Print configuration summary
		fmt.Println("Configuration is valid!")
		fmt.Println()
		fmt.Println("Summary:")
		fmt.Printf("  Port: %d\n", cfg.Port)
		fmt.Printf("  Networks: %v\n", cfg.Networks)
		fmt.Printf("  Host aliases: %d\n", len(cfg.Hosts))

		names := make([]string, 0, len(cfg.Hosts))
		for name := range cfg.Hosts {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("    %s -> %s\n", name, cfg.Hosts[name])
		}
	}

	targets := append([]string{}, args...)
	if targetsFile != "" {
		fileTargets, err := config.ReadTargetsFile(targetsFile)
		if err != nil {
			log.Error().Err(err).Str("file", targetsFile).Msg("failed to read targets file")
			return err
		}
		targets = append(targets, fileTargets...)
	}

	if len(targets) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("Targets:")

	invalid := 0
	for _, target := range targets {
		mac, err := wol.ParseMAC(target)
		if err != nil {
			if alias, ok := cfg.Hosts[strings.ToLower(target)]; ok {
				mac, err = wol.ParseMAC(alias)
			}
		}
		if err != nil {
			fmt.Printf("  INVALID  %-20s %v\n", target, err)
			invalid++
			continue
		}
		fmt.Printf("  OK       %-20s %s\n", target, mac)
	}

	fmt.Println()
	fmt.Printf("%d target(s), %d invalid\n", len(targets), invalid)

	if invalid > 0 {
		return fmt.Errorf("%d invalid target(s)", invalid)
	}

	return nil
}
