package main

import (
	"fmt"

	"github.com/fgeck/gowol-homelab/internal/services/netif"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var interfacesCmd = &cobra.Command{
	Use:   "interfaces",
	Short: "List broadcast-capable network interfaces",
	Long:  `List the local interfaces a wake run would broadcast on, with their addresses and broadcast addresses.`,
	RunE:  listInterfaces,
}

func listInterfaces(cmd *cobra.Command, args []string) error {
	netifSvc := netif.New(log.Logger)

	interfaces, err := netifSvc.ResolveAll()
	if err != nil {
		log.Error().Err(err).Msg("failed to resolve interfaces")
		return err
	}

	fmt.Printf("%-12s %-16s %-20s %s\n", "NAME", "ADDRESS", "NETWORK", "BROADCAST")
	for _, ni := range interfaces {
		fmt.Printf("%-12s %-16s %-20s %s\n", ni.Name, ni.IP, ni.Network, ni.Broadcast)
	}

	return nil
}
