package main

import (
	"os"
	"strings"

	"github.com/fgeck/gowol-homelab/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version is set at build time.
	Version = "dev"

	// Configuration flags.
	configFile string
	verbose    bool
	quiet      bool
	jsonOutput bool

	// Wake flags.
	targetsFile string
	networks    []string
	port        int
)

var rootCmd = newRootCmd()

func init() {
	rootCmd.AddCommand(interfacesCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(validateCmd)
}

// newRootCmd builds the root command with fresh flag bindings (tests create
// their own instance).
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gowol-homelab [flags] TARGET ...",
		Short: "Wake machines on the local network via Wake-on-LAN",
		Long: `gowol-homelab sends Wake-on-LAN magic packets to machines on the
local network. Targets are MAC addresses (six groups of one or two hex
digits, separated uniformly by ':' or '-') or host aliases defined in
the config file.

Packets go out as UDP broadcasts on every eligible interface, or only
on the interface selected with --net.

Exit codes:
  0  every magic packet was sent
  1  nothing could be done (bad flags, no usable interface, ...)
  2  some targets failed while others succeeded`,
		Args: cobra.ArbitraryArgs,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging()
		},
		RunE:         runWake,
		Version:      Version,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file with port, networks and host aliases")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose (debug) output")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "enable quiet mode (errors only)")
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output logs in JSON format")

	cmd.Flags().StringVarP(&targetsFile, "file", "f", "", "file with one MAC address or host alias per line")
	cmd.Flags().StringArrayVarP(&networks, "net", "n", nil, "IP[/PREFIX] of the interface to broadcast on (repeatable)")
	cmd.Flags().IntVarP(&port, "port", "p", config.DefaultPort, "UDP destination port")

	// Registering the version flag ourselves gives it the -V shorthand.
	cmd.Flags().BoolP("version", "V", false, "print version and exit")

	return cmd
}

func setupLogging() {
	// Set output format. Logs go to stderr so stdout stays parseable.
	if jsonOutput {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
		output.FormatLevel = func(i interface{}) string {
			if s, ok := i.(string); ok {
				return strings.ToUpper(s)
			}
			return ""
		}
		log.Logger = zerolog.New(output).With().Timestamp().Logger()
	}

	// Set log level
	switch {
	case quiet:
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case verbose:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
