// Package config provides configuration and target file parsing.
package config

import (
	"fmt"
	"strings"

	"github.com/fgeck/gowol-homelab/internal/models"
	"github.com/fgeck/gowol-homelab/internal/wol"
	"github.com/spf13/viper"
)

// DefaultPort is the conventional Wake-on-LAN destination port (discard).
const DefaultPort = 9

// ValidatePort checks that a UDP destination port is usable.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// Parser handles configuration file parsing.
type Parser struct {
	v *viper.Viper
}

// NewParser creates a new configuration parser.
func NewParser() *Parser {
	v := viper.New()
	v.SetConfigType("yaml")
	return &Parser{v: v}
}

// LoadFile loads configuration from a file path.
func (p *Parser) LoadFile(path string) (*models.Config, error) {
	p.v.SetConfigFile(path)

	if err := p.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return p.parse()
}

// LoadReader loads configuration from a string (useful for testing).
func (p *Parser) LoadReader(content string) (*models.Config, error) {
	if err := p.v.ReadConfig(strings.NewReader(content)); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	return p.parse()
}

func (p *Parser) parse() (*models.Config, error) {
	cfg := &models.Config{
		Port:     p.v.GetInt("port"),
		Networks: p.v.GetStringSlice("networks"),
		Hosts:    p.v.GetStringMapString("hosts"),
	}

	// Set default port if not specified.
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if err := ValidatePort(cfg.Port); err != nil {
		return nil, err
	}

	// Every alias must map to a parseable MAC address; failing fast here
	// beats failing halfway through a wake run.
	for name, mac := range cfg.Hosts {
		if _, err := wol.ParseMAC(mac); err != nil {
			return nil, fmt.Errorf("host %q: %w", name, err)
		}
	}

	return cfg, nil
}
