// Package netif resolves the local network interfaces eligible for
// Wake-on-LAN broadcasts.
package netif

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/fgeck/gowol-homelab/internal/models"
	"github.com/rs/zerolog"
)

// ErrInterfaceNotFound is returned when an interface selector matches no
// local interface, or when no interface is eligible at all.
var ErrInterfaceNotFound = errors.New("no matching network interface")

// maxPrefixLen excludes /31 and /32 networks, which have no usable
// broadcast address.
const maxPrefixLen = 30

// Service defines the interface for interface resolution.
type Service interface {
	ResolveAll() ([]models.NetworkInterface, error)
	Resolve(selector string) (*models.NetworkInterface, error)
}

// Iface is one OS-level interface as seen by a Source.
type Iface struct {
	Name  string
	Flags net.Flags
	Addrs []net.Addr
}

// Source enumerates OS network interfaces, wrapped for mocking.
type Source interface {
	Interfaces() ([]Iface, error)
}

// DefaultSource queries the operating system.
type DefaultSource struct{}

// Interfaces returns all OS interfaces with their addresses.
func (s *DefaultSource) Interfaces() ([]Iface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("listing interfaces: %w", err)
	}

	result := make([]Iface, 0, len(ifaces))
	for i := range ifaces {
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			// An interface can disappear between the two calls; skip it.
			continue
		}
		result = append(result, Iface{
			Name:  ifaces[i].Name,
			Flags: ifaces[i].Flags,
			Addrs: addrs,
		})
	}

	return result, nil
}

// Impl implements the netif Service interface.
type Impl struct {
	source Source
	logger zerolog.Logger
}

// New creates a new interface resolver.
func New(logger zerolog.Logger) *Impl {
	return &Impl{
		source: &DefaultSource{},
		logger: logger,
	}
}

// NewWithSource creates a new interface resolver with a custom source (for testing).
func NewWithSource(logger zerolog.Logger, source Source) *Impl {
	return &Impl{
		source: source,
		logger: logger,
	}
}

// ResolveAll returns every eligible broadcast address: one entry per IPv4
// subnet on an interface that is up, not loopback, not point-to-point and
// broadcast-capable. A multi-homed interface contributes one entry per
// subnet.
func (s *Impl) ResolveAll() ([]models.NetworkInterface, error) {
	ifaces, err := s.source.Interfaces()
	if err != nil {
		return nil, err
	}

	var eligible []models.NetworkInterface
	for _, ifc := range ifaces {
		addrs := eligibleAddresses(ifc)
		if len(addrs) == 0 {
			s.logger.Debug().Str("interface", ifc.Name).Msg("skipping interface")
			continue
		}

		for _, ni := range addrs {
			s.logger.Debug().
				Str("interface", ni.Name).
				Str("address", ni.IP.String()).
				Str("broadcast", ni.Broadcast.String()).
				Msg("interface eligible")
			eligible = append(eligible, ni)
		}
	}

	if len(eligible) == 0 {
		return nil, fmt.Errorf("no broadcast-capable IPv4 interface: %w", ErrInterfaceNotFound)
	}

	return eligible, nil
}

// Resolve matches an IP[/PREFIX] selector against the local interface
// configuration. With an explicit prefix the broadcast address derives
// from the given network, otherwise from the matched interface's own mask.
func (s *Impl) Resolve(selector string) (*models.NetworkInterface, error) {
	ip, prefix, err := parseSelector(selector)
	if err != nil {
		return nil, err
	}

	eligible, err := s.ResolveAll()
	if err != nil {
		return nil, err
	}

	// An interface owning exactly this address wins.
	for i := range eligible {
		if eligible[i].IP.Equal(ip) {
			ni := eligible[i]
			if prefix != nil {
				ni.Network = prefix
				ni.Broadcast = broadcastAddr(ip, prefix.Mask)
			}
			return &ni, nil
		}
	}

	// With a prefix, an interface inside the given network matches too.
	if prefix != nil {
		for i := range eligible {
			if prefix.Contains(eligible[i].IP) {
				ni := eligible[i]
				ni.Network = prefix
				ni.Broadcast = broadcastAddr(ip, prefix.Mask)
				return &ni, nil
			}
		}
	}

	return nil, fmt.Errorf("%q matches no local interface: %w", selector, ErrInterfaceNotFound)
}

func parseSelector(selector string) (net.IP, *net.IPNet, error) {
	if strings.Contains(selector, "/") {
		ip, network, err := net.ParseCIDR(selector)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid network %q: %w", selector, err)
		}
		ip4 := ip.To4()
		if ip4 == nil {
			return nil, nil, fmt.Errorf("invalid network %q: not an IPv4 address", selector)
		}
		// An IPv4-mapped selector arrives with a 16-byte network; the
		// broadcast math needs the 4-byte form.
		mask := normalizeMask(network.Mask)
		netIP := network.IP.To4()
		if mask == nil || netIP == nil {
			return nil, nil, fmt.Errorf("invalid network %q: not an IPv4 network", selector)
		}
		return ip4, &net.IPNet{IP: netIP, Mask: mask}, nil
	}

	ip := net.ParseIP(selector)
	if ip == nil || ip.To4() == nil {
		return nil, nil, fmt.Errorf("invalid address %q: not an IPv4 address", selector)
	}

	return ip.To4(), nil, nil
}

func eligibleAddresses(ifc Iface) []models.NetworkInterface {
	const required = net.FlagUp | net.FlagBroadcast

	if ifc.Flags&required != required {
		return nil
	}
	if ifc.Flags&(net.FlagLoopback|net.FlagPointToPoint) != 0 {
		return nil
	}

	var addrs []models.NetworkInterface
	for _, addr := range ifc.Addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ip4 := ipNet.IP.To4()
		if ip4 == nil {
			continue
		}
		mask := normalizeMask(ipNet.Mask)
		if mask == nil {
			continue
		}
		if ones, _ := mask.Size(); ones > maxPrefixLen {
			continue
		}

		addrs = append(addrs, models.NetworkInterface{
			Name:      ifc.Name,
			IP:        ip4,
			Network:   &net.IPNet{IP: ip4.Mask(mask), Mask: mask},
			Broadcast: broadcastAddr(ip4, mask),
		})
	}

	return addrs
}

// normalizeMask reduces a 16-byte mask attached to an IPv4 address to its
// 4-byte form.
func normalizeMask(mask net.IPMask) net.IPMask {
	switch len(mask) {
	case net.IPv4len:
		return mask
	case net.IPv6len:
		return mask[12:]
	default:
		return nil
	}
}

// broadcastAddr computes the subnet broadcast address: every host bit set.
func broadcastAddr(ip net.IP, mask net.IPMask) net.IP {
	ip4 := ip.To4()
	bcast := make(net.IP, net.IPv4len)
	for i := range bcast {
		bcast[i] = ip4[i] | ^mask[i]
	}

	return bcast
}
