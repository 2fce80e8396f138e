package server

import (
	"log/slog"
	"net"
	"os"
	"sort"
	"strings"

	"github.com/hashicorp/mdns"

	"github.com/tragdev/trag/internal/version"
)

// startMDNSAdvertiser announces the dashboard as _trag._tcp on the given
// port so other machines on the LAN can find it without knowing the host.
// Returns a stop function; a no-op one when advertising is off or fails.
func startMDNSAdvertiser(port int) func() {
	if strings.TrimSpace(envOrDefault("TRAG_MDNS_ENABLE", "true")) == "false" {
		return func() {}
	}

	host, _ := os.Hostname()
	if strings.TrimSpace(host) == "" {
		host = "trag"
	}
	instance := strings.TrimSpace(envOrDefault("TRAG_MDNS_INSTANCE", "trag-"+host))
	if instance == "" {
		instance = "trag"
	}

	meta := []string{
		"name=trag",
		"api_version=1",
		"version=" + version.Current(),
	}
	ips := advertisableIPs(localAddrs())
	service, err := mdns.NewMDNSService(instance, "_trag._tcp", "", "", port, ips, meta)
	if err != nil {
		slog.Error("mdns advertise service setup failed", "error", err)
		return func() {}
	}
	srv, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		slog.Error("mdns advertise start failed", "error", err)
		return func() {}
	}
	slog.Info("mdns advertising enabled", "service", "_trag._tcp", "instance", instance, "port", port)

	return func() {
		_ = srv.Shutdown()
	}
}

func localAddrs() []net.Addr {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return nil
	}
	return addrs
}

// advertisableIPs picks the addresses worth announcing: no loopback, no
// link-local, no duplicates. IPv4 addresses come first since most mdns
// resolvers on a flat LAN prefer an A record.
func advertisableIPs(addrs []net.Addr) []net.IP {
	var v4, v6 []net.IP
	seen := map[string]bool{}

	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet == nil || ipNet.IP == nil {
			continue
		}
		ip := ipNet.IP
		if ip.IsLoopback() || ip.IsUnspecified() ||
			ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
			continue
		}
		key := ip.String()
		if seen[key] {
			continue
		}
		seen[key] = true
		if ip.To4() != nil {
			v4 = append(v4, ip)
		} else {
			v6 = append(v6, ip)
		}
	}

	sortIPs(v4)
	sortIPs(v6)
	return append(v4, v6...)
}

func sortIPs(ips []net.IP) {
	sort.Slice(ips, func(i, j int) bool {
		return ips[i].String() < ips[j].String()
	})
}
