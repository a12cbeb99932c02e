package app

import (
	"fmt"
	"net"
	"strings"

	"github.com/five82/loopback/internal/config"
)

// NetInfoLines formats the board's network identity, one field per line.
func NetInfoLines(n config.Network) []string {
	mac := n.MAC
	if hw, err := net.ParseMAC(n.MAC); err == nil {
		mac = strings.ToUpper(hw.String())
	}
	fields := []struct{ name, value string }{
		{"MAC", mac},
		{"IP", n.IP},
		{"Subnet Mask", n.Subnet},
		{"Gateway", n.Gateway},
		{"DNS", n.DNS},
		{"Listen", n.Listen},
	}
	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%-11s : %s", f.name, f.value))
	}
	return lines
}
