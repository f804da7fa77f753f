//go:build windows

package dnsbench

import (
	"net"
	"os/exec"
	"regexp"
)

const defaultNameServer = "127.0.0.1"

var nslookupServerRegex = regexp.MustCompile(`Address:\s+([^\s]+)`)

// DefaultNameServer fetches default system name server address based on the nslookup call.
func DefaultNameServer() string {
	out, err := exec.Command("nslookup").Output()
	if err != nil {
		return defaultNameServer
	}

	matches := nslookupServerRegex.FindStringSubmatch(string(out))
	if len(matches) != 2 || net.ParseIP(matches[1]) == nil {
		return defaultNameServer
	}
	return matches[1]
}
