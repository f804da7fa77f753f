//go:build unix

package dnsbench

import (
	"bufio"
	"net"
	"os"
	"strings"
)

const defaultNameServer = "127.0.0.1"

// DefaultNameServer fetches the first name server address configured in /etc/resolv.conf.
// If it fails, it returns 127.0.0.1 as default.
func DefaultNameServer() string {
	file, err := os.Open("/etc/resolv.conf")
	if err != nil {
		return defaultNameServer
	}
	defer func() {
		_ = file.Close()
	}()
	return parseResolvConf(bufio.NewScanner(file))
}

func parseResolvConf(scanner *bufio.Scanner) string {
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || line[0] == ';' || line[0] == '#' {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 || fields[0] != "nameserver" {
			continue
		}
		// zone suffix of link-local IPv6 addresses is not usable as provider address
		addr, _, _ := strings.Cut(fields[1], "%")
		if net.ParseIP(addr) != nil {
			return addr
		}
	}

	return defaultNameServer
}
