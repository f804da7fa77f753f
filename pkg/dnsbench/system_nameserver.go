//go:build !(unix || windows)

package dnsbench

// DefaultNameServer returns loopback, system name server discovery is not supported on this platform.
func DefaultNameServer() string {
	return "127.0.0.1"
}
