package dnsbench

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/miekg/dns"
	"github.com/quic-go/quic-go"
)

type doqHandler func(req *dns.Msg) *dns.Msg

// doqServer is a DoQ test DNS server.
type doqServer struct {
	addr     string
	listener *quic.Listener
	closed   atomic.Bool
	handler  doqHandler
}

func newDoQServer(f doqHandler) *doqServer {
	server := doqServer{handler: f}
	return &server
}

func (d *doqServer) start() {
	listener, err := quic.ListenAddr("127.0.0.1:0", generateTLSConfig("doq"), nil)
	if err != nil {
		panic(err)
	}
	d.listener = listener
	d.addr = listener.Addr().String()
	go func() {
		for {
			conn, err := listener.Accept(context.Background())
			if err != nil {
				if !d.closed.Load() {
					panic(err)
				}
				return
			}

			go func() {
				for {
					stream, err := conn.AcceptStream(context.Background())
					if err != nil {
						return
					}

					req, err := readDOQMessage(stream)
					if err != nil {
						return
					}

					resp := d.handler(req)
					if resp == nil {
						// this should cause timeout
						continue
					}
					pack, err := resp.Pack()
					if err != nil {
						return
					}
					packWithPrefix := make([]byte, 2+len(pack))
					// nolint:gosec
					binary.BigEndian.PutUint16(packWithPrefix, uint16(len(pack)))
					copy(packWithPrefix[2:], pack)
					_, _ = stream.Write(packWithPrefix)
					_ = stream.Close()
				}
			}()
		}
	}()
}

func (d *doqServer) stop() {
	if !d.closed.Swap(true) {
		_ = d.listener.Close()
	}
}

func readDOQMessage(r io.Reader) (*dns.Msg, error) {
	// DoQ messages are prefixed with 2-octet length field, see RFC 9250 section 4.2
	sizeBuf := make([]byte, 2)
	if _, err := io.ReadFull(r, sizeBuf); err != nil {
		return nil, err
	}

	size := binary.BigEndian.Uint16(sizeBuf)
	if size == 0 {
		return nil, fmt.Errorf("message size is 0: probably unsupported DoQ version")
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}

	msg := &dns.Msg{}
	err := msg.Unpack(buf)
	return msg, err
}
