package ping

import (
	"fmt"
	"net"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// payloadSize is the ICMP echo payload length in bytes.
const payloadSize = 56

// Client is a per-target ICMP session. The underlying raw socket is opened
// once and reused across probes; the worker discards and rebuilds the client
// after repeated network-class errors.
type Client struct {
	conn      *icmp.PacketConn
	proto     int
	reqType   icmp.Type
	replyType icmp.Type
}

// NewClient opens an ICMP session for the given address family.
func NewClient(addr net.IP) (*Client, error) {
	network, proto, reqType, replyType := icmpSettings(addr)
	conn, err := icmp.ListenPacket(network, "")
	if err != nil {
		return nil, fmt.Errorf("open icmp socket: %w", err)
	}
	return &Client{
		conn:      conn,
		proto:     proto,
		reqType:   reqType,
		replyType: replyType,
	}, nil
}

// Close releases the underlying socket.
func (c *Client) Close() {
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

// Probe sends one echo request and waits for the matching reply. A reply
// arriving after the deadline counts as a timeout, not a success.
func (c *Client) Probe(addr net.IP, id, seq int, timeout time.Duration) Outcome {
	msg := icmp.Message{
		Type: c.reqType,
		Code: 0,
		Body: &icmp.Echo{
			ID:   id,
			Seq:  seq,
			Data: make([]byte, payloadSize),
		},
	}

	payload, err := msg.Marshal(nil)
	if err != nil {
		return Failure(fmt.Sprintf("marshal echo: %v", err))
	}

	if err := c.conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		return Failure(fmt.Sprintf("set deadline: %v", err))
	}

	start := time.Now()
	if _, err := c.conn.WriteTo(payload, &net.IPAddr{IP: addr}); err != nil {
		return Failure(err.Error())
	}

	buf := make([]byte, 1500)
	for {
		n, peer, err := c.conn.ReadFrom(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return Timeout()
			}
			return Failure(err.Error())
		}
		if peer == nil {
			continue
		}

		reply, err := icmp.ParseMessage(c.proto, buf[:n])
		if err != nil {
			continue
		}
		if reply.Type != c.replyType {
			continue
		}
		body, ok := reply.Body.(*icmp.Echo)
		if !ok {
			continue
		}
		// Identifiers are randomized per attempt, so stale replies from a
		// previous probe or another process fail this match and are skipped.
		if body.ID != id || body.Seq != seq {
			continue
		}

		return Success(time.Since(start))
	}
}

func icmpSettings(ip net.IP) (network string, proto int, reqType, replyType icmp.Type) {
	if ip.To4() != nil {
		return "ip4:icmp", ipv4.ICMPTypeEcho.Protocol(), ipv4.ICMPTypeEcho, ipv4.ICMPTypeEchoReply
	}
	return "ip6:ipv6-icmp", ipv6.ICMPTypeEchoRequest.Protocol(), ipv6.ICMPTypeEchoRequest, ipv6.ICMPTypeEchoReply
}
