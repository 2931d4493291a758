package mavconn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultSerialBaud = 57600
	defaultBindPort   = "14555"
	defaultRemotePort = "14550"
	defaultTCPPort    = "5760"

	defaultDialTimeout = 10 * time.Second
)

// OpenURL opens a link described by a connection URL and starts a
// channel over it. Supported forms:
//
//	serial:///dev/ttyACM0:57600
//	udp://:14555@192.168.1.12:14550
//	udp://@            (listen, learn the remote from the first sender)
//	tcp://192.168.1.12:5760
//	tcp-l://0.0.0.0:5760
//
// The udp user info part is the bind address. A trailing ?ids=sys,comp
// query overrides the channel identity. Omitted ports fall back to the
// usual MAVLink ports, omitted serial baud rate to 57600.
func OpenURL(rawurl string, opts ...Option) (Channel, error) {
	cfg, err := parseConnURL(rawurl)
	if err != nil {
		return nil, err
	}
	medium, err := cfg.open()
	if err != nil {
		return nil, err
	}
	if cfg.ids != nil {
		opts = append(opts, WithIdentity(*cfg.ids))
	}
	return NewChannel(medium, opts...), nil
}

type connURL struct {
	scheme string
	device string
	baud   int
	local  string
	remote string
	ids    *Identity
}

func (u *connURL) open() (Medium, error) {
	switch u.scheme {
	case "serial":
		return DialSerial(u.device, u.baud)
	case "udp":
		if u.remote == "" {
			return ListenUDP(u.local)
		}
		return DialUDP(u.local, u.remote)
	case "tcp":
		return DialTCP(u.remote, defaultDialTimeout)
	default:
		return ListenTCP(u.local)
	}
}

func parseConnURL(rawurl string) (*connURL, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, err
	}

	out := &connURL{scheme: u.Scheme}
	switch u.Scheme {
	case "serial":
		device := u.Path
		if device == "" {
			device = u.Opaque
		}
		if device == "" {
			return nil, fmt.Errorf("url %q: missing serial device path", rawurl)
		}
		out.device = device
		out.baud = defaultSerialBaud
		if i := strings.LastIndexByte(device, ':'); i > 0 {
			baud, err := strconv.Atoi(device[i+1:])
			if err != nil {
				return nil, fmt.Errorf("url %q: bad baud rate %q",
					rawurl, device[i+1:])
			}
			out.device = device[:i]
			out.baud = baud
		}
	case "udp":
		bind := ""
		if u.User != nil {
			bind = u.User.String()
		}
		out.local = ensurePort(bind, defaultBindPort)
		if u.Host != "" {
			out.remote = ensurePort(u.Host, defaultRemotePort)
		}
	case "tcp":
		out.remote = ensurePort(u.Host, defaultTCPPort)
	case "tcp-l":
		out.local = ensurePort(u.Host, defaultTCPPort)
	default:
		return nil, fmt.Errorf("url %q: unsupported scheme %q", rawurl, u.Scheme)
	}

	ids, err := parseIDs(u.Query())
	if err != nil {
		return nil, fmt.Errorf("url %q: %v", rawurl, err)
	}
	out.ids = ids
	return out, nil
}

// ensurePort appends the default port when addr has none. addr may be
// empty, a bare host, a bracketed IPv6 host or a full host:port.
func ensurePort(addr, defaultPort string) string {
	if addr == "" {
		return ":" + defaultPort
	}
	if _, _, err := net.SplitHostPort(addr); err == nil {
		return addr
	}
	host := strings.TrimPrefix(strings.TrimSuffix(addr, "]"), "[")
	return net.JoinHostPort(host, defaultPort)
}

func parseIDs(query url.Values) (*Identity, error) {
	raw := query.Get("ids")
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("bad ids %q, expect sysid,compid", raw)
	}
	sys, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 8)
	if err != nil {
		return nil, fmt.Errorf("bad system id %q", parts[0])
	}
	comp, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 8)
	if err != nil {
		return nil, fmt.Errorf("bad component id %q", parts[1])
	}
	return &Identity{SystemID: uint8(sys), ComponentID: uint8(comp)}, nil
}
