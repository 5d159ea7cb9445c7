package discovery

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/ipv4"

	"github.com/muurk/upnpctl/internal/logging"
	"github.com/muurk/upnpctl/internal/upnperr"
	"github.com/muurk/upnpctl/internal/version"
)

const (
	// DefaultTimeout is the default listening window
	DefaultTimeout = 3 * time.Second

	// DefaultRetransmit is how many times M-SEARCH is sent per interface.
	// UDP is lossy; UDA recommends sending more than once.
	DefaultRetransmit = 2

	// DefaultRetransmitInterval spaces the retransmissions
	DefaultRetransmitInterval = 100 * time.Millisecond

	// DefaultTTL is the multicast TTL recommended by UDA 1.1
	DefaultTTL = 2

	maxDatagramSize = 8192
)

var groupAddr = &net.UDPAddr{IP: net.IPv4(239, 255, 255, 250), Port: 1900}

// PacketConn is the subset of net.PacketConn discovery needs. Close must
// unblock a pending ReadFrom.
type PacketConn interface {
	ReadFrom(b []byte) (int, net.Addr, error)
	WriteTo(b []byte, addr net.Addr) (int, error)
	SetReadDeadline(t time.Time) error
	Close() error
}

// ListenFunc binds a socket for one interface
type ListenFunc func(ifi Interface) (PacketConn, error)

// InterfaceError reports a bind or send failure on one interface. Discovery
// carries on with the remaining interfaces.
type InterfaceError struct {
	Interface Interface
	Op        string // "bind" or "send"
	Err       error
}

// Error implements the error interface
func (e *InterfaceError) Error() string {
	return fmt.Sprintf("%s on %s: %v", e.Op, e.Interface, e.Err)
}

// Unwrap returns the underlying error
func (e *InterfaceError) Unwrap() error {
	return e.Err
}

// Engine sends SSDP searches and collects responses
type Engine struct {
	// Resolver supplies the interfaces to search from
	Resolver Resolver

	// Listen binds one socket per interface
	Listen ListenFunc

	// MX overrides the MX header (0 = derived from the timeout)
	MX int

	// Retransmit is how many times the search is sent per interface
	Retransmit int

	// RetransmitInterval spaces the retransmissions
	RetransmitInterval time.Duration

	// UserAgent is sent in the USER-AGENT header (empty = omitted)
	UserAgent string

	// Logger receives diagnostics (nil = global logger)
	Logger *zap.Logger
}

// NewEngine creates an engine that searches on every usable system interface
func NewEngine() *Engine {
	return &Engine{
		Resolver:           SystemResolver{},
		Listen:             ListenMulticast,
		Retransmit:         DefaultRetransmit,
		RetransmitInterval: DefaultRetransmitInterval,
		UserAgent:          version.UserAgent(),
	}
}

// ListenMulticast binds an ephemeral UDP port on the interface address and
// routes outgoing multicast through that interface.
func ListenMulticast(ifi Interface) (PacketConn, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: ifi.Addr, Port: 0})
	if err != nil {
		return nil, err
	}

	p := ipv4.NewPacketConn(conn)
	if ifi.Index > 0 {
		if netIfi, err := net.InterfaceByIndex(ifi.Index); err == nil {
			if err := p.SetMulticastInterface(netIfi); err != nil {
				_ = conn.Close()
				return nil, fmt.Errorf("set multicast interface: %w", err)
			}
		}
	}
	if err := p.SetMulticastTTL(DefaultTTL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("set multicast ttl: %w", err)
	}
	_ = p.SetMulticastLoopback(true)

	return conn, nil
}

// Discover searches for target and returns a Search that yields responses
// as they arrive until timeout elapses, ctx is cancelled or the Search is
// closed. Failures on individual interfaces are reported by
// Search.Failures; if no interface could be used, Discover returns a
// Transport error.
func (e *Engine) Discover(ctx context.Context, target string, timeout time.Duration) (*Search, error) {
	if target == "" {
		target = SearchAll
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := logging.Or(e.Logger)

	resolver := e.Resolver
	if resolver == nil {
		resolver = SystemResolver{}
	}
	listen := e.Listen
	if listen == nil {
		listen = ListenMulticast
	}

	ifaces, err := resolver.Interfaces()
	if err != nil {
		return nil, upnperr.NewTransportError("failed to enumerate interfaces", "", err)
	}
	if len(ifaces) == 0 {
		return nil, &upnperr.Error{Type: upnperr.ErrTypeTransport, Message: "no usable network interfaces"}
	}

	mx := e.MX
	if mx <= 0 {
		mx = mxFor(timeout)
	}
	payload := BuildSearch(target, mx, e.UserAgent)

	var (
		socks    []*socket
		failures []*InterfaceError
	)
	for _, ifi := range ifaces {
		conn, err := listen(ifi)
		if err != nil {
			failures = append(failures, &InterfaceError{Interface: ifi, Op: "bind", Err: err})
			log.Warn("SSDP bind failed", zap.String("interface", ifi.String()), zap.Error(err))
			continue
		}
		sock := &socket{ifi: ifi, conn: conn}
		if err := sock.send(log, payload); err != nil {
			_ = conn.Close()
			failures = append(failures, &InterfaceError{Interface: ifi, Op: "send", Err: err})
			log.Warn("SSDP send failed", zap.String("interface", ifi.String()), zap.Error(err))
			continue
		}
		socks = append(socks, sock)
	}

	if len(socks) == 0 {
		errs := make([]error, len(failures))
		for i, f := range failures {
			errs[i] = f
		}
		return nil, &upnperr.Error{
			Type:    upnperr.ErrTypeTransport,
			Message: "discovery failed on every interface",
			Err:     errors.Join(errs...),
		}
	}

	log.Info("SSDP search started",
		zap.String("st", target),
		zap.Int("mx", mx),
		zap.Duration("timeout", timeout),
		zap.Int("interfaces", len(socks)),
		zap.Int("failed_interfaces", len(failures)),
	)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	s := &Search{
		target:    target,
		responses: make(chan Response),
		failures:  failures,
		cancel:    cancel,
		done:      make(chan struct{}),
		log:       log,
	}

	for _, sock := range socks {
		s.wg.Add(1)
		go s.receive(ctx, sock)
	}

	retransmit := e.Retransmit
	interval := e.RetransmitInterval
	if interval <= 0 {
		interval = DefaultRetransmitInterval
	}
	if retransmit > 1 {
		s.wg.Add(1)
		go s.resend(ctx, socks, payload, retransmit-1, interval)
	}

	go func() {
		<-ctx.Done()
		for _, sock := range socks {
			_ = sock.conn.Close()
		}
		s.wg.Wait()
		close(s.responses)
		close(s.done)
		log.Debug("SSDP search finished", zap.String("st", target))
	}()

	return s, nil
}

type socket struct {
	ifi  Interface
	conn PacketConn
}

func (s *socket) send(log *zap.Logger, payload []byte) error {
	logging.LogSSDP(log, "sent", s.ifi.Name, MulticastAddr, payload)
	_, err := s.conn.WriteTo(payload, groupAddr)
	return err
}

// Search is one running discovery. Its responses form a finite sequence
// that cannot be restarted.
type Search struct {
	target    string
	responses chan Response
	failures  []*InterfaceError
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	done      chan struct{}
	log       *zap.Logger
}

// Responses returns the channel of responses in arrival order. It is
// closed when the search ends.
func (s *Search) Responses() <-chan Response {
	return s.responses
}

// All returns the responses as an iterator. Breaking out of the loop closes
// the search and releases its sockets.
func (s *Search) All() iter.Seq[Response] {
	return func(yield func(Response) bool) {
		defer s.Close()
		for r := range s.responses {
			if !yield(r) {
				return
			}
		}
	}
}

// Target returns the search target that was sent
func (s *Search) Target() string {
	return s.target
}

// Failures returns the interfaces that could not be bound or sent on
func (s *Search) Failures() []*InterfaceError {
	return slices.Clone(s.failures)
}

// Done is closed once every socket has been released
func (s *Search) Done() <-chan struct{} {
	return s.done
}

// Close stops the search and waits until every socket is released. It is
// safe to call more than once.
func (s *Search) Close() {
	s.cancel()
	<-s.done
}

func (s *Search) receive(ctx context.Context, sock *socket) {
	defer s.wg.Done()

	if deadline, ok := ctx.Deadline(); ok {
		_ = sock.conn.SetReadDeadline(deadline)
	}

	buf := make([]byte, maxDatagramSize)
	for {
		n, from, err := sock.conn.ReadFrom(buf)
		if err != nil {
			if ctx.Err() == nil {
				var ne net.Error
				if !errors.As(err, &ne) || !ne.Timeout() {
					s.log.Warn("SSDP receive failed", zap.String("interface", sock.ifi.String()), zap.Error(err))
				}
			}
			return
		}

		var remote string
		if from != nil {
			remote = from.String()
		}
		logging.LogSSDP(s.log, "received", sock.ifi.Name, remote, buf[:n])

		resp, err := ParseMessage(buf[:n])
		if err != nil {
			s.log.Debug("SSDP datagram dropped",
				zap.String("interface", sock.ifi.String()),
				zap.String("remote_addr", remote),
				zap.Error(err),
			)
			continue
		}
		resp.Interface = sock.ifi.Name
		resp.From = from
		resp.ReceivedAt = time.Now()

		select {
		case s.responses <- resp:
		case <-ctx.Done():
			return
		}
	}
}

func (s *Search) resend(ctx context.Context, socks []*socket, payload []byte, count int, interval time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for i := 0; i < count; i++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		for _, sock := range socks {
			if err := sock.send(s.log, payload); err != nil && ctx.Err() == nil {
				s.log.Debug("SSDP retransmit failed", zap.String("interface", sock.ifi.String()), zap.Error(err))
			}
		}
	}
}
