// Package rtnet wraps the runtime's network primitives: raw TCP/UDP
// sockets plus a WebSocket transport, every handle closeable exactly
// once with a -1 descriptor sentinel after close.
//
// Every handle type uses the same idempotent close-with-sentinel
// pattern (a mutex-guarded handle whose Close sets fd to Closed and is
// safe to call again) plus a
// gorilla/websocket-backed upgrade/dial for the WebSocket transport;
// OS-boundary failures are wrapped with github.com/pkg/errors the same
// way rtproc and rtpath do.
package rtnet

import (
	"io"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

// Closed is the descriptor sentinel every handle adopts after Close.
const Closed = -1

// TCPListener accepts inbound TCP connections.
type TCPListener struct {
	mu sync.Mutex
	ln net.Listener
	fd int
}

// ListenTCP binds addr and returns a listener.
func ListenTCP(addr string) (*TCPListener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "rtnet: listen tcp %s", addr)
	}
	return &TCPListener{ln: ln, fd: 0}, nil
}

// Accept blocks until a connection arrives.
func (l *TCPListener) Accept() (*TCPConn, error) {
	l.mu.Lock()
	if l.fd == Closed {
		l.mu.Unlock()
		return nil, errors.New("rtnet: accept on closed listener")
	}
	ln := l.ln
	l.mu.Unlock()

	conn, err := ln.Accept()
	if err != nil {
		return nil, errors.Wrap(err, "rtnet: accept")
	}
	return &TCPConn{conn: conn}, nil
}

// Close is idempotent: the first call closes the underlying listener
// and sets the descriptor to -1; later calls are no-ops.
func (l *TCPListener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fd == Closed {
		return nil
	}
	l.fd = Closed
	return errors.Wrap(l.ln.Close(), "rtnet: close listener")
}

// TCPConn is one accepted or dialed TCP connection.
type TCPConn struct {
	mu   sync.Mutex
	conn net.Conn
	fd   int
}

// DialTCP connects to addr.
func DialTCP(addr string) (*TCPConn, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "rtnet: dial tcp %s", addr)
	}
	return &TCPConn{conn: conn}, nil
}

// Read reads into buf.
func (c *TCPConn) Read(buf []byte) (int, error) {
	n, err := c.conn.Read(buf)
	if err != nil {
		return n, errors.Wrap(err, "rtnet: read")
	}
	return n, nil
}

// ReadAll reads until EOF or the peer closes the connection.
func (c *TCPConn) ReadAll() ([]byte, error) {
	var out []byte
	buf := make([]byte, 4096)
	for {
		n, err := c.conn.Read(buf)
		out = append(out, buf[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, errors.Wrap(err, "rtnet: read_all")
		}
	}
}

// Write writes buf, returning the number of bytes written.
func (c *TCPConn) Write(buf []byte) (int, error) {
	n, err := c.conn.Write(buf)
	if err != nil {
		return n, errors.Wrap(err, "rtnet: write")
	}
	return n, nil
}

// WriteLine writes s followed by a newline.
func (c *TCPConn) WriteLine(s string) error {
	_, err := c.Write([]byte(s + "\n"))
	return err
}

// Close is idempotent.
func (c *TCPConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fd == Closed {
		return nil
	}
	c.fd = Closed
	return errors.Wrap(c.conn.Close(), "rtnet: close conn")
}

// UDPSocket is a connectionless datagram socket.
type UDPSocket struct {
	mu   sync.Mutex
	conn *net.UDPConn
	fd   int
}

// ListenUDP binds addr for receiving datagrams.
func ListenUDP(addr string) (*UDPSocket, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "rtnet: resolve udp %s", addr)
	}
	conn, err := net.ListenUDP("udp", udpAddr)
	if err != nil {
		return nil, errors.Wrapf(err, "rtnet: listen udp %s", addr)
	}
	return &UDPSocket{conn: conn}, nil
}

// ReceiveFrom blocks for one datagram, returning its payload and
// sender address.
func (s *UDPSocket) ReceiveFrom(bufSize int) ([]byte, string, error) {
	buf := make([]byte, bufSize)
	n, addr, err := s.conn.ReadFromUDP(buf)
	if err != nil {
		return nil, "", errors.Wrap(err, "rtnet: receive_from")
	}
	return buf[:n], addr.String(), nil
}

// WriteTo sends data to addr.
func (s *UDPSocket) WriteTo(data []byte, addr string) (int, error) {
	udpAddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return 0, errors.Wrapf(err, "rtnet: resolve udp %s", addr)
	}
	n, err := s.conn.WriteToUDP(data, udpAddr)
	if err != nil {
		return n, errors.Wrap(err, "rtnet: write_to")
	}
	return n, nil
}

// Close is idempotent.
func (s *UDPSocket) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fd == Closed {
		return nil
	}
	s.fd = Closed
	return errors.Wrap(s.conn.Close(), "rtnet: close udp socket")
}

// WSConn is a WebSocket connection, dialed or accepted, extending
// "network primitives" with the gorilla/websocket transport this
// runtime already depends on.
type WSConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
	fd   int
}

// DialWebSocket connects to a ws:// or wss:// URL.
func DialWebSocket(url string) (*WSConn, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "rtnet: dial websocket %s", url)
	}
	return &WSConn{conn: conn}, nil
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// WSListener accepts inbound WebSocket connections over a plain HTTP
// server, handing each upgraded connection to recv.
type WSListener struct {
	mu sync.Mutex
	ln net.Listener
	fd int
}

// ListenWebSocket binds addr and upgrades every inbound HTTP request on
// path to a WebSocket, delivering each accepted connection to recv.
func ListenWebSocket(addr, path string, recv func(*WSConn)) (*WSListener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "rtnet: listen websocket %s", addr)
	}
	mux := http.NewServeMux()
	mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		recv(&WSConn{conn: conn})
	})
	go http.Serve(ln, mux)
	return &WSListener{ln: ln}, nil
}

// Close is idempotent.
func (l *WSListener) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fd == Closed {
		return nil
	}
	l.fd = Closed
	return errors.Wrap(l.ln.Close(), "rtnet: close websocket listener")
}

// ReadMessage blocks for the next text/binary frame.
func (w *WSConn) ReadMessage() ([]byte, error) {
	_, data, err := w.conn.ReadMessage()
	if err != nil {
		return nil, errors.Wrap(err, "rtnet: websocket read")
	}
	return data, nil
}

// WriteMessage sends a text frame.
func (w *WSConn) WriteMessage(data []byte) error {
	if err := w.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return errors.Wrap(err, "rtnet: websocket write")
	}
	return nil
}

// Close is idempotent.
func (w *WSConn) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fd == Closed {
		return nil
	}
	w.fd = Closed
	return errors.Wrap(w.conn.Close(), "rtnet: close websocket")
}
