package smtp

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"mailprobe/internal/proxy"
)

// fakeSMTPServer is a minimal scripted SMTP server: it accepts one
// connection, sends a 220 banner, replies 250 to EHLO/HELO/MAIL FROM, and
// replies with rcptCode/rcptMsg to every RCPT TO.
func fakeSMTPServer(t *testing.T, rcptCode int, rcptMsg string) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		fmt.Fprintf(conn, "220 fake.example.com ready\r\n")
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			switch {
			case hasPrefixFold(line, "EHLO"), hasPrefixFold(line, "HELO"):
				fmt.Fprintf(conn, "250 fake.example.com\r\n")
			case hasPrefixFold(line, "MAIL FROM"):
				fmt.Fprintf(conn, "250 2.1.0 OK\r\n")
			case hasPrefixFold(line, "RCPT TO"):
				fmt.Fprintf(conn, "%d %s\r\n", rcptCode, rcptMsg)
			case hasPrefixFold(line, "QUIT"):
				fmt.Fprintf(conn, "221 bye\r\n")
				return
			default:
				fmt.Fprintf(conn, "500 unrecognized\r\n")
			}
		}
	}()
	t.Cleanup(func() { ln.Close() })
	return ln.Addr().String()
}

func hasPrefixFold(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	for i := 0; i < len(prefix); i++ {
		a, b := s[i], prefix[i]
		if a >= 'a' && a <= 'z' {
			a -= 'a' - 'A'
		}
		if b >= 'a' && b <= 'z' {
			b -= 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}

func TestProbeDeliverable(t *testing.T) {
	addr := fakeSMTPServer(t, 250, "2.1.5 OK")
	host, port := splitHostPortT(t, addr)

	cfg := Config{Port: port, HelloName: "test.local", Retries: 0}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	details, _, err := Probe(ctx, host, "user@example.com", "example.com", cfg, proxy.Table{}, nil)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if !details.IsDeliverable || !details.CanConnectSMTP {
		t.Errorf("Probe() = %+v, want IsDeliverable and CanConnectSMTP", details)
	}
}

func TestProbeNotDeliverable(t *testing.T) {
	addr := fakeSMTPServer(t, 550, "5.1.1 user unknown")
	host, port := splitHostPortT(t, addr)

	cfg := Config{Port: port, HelloName: "test.local", Retries: 0}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	details, _, err := Probe(ctx, host, "ghost@example.com", "example.com", cfg, proxy.Table{}, nil)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if details.IsDeliverable {
		t.Error("expected IsDeliverable = false for 550 user unknown")
	}
	if !details.CanConnectSMTP {
		t.Error("expected CanConnectSMTP = true: the conversation completed cleanly")
	}
}

func TestProbeUnknownProxyID(t *testing.T) {
	cfg := Config{ProxyID: "missing"}
	ctx := context.Background()

	_, _, err := Probe(ctx, "mx.example.com", "user@example.com", "example.com", cfg, proxy.Table{}, nil)
	if err == nil {
		t.Fatal("expected an error for an unresolvable proxy id")
	}
	if _, ok := err.(*UnexpectedError); !ok {
		t.Errorf("Probe() error = %T, want *UnexpectedError", err)
	}
}

func splitHostPortT(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	var port int
	if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return host, port
}
