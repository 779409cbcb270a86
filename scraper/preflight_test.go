package scraper

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestPreflightCheck_SlowHostIsInconclusive(t *testing.T) {
	// Host is alive but slower to first byte than the probe budget. The
	// navigation tiers tolerate exactly this, so the probe must not veto it.
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
	}))
	defer ts.Close()

	probe := newPreflightProbe(50 * time.Millisecond)
	if err := probe.check(context.Background(), ts.URL); err != nil {
		t.Errorf("slow-but-alive host must not fail the probe, got %v", err)
	}
}

func TestPreflightCheck_FastHostPasses(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden) // HTTP errors are not failures
	}))
	defer ts.Close()

	probe := newPreflightProbe(2 * time.Second)
	if err := probe.check(context.Background(), ts.URL); err != nil {
		t.Errorf("reachable host must pass even on an HTTP error status, got %v", err)
	}
}

func TestPreflightCheck_RefusedConnectionFailsFast(t *testing.T) {
	// Grab a port the OS just proved free, then close it so the dial is
	// actively refused.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	probe := newPreflightProbe(2 * time.Second)
	if err := probe.check(context.Background(), "http://"+addr); err == nil {
		t.Error("refused connection should fail the probe")
	}
}

func TestIsHardNetworkError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			"dns failure",
			&net.DNSError{Err: "no such host", Name: "nxdomain.invalid", IsNotFound: true},
			true,
		},
		{
			"connection refused",
			&net.OpError{Op: "dial", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)},
			true,
		},
		{
			"tls handshake rejected",
			&tlsHandshakeError{err: errors.New("remote error: tls: handshake failure")},
			true,
		},
		{"probe deadline", context.DeadlineExceeded, false},
		{"canceled", context.Canceled, false},
		{"ambiguous transport fault", errors.New("connection reset mid-body"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isHardNetworkError(tt.err); got != tt.want {
				t.Errorf("isHardNetworkError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
