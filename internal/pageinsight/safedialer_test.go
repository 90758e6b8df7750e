package pageinsight

import (
	"errors"
	"net/netip"
	"testing"
	"time"
)

func TestPublicAddress(t *testing.T) {
	tests := []struct {
		ip     string
		public bool
	}{
		{ip: "127.0.0.1"},
		{ip: "::1"},
		{ip: "10.0.0.1"},
		{ip: "172.16.0.1"},
		{ip: "192.168.1.1"},
		{ip: "169.254.169.254"},
		{ip: "fe80::1"},
		{ip: "100.64.0.1"},
		{ip: "100.127.255.254"},
		{ip: "192.0.0.1"},
		{ip: "192.0.2.1"},
		{ip: "198.18.0.1"},
		{ip: "198.19.255.254"},
		{ip: "198.51.100.1"},
		{ip: "203.0.113.1"},
		{ip: "0.0.0.0"},
		{ip: "::"},
		{ip: "::ffff:127.0.0.1"},
		{ip: "::ffff:10.0.0.1"},
		{ip: "::ffff:8.8.8.8", public: true},
		{ip: "8.8.8.8", public: true},
		{ip: "1.1.1.1", public: true},
		{ip: "100.63.255.255", public: true},
		{ip: "100.128.0.1", public: true},
		{ip: "2606:4700:4700::1111", public: true},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			addr := netip.MustParseAddr(tt.ip)
			if got := publicAddress(addr); got != tt.public {
				t.Errorf("publicAddress(%s) = %v, want %v", tt.ip, got, tt.public)
			}
		})
	}
}

func TestRefusePrivateAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		wantErr bool
	}{
		{name: "public address", address: "93.184.216.34:443"},
		{name: "loopback", address: "127.0.0.1:80", wantErr: true},
		{name: "private 10.x", address: "10.0.0.5:6379", wantErr: true},
		{name: "cloud metadata", address: "169.254.169.254:80", wantErr: true},
		{name: "no port", address: "127.0.0.1", wantErr: true},
		{name: "IPv6 loopback", address: "[::1]:80", wantErr: true},
		{name: "mapped IPv4 loopback", address: "[::ffff:127.0.0.1]:80", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := refusePrivateAddress("tcp", tt.address, nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("refusePrivateAddress(%q) error = %v, wantErr %v", tt.address, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errBlockedAddress) {
				t.Errorf("error %v does not wrap errBlockedAddress", err)
			}
		})
	}
}

func TestNewDialer(t *testing.T) {
	if d := newDialer(5*time.Second, false); d.Control == nil {
		t.Error("default dialer has no address check")
	}
	d := newDialer(5*time.Second, true)
	if d.Control != nil {
		t.Error("dialer allowing private networks still checks addresses")
	}
	if d.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want %v", d.Timeout, 5*time.Second)
	}
}
