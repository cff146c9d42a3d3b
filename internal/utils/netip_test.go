package utils

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remote     string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remote: "192.0.2.1:5555", want: "192.0.2.1"},
		{name: "headers ignored without trust", remote: "192.0.2.1:5555", headers: map[string]string{"X-Forwarded-For": "10.0.0.1"}, want: "192.0.2.1"},
		{name: "cloudflare first", remote: "127.0.0.1:80", headers: map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "10.0.0.1"}, trustProxy: true, want: "203.0.113.7"},
		{name: "left-most forwarded", remote: "127.0.0.1:80", headers: map[string]string{"X-Forwarded-For": "10.0.0.1, 10.0.0.2"}, trustProxy: true, want: "10.0.0.1"},
		{name: "garbage header falls through", remote: "127.0.0.1:80", headers: map[string]string{"X-Forwarded-For": "unknown", "X-Real-IP": "10.9.9.9"}, trustProxy: true, want: "10.9.9.9"},
		{name: "ipv6 remote", remote: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "mapped ipv4", remote: "[::ffff:192.0.2.9]:443", want: "192.0.2.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIPMatcher(t *testing.T) {
	m := NewIPMatcher([]string{"10.0.0.0/8", " 192.0.2.4 ", "2001:db8::/32", "not-an-ip", ""})
	if m.IsEmpty() {
		t.Fatal("matcher should not be empty")
	}

	tests := map[string]bool{
		"10.200.1.1":      true,
		"192.0.2.4":       true,
		"192.0.2.5":       false,
		"2001:db8::beef":  true,
		"::ffff:10.0.0.1": true,
		"garbage":         false,
	}
	for ip, want := range tests {
		if got := m.Allow(ip); got != want {
			t.Errorf("Allow(%q) = %v, want %v", ip, got, want)
		}
	}

	if !NewIPMatcher(nil).IsEmpty() {
		t.Error("nil list should give an empty matcher")
	}
}
