package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP_HeaderPriority(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name: "cdn header wins",
			headers: map[string]string{
				"CF-Connecting-IP": "203.0.113.7",
				"X-Forwarded-For":  "198.51.100.1",
				"X-Real-IP":        "192.0.2.5",
			},
			remoteAddr: "10.0.0.1:1234",
			want:       "203.0.113.7",
		},
		{
			name: "first forwarded-for entry",
			headers: map[string]string{
				"X-Forwarded-For": "198.51.100.1, 10.0.0.2, 10.0.0.3",
				"X-Real-IP":       "192.0.2.5",
			},
			remoteAddr: "10.0.0.1:1234",
			want:       "198.51.100.1",
		},
		{
			name:       "real-ip fallback",
			headers:    map[string]string{"X-Real-IP": "192.0.2.5"},
			remoteAddr: "10.0.0.1:1234",
			want:       "192.0.2.5",
		},
		{
			name:       "direct connection",
			headers:    nil,
			remoteAddr: "10.0.0.1:1234",
			want:       "10.0.0.1",
		},
		{
			name: "garbage headers skipped",
			headers: map[string]string{
				"CF-Connecting-IP": "not-an-ip",
				"X-Forwarded-For":  "also-bad",
			},
			remoteAddr: "10.0.0.1:1234",
			want:       "10.0.0.1",
		},
		{
			name:       "nothing parses yields sentinel",
			headers:    nil,
			remoteAddr: "garbage",
			want:       SentinelIP,
		},
		{
			name:       "ipv6 remote addr",
			headers:    nil,
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(req))
		})
	}
}
