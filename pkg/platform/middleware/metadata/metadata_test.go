package metadata

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"first forwarded hop wins", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:4000", "203.0.113.7"},
		{"forwarded address is trimmed", map[string]string{"X-Forwarded-For": " 198.51.100.3 "}, "10.0.0.2:4000", "198.51.100.3"},
		{"garbage forwarded value falls through", map[string]string{"X-Forwarded-For": "<script>", "X-Real-IP": "198.51.100.9"}, "10.0.0.2:4000", "198.51.100.9"},
		{"real ip header", map[string]string{"X-Real-IP": "198.51.100.9"}, "10.0.0.2:4000", "198.51.100.9"},
		{"ipv4 peer", nil, "127.0.0.1:5000", "127.0.0.1"},
		{"ipv6 peer", nil, "[::1]:5000", "::1"},
		{"peer without port", nil, "127.0.0.1", "127.0.0.1"},
		{"nothing known", nil, "", "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}
