package collector

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	tests := []struct {
		name        string
		proxy       string
		timeout     time.Duration
		wantProxy   string
		wantTimeout time.Duration
	}{
		{"direct", "", 5 * time.Second, "", 5 * time.Second},
		{"proxied", "http://10.0.0.1:8080", 0, "10.0.0.1:8080", DefaultTimeout},
		{"malformed proxy ignored", "://bad", -time.Second, "", DefaultTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewHTTPClient(tt.proxy, tt.timeout)
			assert.Equal(t, tt.wantTimeout, c.Timeout)

			tr, ok := c.Transport.(*http.Transport)
			require.True(t, ok)
			if tt.wantProxy == "" {
				assert.Nil(t, tr.Proxy)
				return
			}
			u, err := tr.Proxy(httptest.NewRequest(http.MethodGet, "https://example.com", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantProxy, u.Host)
		})
	}
}
