package device

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	uaChromeWindows = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaEdgeWindows   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0"
	uaOperaMac      = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 OPR/106.0.0.0"
	uaSafariMac     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Safari/605.1.15"
	uaFirefoxLinux  = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"
	uaChromeAndroid = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	uaSafariIPhone  = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
)

func TestFromRequestBrowserAndOS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ua      string
		browser string
		os      string
		device  string
	}{
		{"chrome on windows", uaChromeWindows, "Chrome", "Windows", "Chrome on Windows"},
		{"edge detected before chrome", uaEdgeWindows, "Edge", "Windows", "Edge on Windows"},
		{"opera detected before chrome", uaOperaMac, "Opera", "MacOS", "Opera on MacOS"},
		{"safari on mac", uaSafariMac, "Safari", "MacOS", "Safari on MacOS"},
		{"firefox on linux", uaFirefoxLinux, "Firefox", "Linux", "Firefox on Linux"},
		{"android reports linux with mobile tag", uaChromeAndroid, "Chrome", "Linux", "Chrome on Linux (Mobile)"},
		// Real iPhone UAs carry "like Mac OS X", and Mac is checked first.
		{"iphone", uaSafariIPhone, "Safari", "MacOS", "Safari on MacOS (Mobile)"},
		{"ipad without mac marker", "Mozilla/5.0 (iPad; CPU OS 17_0) AppleWebKit/605.1.15 Safari/604.1", "Safari", "iOS", "Safari on iOS"},
		{"missing user agent", "", "Unknown Browser", "Unknown OS", "Unknown Browser on Unknown OS"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest("GET", "/", nil)
			if tt.ua != "" {
				req.Header.Set("User-Agent", tt.ua)
			}
			info := FromRequest(req)

			assert.Equal(t, tt.browser, info.Browser)
			assert.Equal(t, tt.os, info.OS)
			assert.Equal(t, tt.device, info.Device)
		})
	}
}

func TestFromRequestIPResolution(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.1.2.3:4444"
	assert.Equal(t, "10.1.2.3:4444", FromRequest(req).IPAddress)

	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = ""
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	assert.Equal(t, "203.0.113.7", FromRequest(req).IPAddress)

	req = httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = ""
	assert.Equal(t, "Unknown", FromRequest(req).IPAddress)
}
