package device

import (
	"net/http"
	"strings"
)

type Info struct {
	Device    string
	Browser   string
	OS        string
	IPAddress string
}

// FromRequest derives a display label from request metadata. Advisory only,
// never used for access control.
func FromRequest(r *http.Request) Info {
	ua := r.UserAgent()

	ip := r.RemoteAddr
	if ip == "" {
		ip = r.Header.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = "Unknown"
	}

	// Edge and Opera embed "Chrome" in their user agents, so they go first.
	browser := "Unknown Browser"
	switch {
	case strings.Contains(ua, "Edg/") || strings.Contains(ua, "Edge/"):
		browser = "Edge"
	case strings.Contains(ua, "OPR/") || strings.Contains(ua, "Opera"):
		browser = "Opera"
	case strings.Contains(ua, "Chrome"):
		browser = "Chrome"
	case strings.Contains(ua, "Safari"):
		browser = "Safari"
	case strings.Contains(ua, "Firefox"):
		browser = "Firefox"
	}

	os := "Unknown OS"
	switch {
	case strings.Contains(ua, "Windows"):
		os = "Windows"
	case strings.Contains(ua, "Mac"):
		os = "MacOS"
	case strings.Contains(ua, "Linux"):
		os = "Linux"
	case strings.Contains(ua, "Android"):
		os = "Android"
	case strings.Contains(ua, "iPhone") || strings.Contains(ua, "iPad"):
		os = "iOS"
	}

	device := browser + " on " + os
	if strings.Contains(ua, "Mobile") {
		device += " (Mobile)"
	}

	return Info{
		Device:    device,
		Browser:   browser,
		OS:        os,
		IPAddress: ip,
	}
}
