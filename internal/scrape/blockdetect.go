package scrape

import (
	"net/http"
	"strings"
)

// BlockType describes the kind of anti-bot block detected.
type BlockType string

const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
)

// DetectBlock checks a response for an anti-bot interstitial. A blocked
// page would otherwise parse as an empty listing. Body markers are only
// checked on non-2xx responses.
func DetectBlock(resp *http.Response, body []byte) BlockType {
	if resp == nil {
		return BlockNone
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if resp.Header.Get("cf-ray") != "" || strings.EqualFold(resp.Header.Get("server"), "cloudflare") {
			return BlockCloudflare
		}
	}

	// Successful pages may embed captcha widgets of their own.
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return BlockNone
	}

	lower := strings.ToLower(string(body))
	if strings.Contains(lower, "checking your browser") || strings.Contains(lower, "cf-browser-verification") {
		return BlockCloudflare
	}
	if strings.Contains(lower, "g-recaptcha") || strings.Contains(lower, "h-captcha") {
		return BlockCaptcha
	}

	return BlockNone
}
