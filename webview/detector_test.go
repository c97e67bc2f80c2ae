package webview

import (
	"fmt"
	"testing"

	nativeapps "github.com/pressline/oauth-nativeapps"
	"github.com/pressline/oauth-nativeapps/internal/testutil"
)

const (
	uaAndroidChrome  = "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Mobile Safari/537.36"
	uaAndroidWebview = "Mozilla/5.0 (Linux; Android 14; Pixel 8; wv) AppleWebKit/537.36 (KHTML, like Gecko) Version/4.0 Chrome/120.0.0.0 Mobile Safari/537.36"
	uaIOSSafari      = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	uaIOSContainer   = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148"
	uaFacebook       = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Mobile/15E148 [FBAN/FBIOS;FBAV/440.0.0]"
	uaWeChat         = "Mozilla/5.0 (Linux; Android 14) AppleWebKit/537.36 (KHTML, like Gecko) Version/4.0 Chrome/120.0.0.0 Mobile Safari/537.36 MicroMessenger/8.0.44"
	uaDesktopChrome  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaElectron       = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) app/1.0 Chrome/120.0.0.0 Electron/28.0.0 Safari/537.36"
)

func newTestWebviewDetector(cfg *nativeapps.WebviewConfig) *Detector {
	if cfg == nil {
		cfg = &nativeapps.WebviewConfig{}
	}
	return NewDetector(cfg, testutil.SilentLogger())
}

func TestDetectBuiltinSignatures(t *testing.T) {
	d := newTestWebviewDetector(nil)

	tests := []struct {
		name         string
		userAgent    string
		wantWebview  bool
		wantCategory Category
	}{
		{"regular Android Chrome", uaAndroidChrome, false, ""},
		{"Android system webview", uaAndroidWebview, true, CategoryAndroidNative},
		{"iOS Safari", uaIOSSafari, false, ""},
		{"iOS embedded container", uaIOSContainer, true, CategoryIOSNative},
		{"Facebook in-app browser", uaFacebook, true, CategorySocialMedia},
		{"WeChat in-app browser", uaWeChat, true, CategoryMessaging},
		{"desktop Chrome", uaDesktopChrome, false, ""},
		{"Electron shell", uaElectron, true, CategoryOtherApps},
		{"generic webview marker", "SomeApp WebView", true, CategoryGeneric},
		{"empty user agent", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.Detect(tt.userAgent)
			if got.IsWebview != tt.wantWebview {
				t.Fatalf("Detect(%q).IsWebview = %t, want %t", tt.userAgent, got.IsWebview, tt.wantWebview)
			}
			if tt.wantWebview && got.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", got.Category, tt.wantCategory)
			}
		})
	}
}

func TestDetectWhitelistWinsOverSignatures(t *testing.T) {
	d := newTestWebviewDetector(&nativeapps.WebviewConfig{
		Whitelist: []string{`FBAV/440`},
	})

	got := d.Detect(uaFacebook)
	if got.IsWebview || !got.Whitelisted {
		t.Errorf("whitelisted UA classified as webview: %+v", got)
	}
}

func TestDetectCustomPatterns(t *testing.T) {
	d := newTestWebviewDetector(&nativeapps.WebviewConfig{
		CustomPatterns: []string{`InHouseShell/\d+`},
	})

	got := d.Detect("Mozilla/5.0 InHouseShell/3 AppleWebKit/537.36 Safari/537.36")
	if !got.IsWebview || got.Category != CategoryCustom {
		t.Errorf("got %+v, want custom-category webview", got)
	}
}

func TestDetectSkipsInvalidPatterns(t *testing.T) {
	// A broken pattern is skipped at construction; detection still runs
	// with the remaining signatures.
	d := newTestWebviewDetector(&nativeapps.WebviewConfig{
		Whitelist:      []string{`[broken`},
		CustomPatterns: []string{`(also broken`, `InHouseShell`},
	})

	if got := d.Detect("InHouseShell agent"); !got.IsWebview || got.Category != CategoryCustom {
		t.Errorf("got %+v, want custom-category webview from the surviving pattern", got)
	}
	if got := d.Detect(uaAndroidWebview); !got.IsWebview {
		t.Error("builtin signatures should still apply")
	}
}

func TestDetectCacheInvalidation(t *testing.T) {
	d := newTestWebviewDetector(nil)

	first := d.Detect(uaFacebook)
	second := d.Detect(uaFacebook)
	if first != second {
		t.Errorf("repeated detection differs: %+v vs %+v", first, second)
	}

	d.InvalidateCache()
	third := d.Detect(uaFacebook)
	if third != first {
		t.Errorf("detection changed after cache invalidation: %+v vs %+v", third, first)
	}
}

func TestDetectCacheStaysBounded(t *testing.T) {
	d := newTestWebviewDetector(nil)
	d.maxEntries = 3

	for i := 0; i < 10; i++ {
		d.Detect(fmt.Sprintf("scanner-agent/%d", i))
	}
	if got := d.CacheLen(); got != 3 {
		t.Errorf("cache size = %d, want capped at 3", got)
	}

	// The oldest entries were evicted; re-detecting one must still
	// produce a correct (and re-cached) result without growing past the
	// cap.
	if got := d.Detect("scanner-agent/0"); got.IsWebview {
		t.Errorf("Detect(scanner-agent/0) = %+v, want non-webview", got)
	}
	if got := d.CacheLen(); got != 3 {
		t.Errorf("cache size after re-detection = %d, want 3", got)
	}
}

func TestDeveloperMessage(t *testing.T) {
	for _, category := range []Category{
		CategorySocialMedia, CategoryIOSNative, CategoryAndroidNative,
		CategoryMessaging, CategoryOtherApps, CategoryCustom, CategoryGeneric,
	} {
		if DeveloperMessage(category) == "" {
			t.Errorf("category %q has no developer message", category)
		}
	}
	if DeveloperMessage(Category("unknown")) != DeveloperMessage(CategoryGeneric) {
		t.Error("unknown categories should fall back to the generic message")
	}
}
