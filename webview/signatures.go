package webview

import (
	"regexp"
)

// Category names the kind of embedded browser a user agent matched.
type Category string

const (
	// CategorySocialMedia covers in-app browsers of social platforms.
	CategorySocialMedia Category = "social_media"

	// CategoryIOSNative covers iOS WKWebView/UIWebView containers.
	CategoryIOSNative Category = "ios_native"

	// CategoryAndroidNative covers Android system WebView containers.
	CategoryAndroidNative Category = "android_native"

	// CategoryMessaging covers messaging-app in-app browsers.
	CategoryMessaging Category = "messaging_browsers"

	// CategoryOtherApps covers other applications embedding a browser.
	CategoryOtherApps Category = "other_apps"

	// CategoryCustom marks a match against an operator-supplied pattern.
	CategoryCustom Category = "custom"

	// CategoryGeneric marks a generic webview marker with no more
	// specific attribution.
	CategoryGeneric Category = "generic"
)

// signatureSet is one category's compiled detection patterns.
type signatureSet struct {
	category Category
	patterns []*regexp.Regexp
}

// builtinSignatures are the layered known-webview signature sets,
// checked in order. More specific app markers come before the platform
// container markers so attribution is as precise as possible.
var builtinSignatures = []signatureSet{
	{
		category: CategorySocialMedia,
		patterns: compileAll(
			`FBAN`, `FBAV`, `FB_IAB`, // Facebook family
			`Instagram`,
			`TwitterAndroid`, `Twitter for iPhone`,
			`BytedanceWebview`, `musical_ly`, `TikTok`,
			`Snapchat`,
			`Pinterest(?:/| for )`,
			`LinkedInApp`,
		),
	},
	{
		category: CategoryMessaging,
		patterns: compileAll(
			`\bLine/`,
			`MicroMessenger`, // WeChat
			`WhatsApp`,
			`TelegramBot|Telegram\b`,
			`KAKAOTALK`,
			`Viber`,
			`Discord`,
			`Slack(?:/| for )`,
		),
	},
	{
		category: CategoryOtherApps,
		patterns: compileAll(
			`GSA/`, // Google app
			`DuckDuckGo/`,
			`Electron/`,
			`Flipboard`,
			`QQ/`,
		),
	},
	{
		category: CategoryAndroidNative,
		patterns: compileAll(
			`; wv\)`,                   // Android WebView marker
			`Version/4\.0.*Chrome/\d+`, // legacy WebView shape
		),
	},
	{
		category: CategoryGeneric,
		patterns: compileAll(
			`WebView`,
			`EmbeddedBrowser`,
		),
	},
}

// iosSafariPattern and iosDevicePattern implement the iOS container
// heuristic: an Apple mobile device UA carrying WebKit but no Safari
// token is an embedded WKWebView, because Safari itself always
// identifies as Safari.
var (
	iosDevicePattern = regexp.MustCompile(`iPhone|iPad|iPod`)
	iosWebKitPattern = regexp.MustCompile(`AppleWebKit`)
	iosSafariPattern = regexp.MustCompile(`Safari/`)
)

// isIOSContainer applies the iOS heuristic described above.
func isIOSContainer(userAgent string) bool {
	return iosDevicePattern.MatchString(userAgent) &&
		iosWebKitPattern.MatchString(userAgent) &&
		!iosSafariPattern.MatchString(userAgent)
}

func compileAll(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

// developerMessages maps each category to its developer-facing
// recommendation, surfaced in warn headers and the block response body.
var developerMessages = map[Category]string{
	CategorySocialMedia:   "This authorization request arrived through a social app's in-app browser. Open the flow in the system browser instead.",
	CategoryIOSNative:     "Use ASWebAuthenticationSession (or SFSafariViewController) for OAuth on iOS instead of an embedded WKWebView.",
	CategoryAndroidNative: "Use Android Custom Tabs for OAuth instead of an embedded WebView control.",
	CategoryMessaging:     "This authorization request arrived through a messaging app's in-app browser. Open the flow in the system browser instead.",
	CategoryOtherApps:     "This application embeds a browser control for OAuth. Use the platform's system browser session API instead.",
	CategoryCustom:        "This user agent matches an operator-configured embedded browser pattern. Use the system browser for OAuth.",
	CategoryGeneric:       "This user agent appears to be an embedded webview. Use the system browser for OAuth.",
}

// DeveloperMessage returns the category-specific developer
// recommendation.
func DeveloperMessage(category Category) string {
	if msg, ok := developerMessages[category]; ok {
		return msg
	}
	return developerMessages[CategoryGeneric]
}
