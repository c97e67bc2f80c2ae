package redirect

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		uri  string
		want URIClass
	}{
		{"custom scheme", "myapp://callback", ClassNative},
		{"reverse-domain scheme", "com.example.app:/oauth/callback", ClassNative},
		{"IPv4 loopback", "http://127.0.0.1:8080/cb", ClassNative},
		{"loopback block address", "http://127.0.0.2:8080/cb", ClassNative},
		{"localhost counts as native-leaning", "http://localhost:3000/cb", ClassNative},
		{"IPv6 loopback", "http://[::1]:8080/cb", ClassNative},
		{"https web origin", "https://example.com/callback", ClassWeb},
		{"http web origin", "http://example.com/callback", ClassWeb},
		{"dangerous scheme is not evidence", "javascript://x", ClassUnknown},
		{"unparsable", "http://[bad", ClassUnknown},
		{"no scheme", "just-a-path", ClassUnknown},
		{"empty", "", ClassUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.uri); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.uri, got, tt.want)
			}
		})
	}
}

// The permissive classifier and the strict validator deliberately
// disagree about localhost and 127.0.0.0/8: they count as native
// evidence for scoring while strict acceptance still rejects them.
func TestClassifyPermissiveVersusStrictValidation(t *testing.T) {
	v := permissiveValidator()

	for _, uri := range []string{
		"http://localhost:8080/cb",
		"http://127.0.0.2:8080/cb",
	} {
		if !IsNativeURI(uri) {
			t.Errorf("IsNativeURI(%q) = false, want native-leaning classification", uri)
		}
		if v.Validate(uri, ModeStandard) {
			t.Errorf("Validate(%q) = true, strict acceptance should still reject it", uri)
		}
	}
}

func TestIsDangerousScheme(t *testing.T) {
	for _, scheme := range []string{"javascript", "data", "vbscript", "file", "blob", "chrome-extension"} {
		if !IsDangerousScheme(scheme) {
			t.Errorf("IsDangerousScheme(%q) = false, want true", scheme)
		}
	}
	if !IsDangerousScheme("JavaScript") {
		t.Error("dangerous scheme check must be case-insensitive")
	}
	for _, scheme := range []string{"https", "myapp", "com.example.app"} {
		if IsDangerousScheme(scheme) {
			t.Errorf("IsDangerousScheme(%q) = true, want false", scheme)
		}
	}
}

func TestIsReverseDomainScheme(t *testing.T) {
	tests := []struct {
		scheme string
		want   bool
	}{
		{"com.example.app", true},
		{"io.github.project", true},
		{"com.example.my-app", true},
		{"com.example", false},         // two segments
		{"example.com.app", false},     // TLD not first
		{"com.example.-app", false},    // leading hyphen
		{"com.example.app-", false},    // trailing hyphen
		{"com..app", false},            // empty segment
		{"com.Example.app", false},     // uppercase
	}

	for _, tt := range tests {
		if got := IsReverseDomainScheme(tt.scheme); got != tt.want {
			t.Errorf("IsReverseDomainScheme(%q) = %t, want %t", tt.scheme, got, tt.want)
		}
	}
}

func TestIsStandardNativeScheme(t *testing.T) {
	tests := []struct {
		scheme string
		want   bool
	}{
		{"myapp", true},
		{"exampleapp", true},
		{"my-app", true},
		{"client42", true},
		{"randomscheme", false},
	}

	for _, tt := range tests {
		if got := IsStandardNativeScheme(tt.scheme); got != tt.want {
			t.Errorf("IsStandardNativeScheme(%q) = %t, want %t", tt.scheme, got, tt.want)
		}
	}
}
