package nativeapps

import "testing"

func TestParseClientKind(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   ClientKind
		wantOK bool
	}{
		{"empty is unset", "", ClientKindUnset, true},
		{"auto-detect", "auto-detect", ClientKindAuto, true},
		{"native", "native", ClientKindNative, true},
		{"web", "web", ClientKindWeb, true},
		{"unknown value", "yes", ClientKindUnset, false},
		{"case sensitive", "Native", ClientKindUnset, false},
		{"whitespace not trimmed", " native", ClientKindUnset, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseClientKind(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseClientKind(%q) = (%q, %t), want (%q, %t)",
					tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParsePKCEMode(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   PKCEMode
		wantOK bool
	}{
		{"empty is unset", "", PKCEModeUnset, true},
		{"auto-detect", "auto-detect", PKCEModeAuto, true},
		{"enhanced", "enhanced", PKCEModeEnhanced, true},
		{"not-enhanced", "not-enhanced", PKCEModeNotEnhanced, true},
		{"unknown value", "strict", PKCEModeUnset, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePKCEMode(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParsePKCEMode(%q) = (%q, %t), want (%q, %t)",
					tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParseWebviewPolicy(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   WebviewPolicy
		wantOK bool
	}{
		{"off", "off", WebviewPolicyOff, true},
		{"warn", "warn", WebviewPolicyWarn, true},
		{"block", "block", WebviewPolicyBlock, true},
		{"unknown degrades to warn", "deny", WebviewPolicyWarn, false},
		{"empty degrades to warn", "", WebviewPolicyWarn, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseWebviewPolicy(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseWebviewPolicy(%q) = (%q, %t), want (%q, %t)",
					tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestEnumValid(t *testing.T) {
	if !ClientKindAuto.Valid() {
		t.Error("ClientKindAuto should be valid")
	}
	if ClientKind("maybe").Valid() {
		t.Error("unknown ClientKind should be invalid")
	}
	if !PKCEModeEnhanced.Valid() {
		t.Error("PKCEModeEnhanced should be valid")
	}
	if PKCEMode("always").Valid() {
		t.Error("unknown PKCEMode should be invalid")
	}
	if !WebviewPolicyBlock.Valid() {
		t.Error("WebviewPolicyBlock should be valid")
	}
	if WebviewPolicy("").Valid() {
		t.Error("empty WebviewPolicy should be invalid")
	}
}
