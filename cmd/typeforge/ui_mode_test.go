package main

import "testing"

func TestReadUIMode(t *testing.T) {
	cases := []struct {
		value string
		want  uiMode
		ok    bool
	}{
		{"", uiModeAuto, true},
		{"auto", uiModeAuto, true},
		{"AUTO", uiModeAuto, true},
		{"on", uiModeOn, true},
		{" On ", uiModeOn, true},
		{"off", uiModeOff, true},
		{"tui", "", false},
	}
	for _, tc := range cases {
		got, err := readUIMode(tc.value)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("readUIMode(%q) = %q, %v; want %q", tc.value, got, err, tc.want)
		}
		if !tc.ok && err == nil {
			t.Errorf("readUIMode(%q) must fail", tc.value)
		}
	}
}

func TestShouldUseTUIExplicitModes(t *testing.T) {
	if !shouldUseTUI(uiModeOn) {
		t.Error("on must force the TUI")
	}
	if shouldUseTUI(uiModeOff) {
		t.Error("off must disable the TUI")
	}
}
