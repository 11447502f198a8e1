package storage

import "testing"

func TestSelectMode(t *testing.T) {
	cases := []struct {
		name       string
		explicit   string
		serverless bool
		want       Mode
	}{
		{"explicit fs wins", "fs", true, ModeFS},
		{"explicit indexeddb wins", "indexeddb", false, ModeIndexedDB},
		{"explicit normalized", "  FS ", true, ModeFS},
		{"invalid explicit falls through", "s3", false, ModeFS},
		{"invalid explicit serverless", "s3", true, ModeIndexedDB},
		{"empty serverless", "", true, ModeIndexedDB},
		{"empty local", "", false, ModeFS},
	}
	for _, tc := range cases {
		if got := SelectMode(tc.explicit, tc.serverless); got != tc.want {
			t.Fatalf("%s: SelectMode(%q, %v) = %q, want %q", tc.name, tc.explicit, tc.serverless, got, tc.want)
		}
	}
}
