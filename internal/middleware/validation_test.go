package middleware

import (
	"strings"
	"testing"
)

func TestValidateGuestName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"valid", "Jane Goodall", "Jane Goodall", false},
		{"trims whitespace", "  Ada Lovelace  ", "Ada Lovelace", false},
		{"unicode kept", "José Hernández", "José Hernández", false},
		{"empty", "", "", true},
		{"whitespace only", "   ", "", true},
		{"too long", strings.Repeat("x", 121), "", true},
		{"exactly max", strings.Repeat("x", 120), strings.Repeat("x", 120), false},
		{"control chars", "Jane\nGoodall", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateGuestName(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateChannelURL(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"full url", "https://www.youtube.com/@lexfridman", "https://www.youtube.com/@lexfridman", false},
		{"bare handle", "@lexfridman", "@lexfridman", false},
		{"channel id", "UCSHZKyawb77ixDdsGog4iWA", "UCSHZKyawb77ixDdsGog4iWA", false},
		{"trims whitespace", "  @mkbhd  ", "@mkbhd", false},
		{"empty", "", "", true},
		{"too long", "https://youtube.com/" + strings.Repeat("x", 250), "", true},
		{"header injection", "https://youtube.com/@a\r\nHost: evil", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateChannelURL(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateChannelID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"youtube id", "UCSHZKyawb77ixDdsGog4iWA", "UCSHZKyawb77ixDdsGog4iWA", false},
		{"simulated id", "sim-lexfridman", "sim-lexfridman", false},
		{"empty", "", "", true},
		{"too long", strings.Repeat("a", 65), "", true},
		{"exactly max", strings.Repeat("a", 64), strings.Repeat("a", 64), false},
		{"invalid chars", "UC test!", "", true},
		{"sql injection", "a'; DROP--", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateChannelID(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercased", "Technology", "technology"},
		{"trimmed", "  business  ", "business"},
		{"empty passes through", "", ""},
		{"too long dropped", strings.Repeat("x", 61), ""},
		{"control chars dropped", "tech\x00nology", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateField(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateRegion(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercased", "US", "us"},
		{"global", "global", "global"},
		{"dashed", "en-GB", "en-gb"},
		{"empty passes through", "", ""},
		{"digits dropped", "us1", ""},
		{"too long dropped", strings.Repeat("a", 31), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidateRegion(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateTrendingPeriod(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"empty defaults", "", "30d", false},
		{"seven days", "7d", "7d", false},
		{"thirty days", "30d", "30d", false},
		{"ninety days", "90d", "90d", false},
		{"uppercase normalized", "7D", "7d", false},
		{"unknown rejected", "365d", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, errMsg := ValidateTrendingPeriod(tt.input)
			if tt.wantErr && errMsg == "" {
				t.Errorf("expected error, got none")
			}
			if !tt.wantErr && errMsg != "" {
				t.Errorf("unexpected error: %s", errMsg)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateSearchQuery(t *testing.T) {
	if got := ValidateSearchQuery("  joe  "); got != "joe" {
		t.Errorf("trim failed: got %q", got)
	}
	long := strings.Repeat("x", 200)
	if got := ValidateSearchQuery(long); len(got) != MaxQueryLen {
		t.Errorf("truncation failed: got len %d, want %d", len(got), MaxQueryLen)
	}
	// Short queries are passed through; the service decides they yield
	// no suggestions.
	if got := ValidateSearchQuery("a"); got != "a" {
		t.Errorf("short query mangled: got %q", got)
	}
}
