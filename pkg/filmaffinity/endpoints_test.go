package filmaffinity

import (
	"strings"
	"testing"
)

func TestRatingsURL(t *testing.T) {
	url := RatingsURL("", "123456", 3)

	if !strings.HasPrefix(url, BaseURL+RatingsEndpoint+"?") {
		t.Errorf("Expected URL to start with %s%s, got %s", BaseURL, RatingsEndpoint, url)
	}
	for _, want := range []string{"user_id=123456", "p=3", "chv=list", "orderby=rating"} {
		if !strings.Contains(url, want) {
			t.Errorf("Expected URL to contain %q, got %s", want, url)
		}
	}
}

func TestRatingsURLCustomBase(t *testing.T) {
	url := RatingsURL("https://fa.example.test/", "42", 1)

	if !strings.HasPrefix(url, "https://fa.example.test"+RatingsEndpoint) {
		t.Errorf("Expected custom base URL without double slash, got %s", url)
	}
}

func TestRatingsURLClampsPage(t *testing.T) {
	url := RatingsURL("", "42", 0)
	if !strings.Contains(url, "p=1") {
		t.Errorf("Expected page to be clamped to 1, got %s", url)
	}
}

func TestSanitizeUserID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"123456", "123456"},
		{"  123456  ", "123456"},
		{"123456/", "123456"},
		{"user_id=123456", "123456"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeUserID(tt.input); got != tt.want {
			t.Errorf("SanitizeUserID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestIsValidUserID(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"123456", true},
		{"0", true},
		{"", false},
		{"abc", false},
		{"123abc", false},
		{"12 34", false},
	}

	for _, tt := range tests {
		if got := IsValidUserID(tt.input); got != tt.want {
			t.Errorf("IsValidUserID(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
