package linkcheck

import (
	"strings"
	"testing"

	"github.com/sadopc/chop/internal/errkind"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" example.com ", "https://example.com"},
		{"example.com/path?q=1", "https://example.com/path?q=1"},
		{"http://example.com", "http://example.com"},
		{"HTTPS://Example.com", "HTTPS://Example.com"},
		{"HtTp://example.com", "HtTp://example.com"},
		{"\t\nhttps://example.com/a \n", "https://example.com/a"},
		{"ftp://example.com", "https://ftp://example.com"},
		{"   ", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"plain https", "https://example.com", true},
		{"http with path", "http://example.com/a/b?c=d#e", true},
		{"uppercase scheme", "HTTPS://EXAMPLE.COM", true},
		{"subdomain and port", "https://api.example.co.uk:8443/x", true},
		{"public ip", "http://8.8.8.8/dns", true},
		{"unicode host", "https://bücher.de", true},
		{"ten-prefixed hostname", "https://10.example.com", true},
		{"underscore label", "https://my_host.example.com", true},
		{"max port", "https://example.com:65535", true},
		{"port out of range", "https://example.com:99999", false},
		{"port zero", "https://example.com:0", false},
		{"invalid utf-8", "https://exa\xffmple.com", false},
		{"leading hyphen label", "https://-bad.example.com", false},
		{"ftp scheme", "ftp://example.com", false},
		{"javascript scheme", "javascript:alert(1)", false},
		{"localhost", "http://localhost", false},
		{"localhost uppercase", "http://LOCALHOST:3000", false},
		{"localhost subdomain", "http://app.localhost", false},
		{"loopback", "http://127.0.0.1", false},
		{"loopback range", "http://127.8.9.10", false},
		{"loopback v6", "http://[::1]/", false},
		{"unspecified", "http://0.0.0.0", false},
		{"192.168", "http://192.168.1.5", false},
		{"10/8", "https://10.1.2.3", false},
		{"172.16/12 low", "https://172.16.0.1", false},
		{"172.16/12 high", "https://172.31.255.255", false},
		{"172.32 is public", "https://172.32.0.1", true},
		{"mapped private v6", "http://[::ffff:192.168.0.1]", false},
		{"shorthand ipv4", "http://127.1", false},
		{"decimal ipv4", "http://2130706433", false},
		{"too long", "http://" + strings.Repeat("a", 2050), false},
		{"no host", "https://", false},
		{"empty port", "https://ftp://example.com", false},
		{"space in host", "https://exa mple.com", false},
		{"relative", "example.com", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValid(tt.in); got != tt.want {
				t.Errorf("IsValid(%q) = %v (%s), want %v", tt.in, got, Check(tt.in), tt.want)
			}
		})
	}
}

func TestCheckReasons(t *testing.T) {
	tests := []struct {
		in   string
		want Reason
	}{
		{"https://example.com", ReasonOK},
		{"  ", ReasonEmpty},
		{"https://" + strings.Repeat("a", MaxLength), ReasonTooLong},
		{"ftp://example.com", ReasonScheme},
		{"http://192.168.1.5", ReasonPrivateHost},
		{"https://exa!mple.com", ReasonMalformed},
		{"https://example.com:70000", ReasonMalformed},
		{"https://exa\xffmple.com", ReasonMalformed},
	}
	for _, tt := range tests {
		if got := Check(tt.in); got != tt.want {
			t.Errorf("Check(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestLengthBoundary(t *testing.T) {
	prefix := "https://example.com/"
	exact := prefix + strings.Repeat("p", MaxLength-len(prefix))
	if !IsValid(exact) {
		t.Errorf("URL of exactly %d characters should be valid", MaxLength)
	}
	if IsValid(exact + "p") {
		t.Errorf("URL of %d characters should be invalid", MaxLength+1)
	}
}

func TestCheckAlias(t *testing.T) {
	valid := []string{"", "abc", "my-custom_alias", strings.Repeat("x", 64)}
	for _, a := range valid {
		if err := CheckAlias(a); err != nil {
			t.Errorf("CheckAlias(%q) = %v, want nil", a, err)
		}
	}
	invalid := []string{"ab", "has space", "slash/es", "émoji", strings.Repeat("x", 65)}
	for _, a := range invalid {
		err := CheckAlias(a)
		if err == nil {
			t.Errorf("CheckAlias(%q) = nil, want error", a)
			continue
		}
		if !errkind.Is(err, errkind.InvalidAlias) {
			t.Errorf("CheckAlias(%q) kind = %s, want invalid_alias", a, errkind.Of(err))
		}
	}
}

func TestPrepare(t *testing.T) {
	got, err := Prepare("  example.com/docs ")
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}
	if got != "https://example.com/docs" {
		t.Errorf("Prepare() = %q", got)
	}

	if _, err := Prepare("   "); !errkind.Is(err, errkind.EmptyInput) {
		t.Errorf("Prepare(blank) kind = %s, want empty_input", errkind.Of(err))
	}
	if _, err := Prepare("localhost:8080"); !errkind.Is(err, errkind.InvalidURL) {
		t.Errorf("Prepare(localhost) kind = %s, want invalid_url", errkind.Of(err))
	}
}
