package version

import (
	"runtime"
	"strings"
	"testing"
)

func TestVersionPopulated(t *testing.T) {
	if Version == "" {
		t.Error("Version should never be empty after init")
	}
	if Commit == "" {
		t.Error("Commit should never be empty after init")
	}
}

func TestFull(t *testing.T) {
	if !strings.Contains(Full(), "(commit: "+Commit+")") {
		t.Errorf("Full() = %q", Full())
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	parts := strings.Fields(ua)
	if len(parts) != 3 {
		t.Fatalf("UserAgent() = %q, want three product tokens", ua)
	}
	if !strings.HasPrefix(parts[0], runtime.GOOS+"/") {
		t.Errorf("first token = %q, want OS/version", parts[0])
	}
	if parts[1] != "UPnP/1.1" {
		t.Errorf("second token = %q, want UPnP/1.1", parts[1])
	}
	if parts[2] != Product+"/"+Version {
		t.Errorf("third token = %q", parts[2])
	}
}
