package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muurk/upnpctl/internal/description"
)

func TestGetConfigDir(t *testing.T) {
	t.Setenv(DirEnv, "")

	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	if !strings.Contains(configDir, "upnpctl") {
		t.Errorf("GetConfigDir() = %v, should contain 'upnpctl'", configDir)
	}

	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	}
}

func TestGetConfigDir_XDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME applies on Linux")
	}
	t.Setenv(DirEnv, "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if dir != filepath.Join("/tmp/xdg", "upnpctl") {
		t.Errorf("GetConfigDir() = %q", dir)
	}
}

func TestGetConfigPath_Override(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(DirEnv, dir)

	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}
	if configPath != filepath.Join(dir, "config.yaml") {
		t.Errorf("GetConfigPath() = %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}
	if reg.Devices == nil {
		t.Error("NewRegistry().Devices should not be nil")
	}
	p := reg.Preferences
	if p.SearchTarget != "ssdp:all" {
		t.Errorf("SearchTarget = %q, want ssdp:all", p.SearchTarget)
	}
	if p.DiscoverTimeout != 3*time.Second {
		t.Errorf("DiscoverTimeout = %v, want 3s", p.DiscoverTimeout)
	}
	if p.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v, want 10s", p.HTTPTimeout)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(reg.Devices) != 0 || reg.Path() != path {
		t.Errorf("got %d devices at %q, want an empty registry bound to %q", len(reg.Devices), reg.Path(), path)
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	t.Setenv(DirEnv, t.TempDir())

	seen := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	reg := NewRegistry()
	reg.Preferences.Interfaces = []string{"eth0"}
	reg.Preferences.DiscoverTimeout = 5 * time.Second
	reg.Remember(&description.Device{
		UDN:          "uuid:4d696e69-444c-164e-9d41-b827eb96c6c2",
		DeviceType:   "urn:schemas-upnp-org:device:MediaRenderer:1",
		FriendlyName: "Living Room TV",
	}, "http://10.0.0.5:80/desc.xml", seen)
	if err := reg.SetDeviceNickname("uuid:4d696e69-444c-164e-9d41-b827eb96c6c2", "tv"); err != nil {
		t.Fatalf("SetDeviceNickname() error = %v", err)
	}

	if err := reg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	device := loaded.GetDevice("uuid:4d696e69-444c-164e-9d41-b827eb96c6c2")
	if device == nil {
		t.Fatal("Device should exist in loaded registry")
	}
	if device.Nickname != "tv" || device.FriendlyName != "Living Room TV" {
		t.Errorf("loaded device = %+v", device)
	}
	if !device.LastSeen.Equal(seen) {
		t.Errorf("LastSeen = %v, want %v", device.LastSeen, seen)
	}
	if loaded.Preferences.DiscoverTimeout != 5*time.Second {
		t.Errorf("DiscoverTimeout = %v, want 5s", loaded.Preferences.DiscoverTimeout)
	}
	if len(loaded.Preferences.Interfaces) != 1 || loaded.Preferences.Interfaces[0] != "eth0" {
		t.Errorf("Interfaces = %v", loaded.Preferences.Interfaces)
	}

	if _, err := os.Stat(loaded.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind after save")
	}
}

func TestLoadFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "version: 1\npreferences:\n  http_timeout: 30s\n"
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}

	reg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if reg.Preferences.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want 30s", reg.Preferences.HTTPTimeout)
	}
	if reg.Preferences.SearchTarget != "ssdp:all" || reg.Preferences.DiscoverTimeout != 3*time.Second {
		t.Errorf("defaults not filled: %+v", reg.Preferences)
	}
	if reg.Devices == nil {
		t.Error("Devices should be initialized")
	}
}

func TestLoadRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 7\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil || !strings.Contains(err.Error(), "unsupported config version") {
		t.Errorf("LoadFile() error = %v, want version error", err)
	}
}

func TestRegistryNicknames(t *testing.T) {
	reg := NewRegistry()
	reg.EnsureDevice("uuid:a").Location = "http://10.0.0.5/a.xml"
	reg.EnsureDevice("uuid:b").Location = "http://10.0.0.6/b.xml"

	if err := reg.SetDeviceNickname("uuid:a", "Kitchen"); err != nil {
		t.Fatalf("SetDeviceNickname() error = %v", err)
	}
	if err := reg.SetDeviceNickname("uuid:b", "kitchen"); err == nil {
		t.Error("duplicate nickname should be rejected")
	}
	if err := reg.SetDeviceNickname("uuid:c", "x"); err == nil {
		t.Error("unknown device should be rejected")
	}

	reg.Remember(&description.Device{UDN: "uuid:a", FriendlyName: "Renamed"}, "http://10.0.0.7/a.xml", time.Now())
	if reg.GetDevice("uuid:a").Nickname != "Kitchen" {
		t.Error("Remember should keep the nickname")
	}
}

func TestResolveLocation(t *testing.T) {
	reg := NewRegistry()
	reg.EnsureDevice("uuid:a").Location = "http://10.0.0.5/a.xml"
	_ = reg.SetDeviceNickname("uuid:a", "Kitchen")
	reg.EnsureDevice("uuid:b")

	tests := []struct {
		ref     string
		want    string
		wantErr bool
	}{
		{"http://10.0.0.9/x.xml", "http://10.0.0.9/x.xml", false},
		{"uuid:a", "http://10.0.0.5/a.xml", false},
		{"a", "http://10.0.0.5/a.xml", false},
		{"KITCHEN", "http://10.0.0.5/a.xml", false},
		{"uuid:b", "", true},
		{"garage", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := reg.ResolveLocation(tt.ref)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveLocation() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveLocation() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestForgetAndUDNs(t *testing.T) {
	reg := NewRegistry()
	reg.EnsureDevice("uuid:z").FriendlyName = "Attic"
	reg.EnsureDevice("uuid:y").Nickname = "basement"
	reg.EnsureDevice("uuid:x").FriendlyName = "Cellar"

	got := reg.UDNs()
	want := []string{"uuid:z", "uuid:y", "uuid:x"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("UDNs() = %v, want %v", got, want)
		}
	}

	if !reg.Forget("uuid:y") || reg.Forget("uuid:y") {
		t.Error("Forget() should report true once")
	}
	if len(reg.Devices) != 2 {
		t.Errorf("len(Devices) = %d, want 2", len(reg.Devices))
	}
}

func BenchmarkResolveLocation(b *testing.B) {
	reg := NewRegistry()
	for i := range 50 {
		reg.EnsureDevice("uuid:" + strings.Repeat("a", i+1)).Location = "http://10.0.0.5/d.xml"
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = reg.ResolveLocation("unknown")
	}
}
