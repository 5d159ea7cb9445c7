package logging

import (
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize_SilentByDefault(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "")
	if err := Initialize(""); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if GetLogger().Core().Enabled(zapcore.ErrorLevel) {
		t.Error("logger should be a no-op when no level is configured")
	}
}

func TestInitialize_FromEnv(t *testing.T) {
	t.Setenv(LogLevelEnvVar, "warn")
	if err := InitializeFromEnv(); err != nil {
		t.Fatalf("InitializeFromEnv() error = %v", err)
	}
	l := GetLogger()
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	SetLogger(nil)
}

func TestOr(t *testing.T) {
	own := zap.NewExample()
	if Or(own) != own {
		t.Error("Or() should return the supplied logger")
	}
	if Or(nil) == nil {
		t.Error("Or(nil) should never return nil")
	}
}

func TestLogSSDP_DebugOnly(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zap.New(core)

	LogSSDP(l, "received", "eth0", "192.168.1.1:1900", []byte("HTTP/1.1 200 OK\r\n"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["interface"] != "eth0" {
		t.Errorf("interface = %v, want eth0", fields["interface"])
	}
	if !strings.HasPrefix(fields["ascii"].(string), "HTTP/1.1 200 OK..") {
		t.Errorf("ascii = %q, want CRLF rendered as dots", fields["ascii"])
	}

	core, logs = observer.New(zapcore.InfoLevel)
	LogSSDP(zap.New(core), "sent", "eth0", "", []byte("x"))
	if logs.Len() != 0 {
		t.Error("LogSSDP should not log above debug level")
	}
}

func TestLogSOAPState(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	LogSOAPState(zap.New(core), "GetVolume", "Sent", zap.Int("status", 200))

	entry := logs.All()[0]
	fields := entry.ContextMap()
	if fields["action"] != "GetVolume" || fields["state"] != "Sent" {
		t.Errorf("fields = %v", fields)
	}
	if fields["status"] != int64(200) {
		t.Errorf("status = %v, want 200", fields["status"])
	}
}

func TestDumps(t *testing.T) {
	if hexDump(nil) != "" || asciiDump(nil) != "" {
		t.Error("empty input should produce empty dumps")
	}
	if got := hexDump([]byte{0x01, 0xff}); got != "01ff" {
		t.Errorf("hexDump() = %q, want 01ff", got)
	}
	long := make([]byte, maxDumpBytes+10)
	if got := hexDump(long); !strings.HasSuffix(got, "...") || len(got) != maxDumpBytes*2+3 {
		t.Errorf("hexDump() should truncate to %d bytes", maxDumpBytes)
	}
	if got := asciiDump(long); len(got) != maxDumpBytes {
		t.Errorf("asciiDump() length = %d, want %d", len(got), maxDumpBytes)
	}
}
