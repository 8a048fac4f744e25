package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadParsesScalars(t *testing.T) {
	p := writeTempConfig(t, `
server:
  address: 127.0.0.1
  port: 9090
chat:
  history_limit: 25
  max_message_bytes: 4KB
retention:
  enabled: true
  cron: "*/5 * * * *"
  archive_after: 168h
  purge_after: 720h
stream:
  heartbeat: 15s
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr() != "127.0.0.1:9090" {
		t.Fatalf("Addr: %s", cfg.Addr())
	}
	if cfg.Chat.MaxMessageBytes.Int() != 4096 {
		t.Fatalf("MaxMessageBytes: %d", cfg.Chat.MaxMessageBytes.Int())
	}
	if cfg.Retention.ArchiveAfter.Duration() != 168*time.Hour {
		t.Fatalf("ArchiveAfter: %v", cfg.Retention.ArchiveAfter.Duration())
	}
	if cfg.Stream.Heartbeat.Duration() != 15*time.Second {
		t.Fatalf("Heartbeat: %v", cfg.Stream.Heartbeat.Duration())
	}
	if !cfg.Retention.Enabled || cfg.Retention.Cron != "*/5 * * * *" {
		t.Fatalf("retention: %+v", cfg.Retention)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestAddrDefaults(t *testing.T) {
	var cfg Config
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Fatalf("default addr: %s", cfg.Addr())
	}
}

func TestDurationNumericSeconds(t *testing.T) {
	p := writeTempConfig(t, "stream:\n  heartbeat: 30\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Stream.Heartbeat.Duration() != 30*time.Second {
		t.Fatalf("numeric seconds: %v", cfg.Stream.Heartbeat.Duration())
	}
}

func TestResolveConfigPathEnv(t *testing.T) {
	t.Setenv("CLINICHAT_CONFIG", "/tmp/from-env.yaml")
	if got := ResolveConfigPath("./config.yaml", false); got != "/tmp/from-env.yaml" {
		t.Fatalf("env should win when flag unset: %s", got)
	}
	if got := ResolveConfigPath("./explicit.yaml", true); got != "./explicit.yaml" {
		t.Fatalf("flag should win when set: %s", got)
	}
}

func TestParseConfigEnvs(t *testing.T) {
	t.Setenv("CLINICHAT_ADDR", "10.0.0.1:9000")
	t.Setenv("CLINICHAT_API_BACKEND_KEYS", "bk1, bk2")
	t.Setenv("CLINICHAT_SIGNING_KEYS", "sk1")
	t.Setenv("CLINICHAT_RETENTION_ENABLED", "true")

	cfg, res := ParseConfigEnvs()
	if !res.EnvUsed {
		t.Fatalf("EnvUsed should be true")
	}
	if cfg.Server.Address != "10.0.0.1" || cfg.Server.Port != 9000 {
		t.Fatalf("addr not split: %+v", cfg.Server)
	}
	if len(cfg.Security.APIKeys.Backend) != 2 {
		t.Fatalf("backend keys: %+v", cfg.Security.APIKeys.Backend)
	}
	if _, ok := res.SigningKeys["sk1"]; !ok {
		t.Fatalf("explicit signing key missing")
	}
	if _, ok := res.SigningKeys["bk1"]; !ok {
		t.Fatalf("backend keys should double as signing keys")
	}
	if !cfg.Retention.Enabled {
		t.Fatalf("retention env not applied")
	}
}

func TestLoadEffectiveConfigPrecedence(t *testing.T) {
	fileCfg := &Config{}
	fileCfg.Server.Port = 7000
	envCfg := &Config{}
	envCfg.Server.Port = 6000

	// explicit --config wins and requires the file
	eff, err := LoadEffectiveConfig(Flags{Config: "x.yaml", Set: map[string]bool{"config": true}}, fileCfg, true, envCfg, EnvResult{})
	if err != nil || eff.Source != "config" || eff.Addr != "0.0.0.0:7000" {
		t.Fatalf("config source: %+v err=%v", eff, err)
	}
	if _, err := LoadEffectiveConfig(Flags{Config: "x.yaml", Set: map[string]bool{"config": true}}, &Config{}, false, envCfg, EnvResult{}); err == nil {
		t.Fatalf("missing explicit config must error")
	}

	// addr flag wins over file and env
	eff, err = LoadEffectiveConfig(Flags{Addr: ":5000", Set: map[string]bool{"addr": true}}, fileCfg, true, envCfg, EnvResult{})
	if err != nil || eff.Source != "flags" || eff.Addr != ":5000" {
		t.Fatalf("flags source: %+v err=%v", eff, err)
	}

	// file beats env when present
	eff, err = LoadEffectiveConfig(Flags{Set: map[string]bool{}}, fileCfg, true, envCfg, EnvResult{})
	if err != nil || eff.Source != "config" {
		t.Fatalf("file should win: %+v err=%v", eff, err)
	}

	// env is the fallback
	eff, err = LoadEffectiveConfig(Flags{Set: map[string]bool{}}, &Config{}, false, envCfg, EnvResult{})
	if err != nil || eff.Source != "env" || eff.Addr != "0.0.0.0:6000" {
		t.Fatalf("env fallback: %+v err=%v", eff, err)
	}
}
