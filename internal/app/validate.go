package app

import (
	"fmt"

	"github.com/adhocore/gronx"

	"clinichat/pkg/config"
)

// validateConfig performs fail-fast checks on the effective config.
func validateConfig(eff config.EffectiveConfigResult) error {
	if eff.Config == nil {
		return fmt.Errorf("no configuration loaded")
	}
	cfg := eff.Config

	// TLS must be all-or-nothing
	cert, key := cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile
	if (cert == "") != (key == "") {
		return fmt.Errorf("tls requires both cert_file and key_file")
	}

	if cfg.Retention.Enabled && cfg.Retention.Cron != "" {
		if !gronx.IsValid(cfg.Retention.Cron) {
			return fmt.Errorf("invalid retention cron expression: %s", cfg.Retention.Cron)
		}
	}

	if cfg.Retention.ArchiveAfter.Duration() < 0 || cfg.Retention.PurgeAfter.Duration() < 0 {
		return fmt.Errorf("retention windows must not be negative")
	}

	if cfg.Chat.SubscriberBuffer < 0 {
		return fmt.Errorf("chat.subscriber_buffer must not be negative")
	}

	return nil
}
