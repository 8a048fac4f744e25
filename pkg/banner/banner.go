package banner

import (
	"fmt"

	"clinichat/pkg/config"
)

const banner = `
 ██████╗██╗     ██╗███╗   ██╗██╗ ██████╗██╗  ██╗ █████╗ ████████╗
██╔════╝██║     ██║████╗  ██║██║██╔════╝██║  ██║██╔══██╗╚══██╔══╝
██║     ██║     ██║██╔██╗ ██║██║██║     ███████║███████║   ██║
██║     ██║     ██║██║╚██╗██║██║██║     ██╔══██║██╔══██║   ██║
╚██████╗███████╗██║██║ ╚████║██║╚██████╗██║  ██║██║  ██║   ██║
 ╚═════╝╚══════╝╚═╝╚═╝  ╚═══╝╚═╝ ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝
`

// PrintWithEff prints the startup banner with the effective runtime
// settings and a readiness checklist.
func PrintWithEff(eff config.EffectiveConfigResult, version string) {
	addr := eff.Addr
	if addr == "" && eff.Config != nil {
		addr = eff.Config.Addr()
	}
	src := eff.Source
	if src == "" {
		src = "flags"
	}

	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	fmt.Printf("Config: %s\n", src)

	fmt.Println("\n== Examples ===================================================")
	fmt.Println("curl -X POST 'http://<host>:<port>/v1/threads' -d '{\"user_id\": \"u1\"}'")
	fmt.Println("curl -X POST 'http://<host>:<port>/v1/threads/<id>/messages' -d '{\"text\": \"hello\", \"sender_role\": \"patient\"}'")
	fmt.Println("curl -N 'http://<host>:<port>/v1/threads/<id>/events'")

	fmt.Println("\n== Production? =================================================")
	be, fe, ak := 0, 0, 0
	if eff.Config != nil {
		be = len(eff.Config.Security.APIKeys.Backend)
		fe = len(eff.Config.Security.APIKeys.Frontend)
		ak = len(eff.Config.Security.APIKeys.Admin)
	}
	if be > 0 {
		fmt.Printf("- Backend API keys: OK (%d)\n", be)
	} else {
		fmt.Println("- Backend API keys: MISSING (required for backend services)")
	}
	if fe > 0 {
		fmt.Printf("- Frontend API keys: OK (%d)\n", fe)
	} else {
		fmt.Println("- Frontend API keys: MISSING (required for client access)")
	}
	if ak > 0 {
		fmt.Printf("- Admin API keys: OK (%d)\n", ak)
	} else {
		fmt.Println("- Admin API keys: MISSING (required for admin tooling)")
	}

	tlsOK := eff.Config != nil && eff.Config.Server.TLS.CertFile != "" && eff.Config.Server.TLS.KeyFile != ""
	if tlsOK {
		fmt.Println("- TLS: configured")
	} else {
		fmt.Println("- TLS: unconfigured")
	}

	if eff.Config != nil && eff.Config.Retention.Enabled {
		cron := eff.Config.Retention.Cron
		if cron == "" {
			cron = "*/10 * * * *"
		}
		fmt.Printf("- Retention: enabled (cron=%s)\n", cron)
	} else {
		fmt.Println("- Retention: disabled")
	}

	fmt.Println("\n== Logs: =================================================")
}
