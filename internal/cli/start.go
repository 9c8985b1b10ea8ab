package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ankittk/crewdeck/internal/config"
	"github.com/ankittk/crewdeck/internal/daemon"
)

func newStartCmd() *cobra.Command {
	var (
		port        int
		foreground  bool
		intervalSec float64
		dev         bool
		pprofAddr   string
		supKind     string
		tmuxBin     string
		envFile     string
		dbDriver    string
		dbURL       string
		seedDemo    bool
		enableOtel  bool
	)

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the Crewdeck daemon (API + orchestration loop)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if envFile != "" {
				if err := loadEnvFile(envFile); err != nil {
					return err
				}
			}
			home := config.MustHomeFrom(cmd.Context())

			opts := daemon.StartOptions{
				Home:        home,
				Port:        port,
				IntervalSec: intervalSec,
				Dev:         dev,
				PprofAddr:   pprofAddr,
				Supervisor:  supKind,
				TmuxBin:     tmuxBin,
				DBDriver:    dbDriver,
				DBURL:       dbURL,
				SeedDemo:    seedDemo,
				EnableOtel:  enableOtel,
			}

			if foreground {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Starting Crewdeck in foreground on localhost:%d\n", port)
				return daemon.StartForeground(cmd.Context(), opts)
			}

			pid, err := daemon.StartBackground(cmd.Context(), opts)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Crewdeck started (pid %d)\n", pid)
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "API: http://localhost:%d\n", port)
			return nil
		},
	}

	cmd.Flags().IntVar(&port, "port", 3557, "Port for the HTTP API")
	cmd.Flags().BoolVar(&foreground, "foreground", false, "Run in foreground (do not daemonize)")
	cmd.Flags().Float64Var(&intervalSec, "interval", 5.0, "Orchestration tick interval (seconds)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable dev mode (permissive CORS)")
	cmd.Flags().StringVar(&pprofAddr, "pprof", "", "Enable pprof on address (e.g. 127.0.0.1:6060)")
	cmd.Flags().StringVar(&supKind, "supervisor", "tmux", "Session supervisor: tmux or stub")
	cmd.Flags().StringVar(&tmuxBin, "tmux-bin", "", "Override tmux binary path")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Load env vars from file (KEY=VALUE per line) before starting")
	cmd.Flags().StringVar(&dbDriver, "db", "sqlite", "Store driver: sqlite or postgres")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "DB connection string (for postgres; or set DATABASE_URL)")
	cmd.Flags().BoolVar(&seedDemo, "seed-demo", false, "Seed the demo project on startup")
	cmd.Flags().BoolVar(&enableOtel, "otel", true, "Enable OpenTelemetry metrics (Prometheus exporter, HTTP/SSE instrumentation)")

	return cmd
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		i := strings.Index(line, "=")
		if i <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:i])
		value := strings.TrimSpace(line[i+1:])
		if key != "" {
			_ = os.Setenv(key, value)
		}
	}
	return sc.Err()
}
