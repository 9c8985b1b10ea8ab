package cli

import (
	"github.com/spf13/cobra"

	"github.com/ankittk/crewdeck/internal/config"
	"github.com/ankittk/crewdeck/internal/daemon"
)

func newDaemonCmd() *cobra.Command {
	var (
		port        int
		intervalSec float64
		dev         bool
		pprofAddr   string
		supKind     string
		tmuxBin     string
		dbDriver    string
		dbURL       string
		seedDemo    bool
		enableOtel  bool
	)

	cmd := &cobra.Command{
		Use:    "daemon",
		Short:  "Internal: run daemon process",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			home := config.MustHomeFrom(cmd.Context())
			return daemon.StartForeground(cmd.Context(), daemon.StartOptions{
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
			})
		},
	}

	cmd.Flags().IntVar(&port, "port", 3557, "Port for the HTTP API")
	cmd.Flags().Float64Var(&intervalSec, "interval", 5.0, "Orchestration tick interval (seconds)")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable dev mode")
	cmd.Flags().StringVar(&pprofAddr, "pprof", "", "Enable pprof on address (e.g. 127.0.0.1:6060)")
	cmd.Flags().StringVar(&supKind, "supervisor", "tmux", "Session supervisor: tmux or stub")
	cmd.Flags().StringVar(&tmuxBin, "tmux-bin", "", "Override tmux binary path")
	cmd.Flags().StringVar(&dbDriver, "db", "sqlite", "Store driver: sqlite or postgres")
	cmd.Flags().StringVar(&dbURL, "db-url", "", "DB connection string")
	cmd.Flags().BoolVar(&seedDemo, "seed-demo", false, "Seed the demo project on startup")
	cmd.Flags().BoolVar(&enableOtel, "otel", true, "Enable OpenTelemetry metrics")

	return cmd
}
