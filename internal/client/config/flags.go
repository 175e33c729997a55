package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/itemgate/internal/flagx"
)

// parseFlags overlays cfg with the flags this package owns: -a, -u, -t, -d.
// Unknown flags are filtered out first so other loaders can share os.Args.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-u", "-t", "-d"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIGatewayURL, "a", cfg.APIGatewayURL, "API gateway base URL")
	fs.StringVar(&cfg.AuthAppURL, "u", cfg.AuthAppURL, "Auth App URL")
	fs.StringVar(&cfg.DataFile, "d", cfg.DataFile, "local preferences file")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
