// Command uplink pushes files to the gateway's storage bucket and registers
// them as submissions, the same way the web client does.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/aaraaapps/aaraa.app/pkg/logger"
	"github.com/aaraaapps/aaraa.app/pkg/uplink"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	server     string
	timeout    time.Duration
	employeeID string
	password   string
	token      string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "uplink",
		Short: "Push files to the AARAA gateway",
		Long: `uplink sends files through the gateway's upload endpoint and records
them as submissions.

Authentication uses --token (or UPLINK_TOKEN), or signs in with
--employee and --password.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.timeout <= 0 {
				return fmt.Errorf("--timeout must be positive, got %s", opts.timeout)
			}
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			logger.Init(&logger.Config{Level: level, Format: "text", Output: cmd.ErrOrStderr()})
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.server, "server", envOr("UPLINK_SERVER", "http://localhost:8080"), "gateway base URL")
	flags.DurationVar(&opts.timeout, "timeout", uplink.DefaultTimeout, "abort an upload after this long")
	flags.StringVar(&opts.employeeID, "employee", os.Getenv("UPLINK_EMPLOYEE"), "employee id to sign in as")
	flags.StringVar(&opts.password, "password", os.Getenv("UPLINK_PASSWORD"), "password for --employee")
	flags.StringVar(&opts.token, "token", os.Getenv("UPLINK_TOKEN"), "bearer token from a previous sign-in")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newPushCmd(opts))
	root.AddCommand(newHealthCmd(opts))
	root.AddCommand(newLoginCmd(opts))
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// client builds an uplink client and signs in when no token was given
func (o *globalOptions) client(ctx context.Context, needAuth bool) (*uplink.Client, error) {
	c := uplink.NewClient(o.server, uplink.WithTimeout(o.timeout), uplink.WithToken(o.token))
	if !needAuth || o.token != "" {
		return c, nil
	}
	if o.employeeID == "" {
		return nil, fmt.Errorf("either --token or --employee is required")
	}
	if _, err := c.Login(ctx, o.employeeID, o.password); err != nil {
		return nil, err
	}
	return c, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
