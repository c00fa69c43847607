package main

import (
	"encoding/json"
	"fmt"

	"github.com/aaraaapps/aaraa.app/pkg/uplink"
	"github.com/spf13/cobra"
)

func newHealthCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Show the gateway's health document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := global.client(cmd.Context(), false)
			if err != nil {
				return err
			}
			health, err := client.Health(cmd.Context())
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(health)
		},
	}
}

func newLoginCmd(global *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a bearer token for UPLINK_TOKEN",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if global.employeeID == "" {
				return fmt.Errorf("--employee is required")
			}
			client := uplink.NewClient(global.server, uplink.WithTimeout(global.timeout))
			token, err := client.Login(cmd.Context(), global.employeeID, global.password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
}
