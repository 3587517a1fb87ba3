// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"

	"github.com/go-arcade/gatekeeper/pkg/version"
	"github.com/spf13/cobra"
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:           "gatekeeper-cli",
		Short:         "gatekeeper-cli manages a running gatekeeper",
		Long:          "gatekeeper-cli manages a running gatekeeper through its admin HTTP API",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&opts.server, "server", envOr("GATEKEEPER_SERVER", "http://127.0.0.1:8080"), "admin API address")
	cmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("GATEKEEPER_TOKEN"), "admin access token")

	cmd.AddCommand(
		version.VersionCmd,
		newTokenCmd(),
		newAutoVerifyCmd(opts),
		newForceUnverifyCmd(opts),
		newVerifyCmd(opts),
	)
	return cmd
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
