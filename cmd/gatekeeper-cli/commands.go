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
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/adminclient"
	"github.com/go-arcade/gatekeeper/internal/gatekeeper/model"
	"github.com/go-arcade/gatekeeper/pkg/http/jwt"
	"github.com/spf13/cobra"
)

type globalOptions struct {
	server string
	token  string
}

func (o *globalOptions) client() (*adminclient.Client, error) {
	if o.token == "" {
		return nil, errors.New("an access token is required (--token or GATEKEEPER_TOKEN)")
	}
	return adminclient.New(o.server, o.token), nil
}

func newTokenCmd() *cobra.Command {
	var (
		secret string
		actor  string
		expire time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Sign an admin access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(secret) < 16 {
				return errors.New("--secret must be at least 16 characters")
			}
			tok, err := jwt.GenToken(actor, []byte(secret), expire)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", envOr("GATEKEEPER_SECRET", ""), "http.auth.secretKey of the server")
	cmd.Flags().StringVar(&actor, "actor", "", "admin user ID recorded in audit entries")
	cmd.Flags().DurationVar(&expire, "expire", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("actor")
	return cmd
}

func newAutoVerifyCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autoverify",
		Short: "Show or change the auto-verify policy",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print whether auto-verify is enabled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			enabled, err := c.AutoVerify(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatBool(enabled))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:       "set <true|false>",
		Short:     "Enable or disable auto-verify",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"true", "false"},
		RunE: func(cmd *cobra.Command, args []string) error {
			enabled, err := strconv.ParseBool(args[0])
			if err != nil {
				return fmt.Errorf("invalid value %q: %w", args[0], err)
			}
			c, err := opts.client()
			if err != nil {
				return err
			}
			rec, err := c.SetAutoVerify(cmd.Context(), enabled)
			if err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), rec)
		},
	})
	return cmd
}

func newForceUnverifyCmd(opts *globalOptions) *cobra.Command {
	var reason string
	cmd := &cobra.Command{
		Use:   "force-unverify <space> <member>",
		Short: "Move a member to the unverified role set",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			rec, err := c.ForceUnverify(cmd.Context(), args[0], args[1], reason)
			if err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), rec)
		},
	}
	cmd.Flags().StringVar(&reason, "reason", "", "reason stored in the audit record")
	return cmd
}

func newVerifyCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <space> <member>",
		Short: "Manually verify a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client()
			if err != nil {
				return err
			}
			rec, err := c.Verify(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return printRecord(cmd.OutOrStdout(), rec)
		},
	}
}

func printRecord(w io.Writer, rec model.AuditRecord) error {
	b, err := sonic.ConfigStd.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
