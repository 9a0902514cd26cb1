package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"bookstore-api/pkg/client"
)

func newRegisterCmd(opts *options) *cobra.Command {
	var m client.RegistrationModel

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			if m.ConfirmPassword == "" {
				m.ConfirmPassword = m.Password
			}
			ok, err := c.Register(cmd.Context(), m)
			return done(cmd.OutOrStdout(), ok, err, "Registered "+m.EmailAddress)
		},
	}

	cmd.Flags().StringVar(&m.EmailAddress, "email", "", "Email address")
	cmd.Flags().StringVar(&m.Password, "password", "", "Password (5 to 10 characters)")
	cmd.Flags().StringVar(&m.ConfirmPassword, "confirm", "", "Password confirmation (defaults to --password)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCmd(opts *options) *cobra.Command {
	var m client.LoginModel

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the token for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := c.Login(cmd.Context(), m)
			return done(cmd.OutOrStdout(), ok, err, "Logged in as "+m.EmailAddress)
		},
	}

	cmd.Flags().StringVar(&m.EmailAddress, "email", "", "Email address")
	cmd.Flags().StringVar(&m.Password, "password", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.Logout(cmd.Context()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		},
	}
}

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity behind the stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			if c.State() != client.Authenticated {
				return fmt.Errorf("not logged in")
			}
			me, err := c.Me(cmd.Context())
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), me, func(w io.Writer) {
				fmt.Fprintf(w, "Email:   %s\nUser ID: %s\nRoles:   %s\n", me.Email, me.UserID, strings.Join(me.Roles, ", "))
			})
		},
	}
}
