package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"bookstore-api/pkg/client"
)

const defaultAPIURL = "http://localhost:8080"

type options struct {
	apiURL      string
	sessionFile string
	jsonOutput  bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "bookstore",
		Short: "CLI for the bookstore catalog API",
		Long: `bookstore is a command-line client for the bookstore catalog API.

Environment Variables:
  BOOKSTORE_API_URL   Backend API URL (default: http://localhost:8080)`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "Backend API URL (overrides BOOKSTORE_API_URL)")
	root.PersistentFlags().StringVar(&opts.sessionFile, "session-file", "", "Where the login token is kept (default: user config dir)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output JSON instead of human-readable text")

	root.AddCommand(
		newRegisterCmd(opts),
		newLoginCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newAuthorsCmd(opts),
		newBooksCmd(opts),
	)
	return root
}

// url returns the API URL from flag, env, or default (in priority order).
func (o *options) url() string {
	if o.apiURL != "" {
		return o.apiURL
	}
	if envURL := os.Getenv("BOOKSTORE_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// client builds an API client and resumes the stored session, if any.
func (o *options) client(ctx context.Context) (*client.Client, error) {
	var store client.TokenStore
	if o.sessionFile != "" {
		store = client.NewFileStore(o.sessionFile)
	} else {
		fs, err := client.DefaultFileStore()
		if err != nil {
			return nil, err
		}
		store = fs
	}

	c := client.New(o.url(), store)
	if _, err := c.Restore(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (o *options) print(w io.Writer, v any, human func(io.Writer)) error {
	if !o.jsonOutput {
		human(w)
		return nil
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// done reports the outcome of a write call.
func done(w io.Writer, ok bool, err error, msg string) error {
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("request was not accepted")
	}
	_, err = fmt.Fprintln(w, msg)
	return err
}
