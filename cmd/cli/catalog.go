package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"bookstore-api/pkg/client"
)

func newAuthorsCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "authors",
		Short: "Manage authors",
	}

	resource := func(c *client.Client) *client.Resource[client.Author] { return c.Authors() }
	table := func(w io.Writer, authors []client.Author) {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tFIRST NAME\tLAST NAME")
		for _, a := range authors {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", a.ID, a.FirstName, a.LastName)
		}
		_ = tw.Flush()
	}

	var a client.Author
	authorFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&a.FirstName, "first-name", "", "First name")
		c.Flags().StringVar(&a.LastName, "last-name", "", "Last name")
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := c.Authors().Create(cmd.Context(), &a)
			return done(cmd.OutOrStdout(), ok, err, fmt.Sprintf("Created author %d", a.ID))
		},
	}
	authorFlags(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace an author",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			a.ID = id
			ok, err := c.Authors().Update(cmd.Context(), id, &a)
			return done(cmd.OutOrStdout(), ok, err, fmt.Sprintf("Updated author %d", id))
		},
	}
	authorFlags(update)

	cmd.AddCommand(
		listCmd(opts, "authors", resource, table),
		getCmd(opts, "author", resource, func(w io.Writer, a *client.Author) { table(w, []client.Author{*a}) }),
		create,
		update,
		deleteCmd(opts, "author", resource),
	)
	return cmd
}

func newBooksCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Manage books",
	}

	resource := func(c *client.Client) *client.Resource[client.Book] { return c.Books() }
	table := func(w io.Writer, books []client.Book) {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTITLE\tYEAR\tISBN\tPRICE\tAUTHOR")
		for _, b := range books {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%d\n", b.ID, b.Title, b.Year, b.ISBN, b.Price.StringFixed(2), b.AuthorID)
		}
		_ = tw.Flush()
	}

	var (
		b     client.Book
		price string
	)
	bookFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&b.Title, "title", "", "Title")
		c.Flags().IntVar(&b.Year, "year", 0, "Year published")
		c.Flags().StringVar(&b.ISBN, "isbn", "", "ISBN")
		c.Flags().StringVar(&b.Summary, "summary", "", "Summary")
		c.Flags().StringVar(&b.Image, "image", "", "Cover image URL")
		c.Flags().StringVar(&price, "price", "0", "Price")
		c.Flags().Int64Var(&b.AuthorID, "author-id", 0, "Author id")
	}
	parsePrice := func() error {
		p, err := decimal.NewFromString(price)
		if err != nil {
			return fmt.Errorf("invalid price %q: %w", price, err)
		}
		b.Price = p
		return nil
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := parsePrice(); err != nil {
				return err
			}
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := c.Books().Create(cmd.Context(), &b)
			return done(cmd.OutOrStdout(), ok, err, fmt.Sprintf("Created book %d", b.ID))
		},
	}
	bookFlags(create)

	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace a book",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := parsePrice(); err != nil {
				return err
			}
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			b.ID = id
			ok, err := c.Books().Update(cmd.Context(), id, &b)
			return done(cmd.OutOrStdout(), ok, err, fmt.Sprintf("Updated book %d", id))
		},
	}
	bookFlags(update)

	cmd.AddCommand(
		listCmd(opts, "books", resource, table),
		getCmd(opts, "book", resource, func(w io.Writer, b *client.Book) { table(w, []client.Book{*b}) }),
		create,
		update,
		deleteCmd(opts, "book", resource),
	)
	return cmd
}

func listCmd[T any](opts *options, plural string, resource func(*client.Client) *client.Resource[T], human func(io.Writer, []T)) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all " + plural,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			items, err := resource(c).List(cmd.Context())
			if err != nil {
				return err
			}
			return opts.print(cmd.OutOrStdout(), items, func(w io.Writer) { human(w, items) })
		},
	}
}

func getCmd[T any](opts *options, noun string, resource func(*client.Client) *client.Resource[T], human func(io.Writer, *T)) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			item, err := resource(c).Get(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("%s %d: %w", noun, id, err)
			}
			return opts.print(cmd.OutOrStdout(), item, func(w io.Writer) { human(w, item) })
		},
	}
}

func deleteCmd[T any](opts *options, noun string, resource func(*client.Client) *client.Resource[T]) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + noun,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, err := opts.client(cmd.Context())
			if err != nil {
				return err
			}
			ok, err := resource(c).Delete(cmd.Context(), id)
			return done(cmd.OutOrStdout(), ok, err, fmt.Sprintf("Deleted %s %d", noun, id))
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
