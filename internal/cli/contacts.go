package cli

import (
	"dbhelper/access"
	"dbhelper/bvalue"
	"dbhelper/predicate"
	"fmt"

	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// ContactsOptions holds flags shared by the contacts subcommands.
type ContactsOptions struct {
	*RootOptions
	ID    string
	Name  string
	Email string
	Phone string
	Age   int
	Where string
	Limit int
}

// NewContactsCommand creates the contacts command and its subcommands.
func NewContactsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ContactsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage contacts",
	}

	cmd.AddCommand(newAddCommand(opts))
	cmd.AddCommand(newListCommand(opts))
	cmd.AddCommand(newFirstCommand(opts))
	cmd.AddCommand(newSetCommand(opts))
	cmd.AddCommand(newRmCommand(opts))

	return cmd
}

func newAddCommand(opts *ContactsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &Contact{ID: opts.ID, Name: opts.Name, Email: opts.Email, Phone: opts.Phone, Age: opts.Age}
			if c.ID == "" {
				c.ID = bvalue.NewID().String()
			}
			return opts.withContacts(func(store *access.Store[*Contact]) error {
				if err := store.Create(c); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), c.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&opts.ID, "id", "", "contact id, generated when empty")
	cmd.Flags().StringVar(&opts.Name, "name", "", "contact name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "phone number")
	cmd.Flags().IntVar(&opts.Age, "age", 0, "age in years")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newListCommand(opts *ContactsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts matching a filter",
		Long: `List contacts matching a filter.

Example:
  dbhelper contacts list --where 'age > 25 and name != "bob"' --limit 10`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pred, err := parseWhere(opts.Where)
			if err != nil {
				return err
			}
			limit := mo.None[int]()
			if cmd.Flags().Changed("limit") {
				limit = mo.Some(opts.Limit)
			}

			return opts.withContacts(func(store *access.Store[*Contact]) error {
				contacts, err := store.Fetch(pred, limit).Get()
				if err != nil {
					return err
				}
				return writeContacts(cmd.OutOrStdout(), opts.Format, contacts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Where, "where", "w", "", "filter expression")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "maximum number of contacts")

	return cmd
}

func newFirstCommand(opts *ContactsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "first",
		Short: "Show the first contact matching a filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pred, err := parseWhere(opts.Where)
			if err != nil {
				return err
			}

			return opts.withContacts(func(store *access.Store[*Contact]) error {
				first, err := store.FetchFirst(pred).Get()
				if err != nil {
					return err
				}
				c, ok := first.Get()
				if !ok {
					return NewExitError(ExitFailure, "no contact matches")
				}
				return writeContacts(cmd.OutOrStdout(), opts.Format, []*Contact{c})
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Where, "where", "w", "", "filter expression")

	return cmd
}

func newSetCommand(opts *ContactsOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set <id>",
		Short: "Change fields of a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContacts(func(store *access.Store[*Contact]) error {
				c, err := findByID(store, args[0])
				if err != nil {
					return err
				}

				flags := cmd.Flags()
				if flags.Changed("name") {
					c.Name = opts.Name
				}
				if flags.Changed("email") {
					c.Email = opts.Email
				}
				if flags.Changed("phone") {
					c.Phone = opts.Phone
				}
				if flags.Changed("age") {
					c.Age = opts.Age
				}
				return store.Update(c)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "contact name")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.Phone, "phone", "", "phone number")
	cmd.Flags().IntVar(&opts.Age, "age", 0, "age in years")

	return cmd
}

func newRmCommand(opts *ContactsOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withContacts(func(store *access.Store[*Contact]) error {
				c, err := findByID(store, args[0])
				if err != nil {
					return err
				}
				return store.Delete(c)
			})
		},
	}
}

func (o *RootOptions) withContacts(f func(store *access.Store[*Contact]) error) error {
	e, err := o.openEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := access.NewContext(e, access.WithLogger(o.log))
	defer ctx.Close()

	store, err := access.Use[*Contact](ctx)
	if err != nil {
		return err
	}
	return f(store)
}

func parseWhere(where string) (mo.Option[predicate.Predicate], error) {
	if where == "" {
		return mo.None[predicate.Predicate](), nil
	}
	pred, err := predicate.Parse(where)
	if err != nil {
		return mo.None[predicate.Predicate](), WrapExitError(ExitUsage, "invalid --where", err)
	}
	return mo.Some(pred), nil
}

func findByID(store *access.Store[*Contact], id string) (*Contact, error) {
	byID := predicate.Func("id", func(c *Contact) bool { return c.ID == id })
	first, err := store.FetchFirst(mo.Some(byID)).Get()
	if err != nil {
		return nil, err
	}
	c, ok := first.Get()
	if !ok {
		return nil, NewExitError(ExitFailure, fmt.Sprintf("contact %s not found", id))
	}
	return c, nil
}
