package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/soyeahso/pocketchat/internal/domain"
)

func newContactsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage the contact directory",
	}

	cmd.AddCommand(newContactsListCmd())
	cmd.AddCommand(newContactsAddCmd())
	cmd.AddCommand(newContactsRemoveCmd())
	return cmd
}

func newContactsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			contacts, err := s.Contacts(ctx)
			if err != nil {
				return err
			}
			for _, c := range contacts {
				online := ""
				if c.IsOnline {
					online = " (online)"
				}
				fmt.Printf("%-12s %-24s %s%s\n", c.ID, c.Name, c.Role, online)
			}
			return nil
		},
	}
}

func newContactsAddCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "add <id> <name>",
		Short: "Add or replace a contact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			return s.AddContact(ctx, domain.Participant{
				ID:   args[0],
				Name: args[1],
				Role: role,
			})
		},
	}

	cmd.Flags().StringVar(&role, "role", "member", "contact role")
	return cmd
}

func newContactsRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			return s.RemoveContact(ctx, args[0])
		},
	}
}
