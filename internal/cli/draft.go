package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Manage per-conversation drafts",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set <conversation-id> <text...>",
		Short: "Save a draft",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			return s.SaveDraft(ctx, args[0], strings.Join(args[1:], " "))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "get <conversation-id>",
		Short: "Print the saved draft, if any",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			text, err := s.Draft(ctx, args[0])
			if err != nil {
				return err
			}
			if text != "" {
				fmt.Println(text)
			}
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear <conversation-id>",
		Short: "Discard the saved draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			return s.ClearDraft(ctx, args[0])
		},
	})
	return cmd
}
