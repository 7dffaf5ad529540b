package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Bootstrap the store with mock contacts and conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, user, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := s.InitializeWithMockData(ctx, user); err != nil {
				return err
			}

			contacts, err := s.Contacts(ctx)
			if err != nil {
				return err
			}
			convs, err := s.Conversations(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("seeded: %d contacts, %d conversations\n", len(contacts), len(convs))
			return nil
		},
	}
}
