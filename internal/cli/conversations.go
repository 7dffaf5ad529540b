package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/soyeahso/pocketchat/internal/domain"
)

func newConversationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "conversations",
		Aliases: []string{"conv"},
		Short:   "List and manage conversations",
	}

	cmd.AddCommand(newConversationsListCmd())
	cmd.AddCommand(newConversationsStartCmd())
	cmd.AddCommand(newConversationsGroupCmd())
	cmd.AddCommand(newConversationsFlagCmd("pin", "Pin or unpin a conversation"))
	cmd.AddCommand(newConversationsFlagCmd("mute", "Mute or unmute a conversation"))
	cmd.AddCommand(newConversationsFlagCmd("archive", "Archive or unarchive a conversation"))
	cmd.AddCommand(newConversationsReadCmd())
	cmd.AddCommand(newConversationsDeleteCmd())
	cmd.AddCommand(newConversationsUnreadCmd())
	return cmd
}

func newConversationsListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List conversations as display rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, user, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			items, err := s.SearchConversations(ctx, search, user.ID)
			if err != nil {
				return err
			}
			for _, it := range items {
				marks := ""
				if it.IsPinned {
					marks += " [pinned]"
				}
				if it.IsMuted {
					marks += " [muted]"
				}
				unread := ""
				if it.UnreadCount > 0 {
					unread = " (" + strconv.Itoa(it.UnreadCount) + " unread)"
				}
				fmt.Printf("%-20s %-24s %s%s%s\n", it.ID, it.DisplayName, it.LastMessagePreview, unread, marks)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "filter by display name or last message preview")
	return cmd
}

func newConversationsStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <contact-id>",
		Short: "Start (or return) the direct conversation with a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, user, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			contacts, err := s.Contacts(ctx)
			if err != nil {
				return err
			}
			var other *domain.Participant
			for i := range contacts {
				if contacts[i].ID == args[0] {
					other = &contacts[i]
					break
				}
			}
			if other == nil {
				return fmt.Errorf("no contact with id %q", args[0])
			}

			conv, err := s.CreateDirect(ctx, user, *other)
			if err != nil {
				return err
			}
			fmt.Println(conv.ID)
			return nil
		},
	}
}

func newConversationsGroupCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "group <name> <contact-id>...",
		Short: "Create a group conversation",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, user, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			contacts, err := s.Contacts(ctx)
			if err != nil {
				return err
			}
			byID := make(map[string]domain.Participant, len(contacts))
			for _, c := range contacts {
				byID[c.ID] = c
			}

			var members []domain.Participant
			for _, id := range args[1:] {
				p, ok := byID[id]
				if !ok {
					return fmt.Errorf("no contact with id %q", id)
				}
				members = append(members, p)
			}

			conv, err := s.CreateGroup(ctx, user, members, args[0], "", description)
			if err != nil {
				return err
			}
			fmt.Println(conv.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "group description")
	return cmd
}

// newConversationsFlagCmd builds the pin/mute/archive family; each is a
// single-flag round trip on the store.
func newConversationsFlagCmd(name, short string) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   name + " <conversation-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConversationFlag(cmd, args[0], name, !off)
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "clear the flag instead of setting it")
	return cmd
}

func setConversationFlag(cmd *cobra.Command, id, flag string, value bool) error {
	ctx := cmd.Context()
	s, _, closeStore, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	switch flag {
	case "pin":
		return s.SetPinned(ctx, id, value)
	case "mute":
		return s.SetMuted(ctx, id, value)
	case "archive":
		return s.SetArchived(ctx, id, value)
	}
	return fmt.Errorf("unknown flag %q", flag)
}

func newConversationsReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <conversation-id>",
		Short: "Mark a conversation as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			return s.MarkRead(ctx, args[0])
		},
	}
}

func newConversationsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <conversation-id>",
		Short: "Delete a conversation, its messages and its draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			return s.DeleteConversation(ctx, args[0])
		},
	}
}

func newConversationsUnreadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unread",
		Short: "Show unread totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			total, err := s.TotalUnread(ctx)
			if err != nil {
				return err
			}
			direct, err := s.DirectUnread(ctx)
			if err != nil {
				return err
			}
			group, err := s.GroupUnread(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("total: %d  direct: %d  group: %d\n", total, direct, group)
			return nil
		},
	}
}
