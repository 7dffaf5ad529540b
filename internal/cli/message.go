package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soyeahso/pocketchat/internal/domain"
	"github.com/soyeahso/pocketchat/internal/store"
)

func newMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "message",
		Short: "Send and browse messages",
	}
	cmd.AddCommand(newMessageSendCmd())
	cmd.AddCommand(newMessageListCmd())
	cmd.AddCommand(newMessageSearchCmd())
	cmd.AddCommand(newMessageDeleteCmd())
	cmd.AddCommand(newMessageReactCmd())
	return cmd
}

func newMessageSendCmd() *cobra.Command {
	var msgType string
	var replyTo string

	cmd := &cobra.Command{
		Use:   "send <conversation-id> <text...>",
		Short: "Append a message to a conversation",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, user, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			mt := domain.MessageType(msgType)
			if !mt.Valid() {
				return fmt.Errorf("unknown message type %q", msgType)
			}
			msg, err := s.AppendMessage(ctx, args[0], user.Participant(), store.AppendInput{
				Type:      mt,
				Content:   strings.Join(args[1:], " "),
				ReplyToID: replyTo,
			})
			if err != nil {
				return err
			}
			fmt.Println(msg.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&msgType, "type", string(domain.MessageText), "message type (text, image, voice, file)")
	cmd.Flags().StringVar(&replyTo, "reply-to", "", "id of the message being replied to")
	return cmd
}

func newMessageListCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list <conversation-id>",
		Short: "Show a page of messages, oldest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			msgs, err := s.Messages(ctx, args[0], limit, offset)
			if err != nil {
				return err
			}
			printMessages(msgs)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", store.DefaultPageSize, "messages per page")
	cmd.Flags().IntVar(&offset, "offset", 0, "messages to skip, counted from the newest")
	return cmd
}

func newMessageSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <conversation-id> <query>",
		Short: "Search a conversation's history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			msgs, err := s.SearchMessages(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			printMessages(msgs)
			return nil
		},
	}
}

func newMessageDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <conversation-id> <message-id>",
		Short: "Soft-delete a message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, _, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			return s.SoftDeleteMessage(ctx, args[0], args[1])
		},
	}
}

func newMessageReactCmd() *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "react <conversation-id> <message-id> <emoji>",
		Short: "Add or remove a reaction",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, user, closeStore, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			if remove {
				return s.RemoveReaction(ctx, args[0], args[1], user.ID, args[2])
			}
			return s.AddReaction(ctx, args[0], args[1], user.ID, args[2])
		},
	}
	cmd.Flags().BoolVar(&remove, "remove", false, "remove the reaction instead of adding it")
	return cmd
}

func printMessages(msgs []domain.Message) {
	for _, m := range msgs {
		content := m.Content
		if m.IsDeleted {
			content = "(deleted)"
		}
		fmt.Printf("%s  %-12s %s\n", m.CreatedAt.Format("2006-01-02 15:04"), m.SenderID, content)
	}
}
