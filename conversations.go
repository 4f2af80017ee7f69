package main

import (
	"context"
	"fmt"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
)

func conversationsCommand(ctx context.Context, flags cliFlags, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing conversations subcommand, see 'claude-project-chat help'")
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	client, err := newClient(ctx, cfg)
	if err != nil {
		return err
	}
	subcommand := args[0]
	rest := args[1:]
	switch subcommand {
	case "l", "list":
		convos, err := client.ListConversations(ctx)
		if err != nil {
			return fmt.Errorf("failed to list conversations: %w", err)
		}
		if len(convos) == 0 {
			ancli.Noticef("no conversations found\n")
			return nil
		}
		for _, convo := range convos {
			name := convo.Name
			if name == "" {
				name = "(unnamed)"
			}
			fmt.Printf("%v\t%v\t%v\n", convo.UUID, convo.UpdatedAt, name)
		}
		return nil
	case "n", "new":
		id, err := client.CreateConversation(ctx, "")
		if err != nil {
			return fmt.Errorf("failed to create conversation: %w", err)
		}
		fmt.Println(id)
		return nil
	case "d", "delete":
		if len(rest) == 0 {
			return fmt.Errorf("missing conversation ID to delete")
		}
		ok, err := client.DeleteConversation(ctx, rest[0])
		if err != nil {
			return fmt.Errorf("failed to delete conversation: %w", err)
		}
		if !ok {
			return fmt.Errorf("conversation '%v' was not deleted", rest[0])
		}
		ancli.Okf("deleted conversation: %v\n", rest[0])
		return nil
	case "hi", "history":
		var id string
		if len(rest) > 0 {
			id = rest[0]
		}
		history, err := client.ConversationHistory(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get history: %w", err)
		}
		for _, msg := range history.ChatMessages {
			fmt.Printf("[%v]\n%v\n\n", msg.Sender, msg.Text)
		}
		return nil
	default:
		return fmt.Errorf("unknown conversations subcommand: '%v'", subcommand)
	}
}
