package main

import (
	"context"
	"fmt"
	"os"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/go_away_boilerplate/pkg/misc"
	"github.com/baalimago/go_away_boilerplate/pkg/shutdown"
)

const usage = `claude-project-chat - chat with a claude.ai project from your terminal

Prerequisites:
  - Set the CLAUDE_COOKIE environment variable to your claude.ai session cookie,
    or set ANTHROPIC_API_KEY to use the messages API instead (no server-side conversations)
  - (Optional) Set CLAUDE_CONVERSATION_ID to pin all messages to one project conversation
  - (Optional) Set CLAUDE_ALLOWED_TOOLS to a comma separated allow-list of tool names
  - (Optional) Set WEB_SEARCH_API_KEY to enable a web search provider

Usage: claude-project-chat [flags] <command>

Flags:
  -f, -file string            Attach a file to the query, repeatable. Text is extracted locally from pdf, docx, txt and md.
  -conv string                Conversation ID to use for this invocation, overrides config.

Commands:
  h|help                      Display this help message
  q|query <text>              Send a query through the tool loop and print the final answer
  f|fetch <url> [url...]      Fetch URLs and print their readable text, no model involved
  t|tools                     List the registered tools and whether they are allowed
  v|version                   Print the build version

  c|conversations l|list            List all conversations
  c|conversations n|new             Create a new conversation and print its ID
  c|conversations d|delete <id>     Delete the conversation with the given ID
  c|conversations hi|history <id>   Print the message history of a conversation

  cleanup                     Delete uploaded files older than the configured max age

Examples:
  - claude-project-chat query "What's in the project knowledge base?"
  - claude-project-chat -f report.pdf query "Summarize the attached report"
  - cat notes.md | claude-project-chat query
  - claude-project-chat conversations list
`

func main() {
	ancli.SetupSlog()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { shutdown.Monitor(cancel) }()
	err := run(ctx, os.Args[1:])
	cancel()
	if err != nil {
		ancli.PrintErr(fmt.Sprintf("failed to run: %v\n", err))
		os.Exit(1)
	}
	if misc.Truthy(os.Getenv("DEBUG")) {
		ancli.PrintOK("all done, bye bye!\n")
	}
}

func run(ctx context.Context, args []string) error {
	flags, args, err := parseFlags(args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}
	command := args[0]
	rest := args[1:]
	switch command {
	case "h", "help":
		fmt.Print(usage)
		return nil
	case "q", "query":
		return queryCommand(ctx, flags, rest)
	case "f", "fetch":
		return fetchCommand(flags, rest)
	case "t", "tools":
		return toolsCommand()
	case "c", "conversations":
		return conversationsCommand(ctx, flags, rest)
	case "cleanup":
		return cleanupCommand()
	case "v", "version":
		return printVersion()
	default:
		return fmt.Errorf("unknown command: '%v', see 'claude-project-chat help'", command)
	}
}
