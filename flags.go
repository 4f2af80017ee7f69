package main

import (
	"flag"
	"fmt"
	"strings"
)

type cliFlags struct {
	files          fileList
	conversationID string
}

// fileList lets -f be repeated
type fileList []string

func (f *fileList) String() string {
	return strings.Join(*f, ",")
}

func (f *fileList) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func parseFlags(args []string) (cliFlags, []string, error) {
	var flags cliFlags
	fs := flag.NewFlagSet("claude-project-chat", flag.ContinueOnError)
	fs.Var(&flags.files, "f", "attach a file to the query, repeatable")
	fs.Var(&flags.files, "file", "attach a file to the query, repeatable")
	fs.StringVar(&flags.conversationID, "conv", "", "conversation ID to use for this invocation")
	fs.Usage = func() { fmt.Print(usage) }
	if err := fs.Parse(args); err != nil {
		return flags, nil, fmt.Errorf("failed to parse flags: %w", err)
	}
	return flags, fs.Args(), nil
}
