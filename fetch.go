package main

import (
	"fmt"

	"github.com/SEMalytics/claude-project-chat/internal/urlfetch"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
)

// fetchCommand fetches one or more URLs and prints their readable text,
// without involving the model. Useful to inspect what a fetch-url tool call
// would have returned.
func fetchCommand(flags cliFlags, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("missing URL to fetch")
	}
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	fetcher := urlfetch.New(cfg.ToolTimeout())
	if len(args) == 1 {
		content, err := fetcher.Fetch(args[0])
		if err != nil {
			return fmt.Errorf("failed to fetch '%v': %w", args[0], err)
		}
		fmt.Println(content)
		return nil
	}
	for _, res := range fetcher.FetchMultiple(args) {
		if res.Err != nil {
			ancli.PrintErr(fmt.Sprintf("failed to fetch '%v': %v\n", res.URL, res.Err))
			continue
		}
		fmt.Println(res.Content)
		fmt.Println()
	}
	return nil
}
