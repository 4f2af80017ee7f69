package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/SEMalytics/claude-project-chat/internal/claude"
	"github.com/SEMalytics/claude-project-chat/internal/config"
	"github.com/SEMalytics/claude-project-chat/internal/convo"
	"github.com/SEMalytics/claude-project-chat/internal/fileproc"
	"github.com/SEMalytics/claude-project-chat/internal/tools"
	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
)

func loadConfig(flags cliFlags) (config.Config, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to find config dir: %w", err)
	}
	cfg, err := config.Load(configDir)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}
	if flags.conversationID != "" {
		cfg.ConversationID = flags.conversationID
	}
	return cfg, nil
}

func newClient(ctx context.Context, cfg config.Config) (*claude.Client, error) {
	if cfg.Cookie == "" {
		return nil, fmt.Errorf("CLAUDE_COOKIE is not set, see 'claude-project-chat help'")
	}
	return claude.New(ctx, claude.Config{
		Cookie:         cfg.Cookie,
		ConversationID: cfg.ConversationID,
		UserAgent:      cfg.UserAgent,
		Timeout:        cfg.RequestTimeout(),
	})
}

// newSender picks the transport: the cookie-authenticated web client when
// CLAUDE_COOKIE is set, the messages API with local history otherwise.
func newSender(ctx context.Context, cfg config.Config, files []string) (convo.Sender, error) {
	if cfg.Cookie != "" {
		client, err := newClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		sender := &attachmentSender{client: client}
		if len(files) > 0 {
			proc, err := fileproc.New(cfg.UploadDir)
			if err != nil {
				return nil, err
			}
			sender.attachments, err = buildAttachments(proc, files)
			if err != nil {
				return nil, err
			}
		}
		return sender, nil
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("set CLAUDE_COOKIE or ANTHROPIC_API_KEY, see 'claude-project-chat help'")
	}
	client, err := claude.NewAPIClient(claude.APIConfig{
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.RequestTimeout(),
	})
	if err != nil {
		return nil, err
	}
	return &apiSender{client: client, files: files}, nil
}

// apiSender adapts the messages API to the loop. The API keeps no server
// side state, so previous turns ride along as local history. Files only go
// on the first turn.
type apiSender struct {
	client  *claude.APIClient
	files   []string
	history []claude.APIMessage
}

func (a *apiSender) Send(ctx context.Context, message string) (string, error) {
	files := a.files
	if len(a.history) > 0 {
		files = nil
	}
	answer, err := a.client.SendMessage(ctx, message, files, a.history, "")
	if err != nil {
		return "", err
	}
	a.history = append(a.history,
		claude.APIMessage{Role: "user", Content: message},
		claude.APIMessage{Role: "assistant", Content: answer},
	)
	return answer, nil
}

// webSender is the slice of the web client the query path needs.
type webSender interface {
	Send(ctx context.Context, message string, attachments []claude.Attachment) (string, error)
}

// attachmentSender sends messages through the client, including the
// attachments only on the first delivered turn. Follow-up turns carry tool
// results, re-attaching the documents would bloat every round trip. A
// failed send does not count as delivered, a retry carries them again.
type attachmentSender struct {
	client      webSender
	attachments []claude.Attachment
	sent        bool
}

func (a *attachmentSender) Send(ctx context.Context, message string) (string, error) {
	attachments := a.attachments
	if a.sent {
		attachments = nil
	}
	answer, err := a.client.Send(ctx, message, attachments)
	if err != nil {
		return "", err
	}
	a.sent = true
	return answer, nil
}

// buildAttachments stores each file in the upload dir and extracts its text
// locally. Files whose format has no extractor are rejected up front.
func buildAttachments(proc *fileproc.Processor, files []string) ([]claude.Attachment, error) {
	var attachments []claude.Attachment
	for _, file := range files {
		if !fileproc.Supported(file) {
			return nil, fmt.Errorf("unsupported attachment format: '%v', supported: pdf, docx, txt, md", file)
		}
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("failed to open attachment: %w", err)
		}
		stored, size, err := proc.SaveFile(f, filepath.Base(file))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to store attachment: %w", err)
		}
		text, ok := proc.ExtractText(stored)
		if !ok {
			return nil, fmt.Errorf("failed to extract text from: '%v'", file)
		}
		attachments = append(attachments, claude.Attachment{
			FileName:         filepath.Base(stored),
			FileType:         fileproc.MimeType(stored),
			FileSize:         size,
			ExtractedContent: text,
		})
	}
	return attachments, nil
}

func queryCommand(ctx context.Context, flags cliFlags, args []string) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}
	prompt := strings.Join(args, " ")
	if prompt == "" {
		stdin, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read prompt from stdin: %w", err)
		}
		prompt = strings.TrimSpace(string(stdin))
	}
	if prompt == "" {
		return fmt.Errorf("no prompt given, pass it as arguments or on stdin")
	}

	sender, err := newSender(ctx, cfg, flags.files)
	if err != nil {
		return err
	}
	handler := tools.NewHandler(tools.Config{
		Timeout:      cfg.ToolTimeout(),
		UserAgent:    cfg.UserAgent,
		SearchAPIKey: cfg.SearchAPIKey,
		Allowed:      cfg.AllowedTools,
	})
	answer, err := convo.New(sender, handler).Run(ctx, prompt)
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}

func toolsCommand() error {
	cfg, err := loadConfig(cliFlags{})
	if err != nil {
		return err
	}
	handler := tools.NewHandler(tools.Config{
		Timeout:      cfg.ToolTimeout(),
		UserAgent:    cfg.UserAgent,
		SearchAPIKey: cfg.SearchAPIKey,
		Allowed:      cfg.AllowedTools,
	})
	for _, spec := range handler.Specifications() {
		status := "allowed"
		if len(cfg.AllowedTools) > 0 && !slices.Contains(cfg.AllowedTools, spec.Name) {
			status = "blocked"
		}
		fmt.Printf("%v [%v]\n    %v\n", spec.Name, status, spec.Description)
	}
	return nil
}

func cleanupCommand() error {
	cfg, err := loadConfig(cliFlags{})
	if err != nil {
		return err
	}
	proc, err := fileproc.New(cfg.UploadDir)
	if err != nil {
		return err
	}
	deleted := proc.CleanupOld(cfg.UploadMaxAge())
	ancli.Okf("deleted %v old upload(s)\n", deleted)
	return nil
}
