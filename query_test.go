package main

import (
	"context"
	"errors"
	"testing"

	"github.com/SEMalytics/claude-project-chat/internal/claude"
)

type fakeWebSender struct {
	errs     []error
	received [][]claude.Attachment
}

func (f *fakeWebSender) Send(ctx context.Context, message string, attachments []claude.Attachment) (string, error) {
	f.received = append(f.received, attachments)
	i := len(f.received) - 1
	if i < len(f.errs) && f.errs[i] != nil {
		return "", f.errs[i]
	}
	return "ok", nil
}

func TestAttachmentSenderFirstTurnOnly(t *testing.T) {
	fake := &fakeWebSender{}
	sender := &attachmentSender{
		client:      fake,
		attachments: []claude.Attachment{{FileName: "doc.txt"}},
	}
	for i := 0; i < 2; i++ {
		if _, err := sender.Send(context.Background(), "msg"); err != nil {
			t.Fatalf("failed to send: %v", err)
		}
	}
	if len(fake.received[0]) != 1 {
		t.Fatalf("expected attachments on first turn, got: %v", fake.received[0])
	}
	if len(fake.received[1]) != 0 {
		t.Fatalf("expected no attachments on second turn, got: %v", fake.received[1])
	}
}

func TestAttachmentSenderRetainsAttachmentsOnFailure(t *testing.T) {
	boom := errors.New("connection reset")
	fake := &fakeWebSender{errs: []error{boom}}
	sender := &attachmentSender{
		client:      fake,
		attachments: []claude.Attachment{{FileName: "doc.txt"}},
	}
	if _, err := sender.Send(context.Background(), "msg"); !errors.Is(err, boom) {
		t.Fatalf("expected send error, got: %v", err)
	}
	// The failed turn never reached the conversation, the retry must carry
	// the attachments again
	if _, err := sender.Send(context.Background(), "msg"); err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	if len(fake.received[1]) != 1 {
		t.Fatalf("expected attachments on retry, got: %v", fake.received[1])
	}
	if _, err := sender.Send(context.Background(), "msg"); err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	if len(fake.received[2]) != 0 {
		t.Fatalf("expected no attachments after successful delivery, got: %v", fake.received[2])
	}
}
