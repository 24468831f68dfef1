// Package mailroom pulls claim messages from the shared inbox and
// materializes their attachments for downstream processing.
package mailroom

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	imap "github.com/BrianLeishman/go-imap"
	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/sujal-debug/Policy-IQ/internal/claims/ports"
	"github.com/sujal-debug/Policy-IQ/platform/apperr"
	"github.com/sujal-debug/Policy-IQ/platform/logger"
)

// Archiver copies attachment files to durable storage. Archiving is best
// effort; a failure is logged and never blocks the batch.
type Archiver interface {
	Archive(ctx context.Context, objectName string, data []byte) error
}

// Config configures the inbox connection.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Folder   string
	// AttachmentDir is where PDF attachments are materialized.
	AttachmentDir string
}

// Mailroom implements the pipeline's mailbox port over IMAP.
type Mailroom struct {
	cfg      Config
	archiver Archiver
	log      *logger.Logger
}

func New(cfg Config, archiver Archiver, log *logger.Logger) *Mailroom {
	if cfg.Folder == "" {
		cfg.Folder = "INBOX"
	}
	return &Mailroom{cfg: cfg, archiver: archiver, log: log}
}

var _ ports.Mailbox = (*Mailroom)(nil)

// FetchRecent returns up to limit messages received within the window,
// oldest first. Attachments claiming to be PDF are validated; anything
// else lands in the item's non-PDF list.
func (m *Mailroom) FetchRecent(ctx context.Context, window time.Duration, limit int) ([]ports.InboundItem, error) {
	dialer, err := imap.New(m.cfg.Username, m.cfg.Password, m.cfg.Host, m.cfg.Port)
	if err != nil {
		return nil, apperr.Transient("connect to inbox", err)
	}
	defer dialer.Close()

	if err := dialer.SelectFolder(m.cfg.Folder); err != nil {
		return nil, apperr.Transient("select inbox folder", err)
	}

	cutoff := time.Now().Add(-window)
	// IMAP SINCE has day granularity; the exact window is enforced below.
	uids, err := dialer.GetUIDs("SINCE " + cutoff.Format("2-Jan-2006"))
	if err != nil {
		return nil, apperr.Transient("search inbox", err)
	}
	if len(uids) == 0 {
		return nil, nil
	}

	emails, err := dialer.GetEmails(uids...)
	if err != nil {
		return nil, apperr.Transient("fetch messages", err)
	}

	messages := make([]*imap.Email, 0, len(emails))
	for _, msg := range emails {
		if msg.Received.Before(cutoff) {
			continue
		}
		messages = append(messages, msg)
	}
	sort.Slice(messages, func(i, j int) bool {
		return messages[i].Received.Before(messages[j].Received)
	})
	if limit > 0 && len(messages) > limit {
		messages = messages[:limit]
	}

	if err := os.MkdirAll(m.cfg.AttachmentDir, 0o755); err != nil {
		return nil, fmt.Errorf("create attachment dir: %w", err)
	}

	items := make([]ports.InboundItem, 0, len(messages))
	for _, msg := range messages {
		if ctx.Err() != nil {
			return items, ctx.Err()
		}
		items = append(items, m.toItem(ctx, msg))
	}
	return items, nil
}

func (m *Mailroom) toItem(ctx context.Context, msg *imap.Email) ports.InboundItem {
	item := ports.InboundItem{
		Sender:     senderAddress(msg.From),
		Subject:    msg.Subject,
		MessageID:  msg.MessageID,
		Body:       messageBody(msg),
		ReceivedAt: msg.Received,
	}

	for _, att := range msg.Attachments {
		if !isPDFName(att.Name) {
			item.NonPDFFiles = append(item.NonPDFFiles, att.Name)
			continue
		}

		path := filepath.Join(m.cfg.AttachmentDir, uniqueFilename(att.Name))
		if err := os.WriteFile(path, att.Content, 0o644); err != nil {
			m.log.Warn("failed to materialize attachment", "name", att.Name, "error", err)
			item.NonPDFFiles = append(item.NonPDFFiles, att.Name)
			continue
		}

		// The extension only claims PDF; verify the file actually is one.
		if err := api.ValidateFile(path, nil); err != nil {
			m.log.Warn("attachment is not a valid pdf", "name", att.Name, "error", err)
			_ = os.Remove(path)
			item.NonPDFFiles = append(item.NonPDFFiles, att.Name)
			continue
		}

		item.AttachmentPaths = append(item.AttachmentPaths, path)

		if m.archiver != nil {
			objectName := fmt.Sprintf("%s/%s", item.Sender, filepath.Base(path))
			if err := m.archiver.Archive(ctx, objectName, att.Content); err != nil {
				m.log.Warn("attachment archive failed", "object", objectName, "error", err)
			}
		}
	}

	return item
}

func messageBody(msg *imap.Email) string {
	if strings.TrimSpace(msg.Text) != "" {
		return msg.Text
	}
	return msg.HTML
}

func senderAddress(from imap.EmailAddresses) string {
	for address := range from {
		return strings.ToLower(strings.TrimSpace(address))
	}
	return ""
}

func isPDFName(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".pdf")
}

// uniqueFilename keeps the original base name but makes collisions
// between messages impossible.
func uniqueFilename(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(filepath.Base(name), ext)
	return fmt.Sprintf("%s_%s%s", base, uuid.New().String()[:8], ext)
}
