// Package media materializes downloaded message attachments: it classifies
// the declared content type, chooses a deterministic destination under the
// media root, and persists the decoded bytes.
package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/toolgate/toolgate/internal/gateway"
)

// Fetcher is the external client capability that retrieves base64 media.
// A nil payload (with nil error) means the message has no media.
type Fetcher interface {
	GetBase64Media(ctx context.Context, instanceID, messageID string) (*gateway.MediaPayload, error)
}

// Service materializes media attachments under a configured root directory.
type Service struct {
	fetcher         Fetcher
	root            string
	defaultInstance string
	logger          *slog.Logger
}

// NewService creates a materializer writing under root.
func NewService(log *slog.Logger, fetcher Fetcher, root string) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		fetcher:         fetcher,
		root:            strings.TrimSpace(root),
		defaultInstance: DefaultInstanceID,
		logger:          log.With(slog.String("service", "media")),
	}
}

// WithDefaultInstance overrides the instance id used when requests omit one.
func (s *Service) WithDefaultInstance(instanceID string) *Service {
	if strings.TrimSpace(instanceID) != "" {
		s.defaultInstance = strings.TrimSpace(instanceID)
	}
	return s
}

// Materialize fetches, decodes, classifies, and writes the attachment.
// Returns ErrNoMediaData when the gateway has no payload for the message.
// Writes overwrite any existing file at the destination; concurrent calls to
// the same path race on last-writer-wins, which is accepted.
func (s *Service) Materialize(ctx context.Context, req Request) (StoredFile, error) {
	messageID := strings.TrimSpace(req.MessageID)
	if messageID == "" {
		return StoredFile{}, fmt.Errorf("message id is required")
	}
	if s.fetcher == nil {
		return StoredFile{}, fmt.Errorf("media fetcher is not configured")
	}
	if s.root == "" {
		return StoredFile{}, fmt.Errorf("media root is not configured")
	}
	instanceID := strings.TrimSpace(req.InstanceID)
	if instanceID == "" {
		instanceID = s.defaultInstance
	}

	payload, err := s.fetcher.GetBase64Media(ctx, instanceID, messageID)
	if err != nil {
		return StoredFile{}, fmt.Errorf("fetch media: %w", err)
	}
	if payload == nil || strings.TrimSpace(payload.Base64) == "" {
		s.logger.Warn("no media data in gateway response",
			slog.String("message_id", messageID),
			slog.String("instance", instanceID),
		)
		return StoredFile{}, ErrNoMediaData
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload.Base64))
	if err != nil {
		return StoredFile{}, fmt.Errorf("decode base64 payload: %w", err)
	}

	class := Classify(payload.Mimetype)
	dir := filepath.Join(s.root, filepath.FromSlash(class.Subdir))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return StoredFile{}, fmt.Errorf("create media directory: %w", err)
	}

	filename := strings.TrimSpace(req.Filename)
	if filename == "" {
		filename = messageID + "." + class.Ext
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return StoredFile{}, fmt.Errorf("write media file: %w", err)
	}

	return StoredFile{Path: path, SizeBytes: int64(len(raw))}, nil
}

// Download is the string-report form of Materialize: a success report, an
// empty string when there is no media data, or an error-tagged report. It
// never returns an error to the caller.
func (s *Service) Download(ctx context.Context, req Request) string {
	stored, err := s.Materialize(ctx, req)
	if err != nil {
		if errors.Is(err, ErrNoMediaData) {
			return ""
		}
		s.logger.Error("media download failed",
			slog.String("message_id", req.MessageID),
			slog.Any("error", err),
		)
		return "Error downloading media: " + err.Error()
	}
	return fmt.Sprintf("Media downloaded successfully: %s (%s)", stored.Path, FormatSize(stored.SizeBytes))
}

// FormatSize renders a byte count in MB with two decimals when >= 1 MiB,
// otherwise in KB with two decimals.
func FormatSize(n int64) string {
	const (
		kb = 1024
		mb = 1024 * 1024
	)
	if n >= mb {
		return fmt.Sprintf("%.2f MB", float64(n)/float64(mb))
	}
	return fmt.Sprintf("%.2f KB", float64(n)/float64(kb))
}
