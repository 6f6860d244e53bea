// Package media provides the MCP media provider (download_media tool).
package media

import (
	"context"
	"errors"
	"log/slog"

	"github.com/toolgate/toolgate/internal/media"
	mcpgw "github.com/toolgate/toolgate/internal/mcp"
)

const toolDownloadMedia = "download_media"

// Materializer fetches, classifies, and persists a media message.
type Materializer interface {
	Materialize(ctx context.Context, req media.Request) (media.StoredFile, error)
}

// Executor exposes download_media as an MCP tool.
type Executor struct {
	materializer Materializer
	logger       *slog.Logger
}

// NewExecutor creates a media tool executor.
func NewExecutor(log *slog.Logger, materializer Materializer) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		materializer: materializer,
		logger:       log.With(slog.String("provider", "media_tool")),
	}
}

// ListTools returns the download_media descriptor.
func (p *Executor) ListTools(_ context.Context, _ mcpgw.ToolSessionContext) ([]mcpgw.ToolDescriptor, error) {
	if p.materializer == nil {
		return []mcpgw.ToolDescriptor{}, nil
	}
	return []mcpgw.ToolDescriptor{
		{
			Name:        toolDownloadMedia,
			Description: "Download the media attachment of a message and save it under the configured media folder. Reports the saved path and size.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"message_id": map[string]any{
						"type":        "string",
						"description": "Message ID of the media message",
					},
					"instance": map[string]any{
						"type":        "string",
						"description": "Gateway instance name, defaults to the configured instance",
					},
					"filename": map[string]any{
						"type":        "string",
						"description": "Destination file name override (extension included)",
					},
				},
				"required": []string{"message_id"},
			},
		},
	}, nil
}

// CallTool runs download_media; no-media responses are a non-error outcome.
func (p *Executor) CallTool(ctx context.Context, session mcpgw.ToolSessionContext, toolName string, arguments map[string]any) (map[string]any, error) {
	if toolName != toolDownloadMedia {
		return nil, mcpgw.ErrToolNotFound
	}
	if p.materializer == nil {
		return mcpgw.BuildToolErrorResult("media service not available"), nil
	}

	messageID := mcpgw.StringArg(arguments, "message_id")
	if messageID == "" {
		return mcpgw.BuildToolErrorResult("message_id is required"), nil
	}
	instanceID := mcpgw.FirstStringArg(arguments, "instance", "instance_id")
	if instanceID == "" {
		instanceID = session.InstanceID
	}

	stored, err := p.materializer.Materialize(ctx, media.Request{
		MessageID:  messageID,
		InstanceID: instanceID,
		Filename:   mcpgw.StringArg(arguments, "filename"),
	})
	if err != nil {
		if errors.Is(err, media.ErrNoMediaData) {
			p.logger.Warn("no media data for message", slog.String("message_id", messageID))
			return mcpgw.BuildToolSuccessResult(map[string]any{
				"ok":      false,
				"message": "no media data available for this message",
			}), nil
		}
		p.logger.Warn("download failed", slog.String("message_id", messageID), slog.Any("error", err))
		return mcpgw.BuildToolErrorResult(err.Error()), nil
	}

	payload := map[string]any{
		"ok":         true,
		"path":       stored.Path,
		"size_bytes": stored.SizeBytes,
		"size":       media.FormatSize(stored.SizeBytes),
		"report":     "Media downloaded successfully: " + stored.Path + " (" + media.FormatSize(stored.SizeBytes) + ")",
	}
	return mcpgw.BuildToolSuccessResult(payload), nil
}
