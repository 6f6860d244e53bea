// Package agents provides the MCP agents provider (list_agents, run_agent,
// and get_run tools) backed by the agent orchestration platform.
package agents

import (
	"context"
	"log/slog"

	"github.com/toolgate/toolgate/internal/agents"
	mcpgw "github.com/toolgate/toolgate/internal/mcp"
)

const (
	toolListAgents = "list_agents"
	toolRunAgent   = "run_agent"
	toolGetRun     = "get_run"
)

// Platform is the agent orchestration API surface the tools need.
type Platform interface {
	ListAgents(ctx context.Context) ([]agents.Agent, error)
	RunAgent(ctx context.Context, req agents.RunRequest) (*agents.Run, error)
	GetRun(ctx context.Context, runID string) (*agents.Run, error)
}

// Executor exposes the agent platform operations as MCP tools.
type Executor struct {
	platform Platform
	logger   *slog.Logger
}

// NewExecutor creates an agents tool executor.
func NewExecutor(log *slog.Logger, platform Platform) *Executor {
	if log == nil {
		log = slog.Default()
	}
	return &Executor{
		platform: platform,
		logger:   log.With(slog.String("provider", "agents_tool")),
	}
}

// ListTools returns descriptors for the agent platform tools.
func (p *Executor) ListTools(_ context.Context, _ mcpgw.ToolSessionContext) ([]mcpgw.ToolDescriptor, error) {
	if p.platform == nil {
		return []mcpgw.ToolDescriptor{}, nil
	}
	return []mcpgw.ToolDescriptor{
		{
			Name:        toolListAgents,
			Description: "List the agents registered on the orchestration platform.",
		},
		{
			Name:        toolRunAgent,
			Description: "Start an agent run with the given input and return its initial state.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"agent_id": map[string]any{
						"type":        "string",
						"description": "ID of the agent to run",
					},
					"input": map[string]any{
						"type":        "string",
						"description": "Input text for the run",
					},
				},
				"required": []string{"agent_id", "input"},
			},
		},
		{
			Name:        toolGetRun,
			Description: "Fetch the current state and output of an agent run.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"run_id": map[string]any{
						"type":        "string",
						"description": "ID of the run",
					},
				},
				"required": []string{"run_id"},
			},
		},
	}, nil
}

// CallTool dispatches to the platform operation behind the tool name.
func (p *Executor) CallTool(ctx context.Context, _ mcpgw.ToolSessionContext, toolName string, arguments map[string]any) (map[string]any, error) {
	switch toolName {
	case toolListAgents:
		return p.callListAgents(ctx)
	case toolRunAgent:
		return p.callRunAgent(ctx, arguments)
	case toolGetRun:
		return p.callGetRun(ctx, arguments)
	default:
		return nil, mcpgw.ErrToolNotFound
	}
}

func (p *Executor) callListAgents(ctx context.Context) (map[string]any, error) {
	if p.platform == nil {
		return mcpgw.BuildToolErrorResult("agent platform not available"), nil
	}
	list, err := p.platform.ListAgents(ctx)
	if err != nil {
		p.logger.Warn("list agents failed", slog.Any("error", err))
		return mcpgw.BuildToolErrorResult(err.Error()), nil
	}
	items := make([]any, 0, len(list))
	for _, agent := range list {
		items = append(items, map[string]any{
			"id":          agent.ID,
			"name":        agent.Name,
			"description": agent.Description,
			"model":       agent.Model,
		})
	}
	return mcpgw.BuildToolSuccessResult(map[string]any{
		"agents": items,
		"count":  len(items),
	}), nil
}

func (p *Executor) callRunAgent(ctx context.Context, arguments map[string]any) (map[string]any, error) {
	if p.platform == nil {
		return mcpgw.BuildToolErrorResult("agent platform not available"), nil
	}
	agentID := mcpgw.StringArg(arguments, "agent_id")
	if agentID == "" {
		return mcpgw.BuildToolErrorResult("agent_id is required"), nil
	}
	input := mcpgw.StringArg(arguments, "input")
	if input == "" {
		return mcpgw.BuildToolErrorResult("input is required"), nil
	}
	run, err := p.platform.RunAgent(ctx, agents.RunRequest{AgentID: agentID, Input: input})
	if err != nil {
		p.logger.Warn("run agent failed", slog.String("agent_id", agentID), slog.Any("error", err))
		return mcpgw.BuildToolErrorResult(err.Error()), nil
	}
	return mcpgw.BuildToolSuccessResult(runPayload(run)), nil
}

func (p *Executor) callGetRun(ctx context.Context, arguments map[string]any) (map[string]any, error) {
	if p.platform == nil {
		return mcpgw.BuildToolErrorResult("agent platform not available"), nil
	}
	runID := mcpgw.StringArg(arguments, "run_id")
	if runID == "" {
		return mcpgw.BuildToolErrorResult("run_id is required"), nil
	}
	run, err := p.platform.GetRun(ctx, runID)
	if err != nil {
		p.logger.Warn("get run failed", slog.String("run_id", runID), slog.Any("error", err))
		return mcpgw.BuildToolErrorResult(err.Error()), nil
	}
	return mcpgw.BuildToolSuccessResult(runPayload(run)), nil
}

func runPayload(run *agents.Run) map[string]any {
	payload := map[string]any{
		"run_id":   run.ID,
		"agent_id": run.AgentID,
		"status":   run.Status,
	}
	if run.Output != "" {
		payload["output"] = run.Output
	}
	if run.Error != "" {
		payload["error"] = run.Error
	}
	return payload
}
