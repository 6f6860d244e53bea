package agents

import "errors"

// ErrMissingBaseURL is returned when the client is constructed without a platform URL.
var ErrMissingBaseURL = errors.New("agents base url is required")

// Agent is an agent registered on the orchestration platform.
type Agent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Model       string `json:"model"`
}

// RunRequest starts an agent run with the given input text.
type RunRequest struct {
	AgentID string `json:"-"`
	Input   string `json:"input"`
}

// Run is a single agent execution and its current state.
type Run struct {
	ID      string `json:"id"`
	AgentID string `json:"agent_id"`
	Status  string `json:"status"`
	Output  string `json:"output"`
	Error   string `json:"error"`
}
