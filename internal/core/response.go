package core

import (
	"fmt"
	"strings"

	"github.com/anirudha4/bud.oneapp.studio/internal/core/common"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
)

// MalformedResponseError reports generation output that did not parse into
// the agent response contract. No partial recovery is attempted; the caller
// decides the user-facing fallback.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed agent response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// ParseAgentResponse strips any code fences from the raw generation output
// and parses it into an AgentResponse. A response without a message is
// malformed.
func ParseAgentResponse(raw string) (*model.AgentResponse, error) {
	resp, err := common.ParseJSON[model.AgentResponse](raw)
	if err != nil {
		return nil, &MalformedResponseError{Raw: raw, Err: err}
	}
	if strings.TrimSpace(resp.Message) == "" {
		return nil, &MalformedResponseError{Raw: raw, Err: fmt.Errorf("missing message field")}
	}

	return &resp, nil
}
