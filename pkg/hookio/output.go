package hookio

import (
	"encoding/json"
	"io"

	"github.com/grovetools/agentgate/pkg/admission"
)

// Permission decisions.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// PermissionOutput is written to stdout at admission-gated hook points.
type PermissionOutput struct {
	PermissionDecision string `json:"permissionDecision"`
	Reason             string `json:"reason,omitempty"`
}

// FromDecision converts an admission decision into hook output.
func FromDecision(d admission.Decision) *PermissionOutput {
	if d.Allow {
		return &PermissionOutput{PermissionDecision: DecisionAllow}
	}
	return &PermissionOutput{PermissionDecision: DecisionDeny, Reason: d.Reason}
}

// Denied reports whether the output blocks the tool call.
func (o *PermissionOutput) Denied() bool {
	return o != nil && o.PermissionDecision == DecisionDeny
}

// Write encodes o as one JSON document. A nil output writes nothing.
func (o *PermissionOutput) Write(w io.Writer) error {
	if o == nil {
		return nil
	}
	return json.NewEncoder(w).Encode(o)
}
