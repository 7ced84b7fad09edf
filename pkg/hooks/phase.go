package hooks

import (
	"fmt"
	"io"

	"github.com/grovetools/agentgate/pkg/hookio"
)

// Phase names a host hook point, as used on the command line.
type Phase string

const (
	PhasePreToolUse         Phase = "pre-tool-use"
	PhasePostToolUse        Phase = "post-tool-use"
	PhasePostToolUseFailure Phase = "post-tool-use-failure"
	PhasePromptSubmit       Phase = "prompt-submit"
	PhaseSessionEnd         Phase = "session-end"
)

// Phases lists every supported hook point.
var Phases = []Phase{
	PhasePreToolUse,
	PhasePostToolUse,
	PhasePostToolUseFailure,
	PhasePromptSubmit,
	PhaseSessionEnd,
}

// Handle runs phase and writes its output, if any, to w. Write failures are
// logged; the host sees them as an absent payload.
func (r *Runner) Handle(phase Phase, in hookio.Input, w io.Writer) {
	switch phase {
	case PhasePreToolUse:
		if out := r.PreToolUse(in); out != nil {
			if err := out.Write(w); err != nil {
				r.logger.WithError(err).Warn("Failed to write permission decision")
			}
		}
	case PhasePostToolUse:
		r.PostToolUse(in, false)
	case PhasePostToolUseFailure:
		r.PostToolUse(in, true)
	case PhasePromptSubmit:
		r.UserPromptSubmit(in)
	case PhaseSessionEnd:
		if summary := r.SessionEnd(in); summary != "" {
			if _, err := fmt.Fprintln(w, summary); err != nil {
				r.logger.WithError(err).Warn("Failed to write session summary")
			}
		}
	default:
		r.logger.WithField("phase", string(phase)).Warn("Unknown hook phase")
	}
}
