// Package admission decides whether a proposed tool action may proceed given
// the ticket workflow in scope. Decisions are pure: all inputs arrive through
// Action and Context.
package admission

import (
	"strings"

	"github.com/grovetools/agentgate/config"
)

// Default classification tables.
var (
	DefaultWriteTools = []string{
		"create", "edit", "write", "multiedit",
		"str_replace_editor", "str_replace_based_edit_tool",
		"notebookedit", "apply_patch",
	}
	DefaultShellTools = []string{
		"bash", "shell", "powershell", "run_in_terminal",
		"run_shell_command", "run_terminal_cmd", "exec_command",
	}
	DefaultAllowedStates   = []string{"implementing", "testing", "committing"}
	DefaultPublishPatterns = []string{"git push", "gh pr create"}
)

// Policy holds the tool classification and the write-permitted states.
type Policy struct {
	writeTools      map[string]bool
	shellTools      map[string]bool
	allowedStates   map[string]bool
	publishPatterns [][]string
}

// DefaultPolicy returns the built-in policy.
func DefaultPolicy() *Policy {
	return NewPolicy(config.WorkflowConfig{})
}

// NewPolicy builds a policy from configuration. Empty lists keep the defaults.
func NewPolicy(cfg config.WorkflowConfig) *Policy {
	return &Policy{
		writeTools:      lowerSet(orDefault(cfg.WriteTools, DefaultWriteTools)),
		shellTools:      lowerSet(orDefault(cfg.ShellTools, DefaultShellTools)),
		allowedStates:   lowerSet(orDefault(cfg.AllowedStates, DefaultAllowedStates)),
		publishPatterns: tokenize(orDefault(cfg.PublishPatterns, DefaultPublishPatterns)),
	}
}

// IsWriteTool reports whether toolName creates or modifies files.
func (p *Policy) IsWriteTool(toolName string) bool {
	return p.writeTools[normalizeTool(toolName)]
}

// IsShellTool reports whether toolName runs shell commands.
func (p *Policy) IsShellTool(toolName string) bool {
	return p.shellTools[normalizeTool(toolName)]
}

// AllowsWrites reports whether writes are admitted in the given workflow state.
func (p *Policy) AllowsWrites(state string) bool {
	return p.allowedStates[strings.ToLower(strings.TrimSpace(state))]
}

// IsPublishCommand reports whether command starts with a publish pattern.
// Leading whitespace is ignored and every pattern word must match a whole
// command word, so "git pushx" and "echo git push" do not match. A shell
// operator ends the first command, so "git push;echo ok" matches.
func (p *Policy) IsPublishCommand(command string) bool {
	words := leadingWords(command)
	for _, pattern := range p.publishPatterns {
		if hasWordPrefix(words, pattern) {
			return true
		}
	}
	return false
}

// IsPublishCommand applies the default publish patterns.
func IsPublishCommand(command string) bool {
	return DefaultPolicy().IsPublishCommand(command)
}

// shellOperators end a word and the simple command it belongs to.
const shellOperators = ";&|<>()"

// leadingWords returns the words of the first simple command in command.
func leadingWords(command string) []string {
	if i := strings.IndexAny(command, shellOperators); i >= 0 {
		command = command[:i]
	}
	return strings.Fields(command)
}

func hasWordPrefix(words, pattern []string) bool {
	if len(pattern) == 0 || len(words) < len(pattern) {
		return false
	}
	for i, w := range pattern {
		if words[i] != w {
			return false
		}
	}
	return true
}

func normalizeTool(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func orDefault(values, defaults []string) []string {
	if len(values) == 0 {
		return defaults
	}
	return values
}

func lowerSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		if v = normalizeTool(v); v != "" {
			set[v] = true
		}
	}
	return set
}

func tokenize(patterns []string) [][]string {
	out := make([][]string, 0, len(patterns))
	for _, p := range patterns {
		if fields := strings.Fields(p); len(fields) > 0 {
			out = append(out, fields)
		}
	}
	return out
}
