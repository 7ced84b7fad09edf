// Package hookio decodes the JSON document a host integration passes on stdin
// and encodes the permission decision written back on stdout.
package hookio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// MaxInputBytes caps how much of stdin is read. Hook payloads are small JSON
// objects; anything larger is treated as malformed.
const MaxInputBytes = 1 << 20

// Input is one hook invocation. Every field defaults to its zero value when
// missing or mistyped.
type Input struct {
	HookEventName string                 `mapstructure:"hookeventname"`
	SessionID     string                 `mapstructure:"sessionid"`
	ToolName      string                 `mapstructure:"toolname"`
	ToolArgs      map[string]interface{} `mapstructure:"toolargs"`
	Cwd           string                 `mapstructure:"cwd"`
	Prompt        string                 `mapstructure:"prompt"`
	Error         string                 `mapstructure:"error"`
}

// aliases maps normalized payload keys onto Input fields. Earlier keys in a
// group win when a payload carries several spellings.
var aliases = []struct {
	field string
	keys  []string
}{
	{"hookeventname", []string{"hookeventname", "event"}},
	{"sessionid", []string{"sessionid"}},
	{"toolname", []string{"toolname", "tool"}},
	{"toolargs", []string{"toolargs", "toolinput", "arguments", "args", "input"}},
	{"cwd", []string{"cwd", "projectdir", "workspaceroot"}},
	{"prompt", []string{"prompt", "userprompt"}},
	{"error", []string{"error", "errormessage"}},
}

// ParseInput reads and decodes one hook document from r. Empty input yields a
// zero Input and no error. On malformed input the zero Input is returned along
// with the error so the caller can log it and carry on.
func ParseInput(r io.Reader) (Input, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxInputBytes+1))
	if err != nil {
		return Input{}, fmt.Errorf("failed to read hook input: %w", err)
	}
	if len(data) > MaxInputBytes {
		return Input{}, fmt.Errorf("hook input exceeds %d bytes", MaxInputBytes)
	}
	return Decode(data)
}

// Decode decodes raw hook JSON.
func Decode(data []byte) (Input, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Input{}, nil
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Input{}, fmt.Errorf("failed to parse hook input: %w", err)
	}
	return FromMap(raw)
}

// FromMap decodes an already parsed hook document.
func FromMap(raw map[string]interface{}) (Input, error) {
	normalized := normalizeKeys(raw)

	canonical := make(map[string]interface{}, len(aliases))
	for _, a := range aliases {
		for _, k := range a.keys {
			if v, ok := normalized[k]; ok && v != nil {
				canonical[a.field] = v
				break
			}
		}
	}
	canonical["toolargs"] = coerceArgs(canonical["toolargs"])
	canonical["error"] = coerceError(canonical["error"])

	var in Input
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &in,
	})
	if err != nil {
		return Input{}, fmt.Errorf("failed to create hook input decoder: %w", err)
	}
	if err := decoder.Decode(canonical); err != nil {
		// A mistyped field must not take the others down with it.
		return decodeFieldwise(canonical), nil
	}
	return in, nil
}

// decodeFieldwise keeps every field that decodes on its own.
func decodeFieldwise(canonical map[string]interface{}) Input {
	var in Input
	for key, value := range canonical {
		var partial Input
		if err := mapstructure.WeakDecode(map[string]interface{}{key: value}, &partial); err != nil {
			continue
		}
		switch key {
		case "hookeventname":
			in.HookEventName = partial.HookEventName
		case "sessionid":
			in.SessionID = partial.SessionID
		case "toolname":
			in.ToolName = partial.ToolName
		case "toolargs":
			in.ToolArgs = partial.ToolArgs
		case "cwd":
			in.Cwd = partial.Cwd
		case "prompt":
			in.Prompt = partial.Prompt
		case "error":
			in.Error = partial.Error
		}
	}
	return in
}

// Command is the shell command text carried in the tool arguments.
func (in Input) Command() string {
	return in.arg("command", "cmd", "script")
}

// Path is the file path carried in the tool arguments.
func (in Input) Path() string {
	return in.arg("path", "filepath", "notebookpath", "targetfile")
}

func (in Input) arg(keys ...string) string {
	args := normalizeKeys(in.ToolArgs)
	for _, k := range keys {
		if s, ok := args[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// normalizeKey lowercases k and drops separators so toolName, tool_name and
// tool-name compare equal.
func normalizeKey(k string) string {
	return strings.Map(func(r rune) rune {
		if r == '_' || r == '-' {
			return -1
		}
		return r
	}, strings.ToLower(k))
}

func normalizeKeys(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		nk := normalizeKey(k)
		if _, exists := out[nk]; exists && k != nk {
			continue
		}
		out[nk] = v
	}
	return out
}

// coerceArgs accepts tool arguments as an object or as a JSON-encoded object.
func coerceArgs(v interface{}) interface{} {
	switch args := v.(type) {
	case map[string]interface{}:
		return args
	case string:
		var decoded map[string]interface{}
		if err := json.Unmarshal([]byte(args), &decoded); err == nil {
			return decoded
		}
	}
	return nil
}

// coerceError accepts an error as a string or as an object with a message.
func coerceError(v interface{}) interface{} {
	switch e := v.(type) {
	case nil:
		return nil
	case string:
		return e
	case map[string]interface{}:
		for k, msg := range e {
			if normalizeKey(k) == "message" {
				if s, ok := msg.(string); ok {
					return s
				}
			}
		}
		data, _ := json.Marshal(e)
		return string(data)
	case bool:
		return nil
	default:
		return fmt.Sprint(e)
	}
}
