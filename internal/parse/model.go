package parse

import (
	"encoding/json"
	"path"
	"strings"
)

// Record types that carry special meaning.
const (
	TypeUser                = "user"
	TypeAssistant           = "assistant"
	TypeFileHistorySnapshot = "file-history-snapshot"
)

// Record is one decoded line of a transcript file.
type Record struct {
	Type      string // "" when absent; unknown values are kept as-is
	HasType   bool
	Timestamp Timestamp
	Cwd       string
	SessionID string
	Display   *string  // top-level display text, overrides message content
	Message   *Message // nil when absent or not an object
}

// TypeOrUnknown returns the record type for display.
func (r *Record) TypeOrUnknown() string {
	if !r.HasType {
		return "unknown"
	}
	return r.Type
}

// Message holds the message payload of a record.
type Message struct {
	Content Content
}

// Content is either a plain string or an ordered list of blocks.
type Content struct {
	Present  bool
	IsString bool
	Text     string
	Blocks   []Block
}

type BlockKind int

const (
	BlockUnknown BlockKind = iota
	BlockText
	BlockToolUse
	BlockToolResult
)

// Block is a single content block. Only the fields of its Kind are set.
type Block struct {
	Kind BlockKind

	Text string // BlockText

	Name    string          // BlockToolUse
	HasName bool            // BlockToolUse, the name key was present
	Input   json.RawMessage // BlockToolUse, nil when absent

	Result         string // BlockToolResult
	ResultIsString bool   // tool_result content was a plain string
}

// ProjectName returns the final path segment of a working directory.
func ProjectName(cwd string) string {
	cwd = strings.TrimRight(cwd, "/")
	if cwd == "" {
		return ""
	}
	return path.Base(cwd)
}

// Window is an inclusive millisecond range. A zero bound is unbounded.
type Window struct {
	Start int64
	End   int64
}

// Contains reports whether ms falls within the window.
func (w Window) Contains(ms int64) bool {
	if w.Start != 0 && ms < w.Start {
		return false
	}
	if w.End != 0 && ms > w.End {
		return false
	}
	return true
}
