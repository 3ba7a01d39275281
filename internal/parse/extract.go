package parse

import (
	"bytes"
	"encoding/json"
	"strings"
)

const maxToolResultRunes = 500

// Extract flattens a record into searchable text.
//
// A top-level display string wins outright. Otherwise string content is
// returned as-is, and block content is joined with newlines: text blocks
// contribute their text, tool_use blocks a "[tool: <name>]" line followed by
// the tool input, and tool_result blocks the head of their string content.
// Unknown blocks are skipped.
func Extract(r *Record) string {
	if r.Display != nil {
		return *r.Display
	}
	if r.Message == nil || !r.Message.Content.Present {
		return ""
	}
	c := r.Message.Content
	if c.IsString {
		return c.Text
	}

	var parts []string
	for _, b := range c.Blocks {
		switch b.Kind {
		case BlockText:
			parts = append(parts, b.Text)
		case BlockToolUse:
			parts = append(parts, "[tool: "+b.Name+"]")
			if b.Input != nil {
				parts = append(parts, stringifyInput(b.Input))
			}
		case BlockToolResult:
			if b.ResultIsString {
				parts = append(parts, Truncate(b.Result, maxToolResultRunes))
			}
		}
	}
	return strings.Join(parts, "\n")
}

// QueryText returns the text a user typed: the display string, the string
// content, or the first text block. Tool blocks are never considered.
func QueryText(r *Record) string {
	if r.Display != nil {
		return *r.Display
	}
	if r.Message == nil {
		return ""
	}
	c := r.Message.Content
	if c.IsString {
		return c.Text
	}
	for _, b := range c.Blocks {
		if b.Kind == BlockText {
			return b.Text
		}
	}
	return ""
}

// UnknownTool names tool_use blocks that carry no name key.
const UnknownTool = "unknown"

// ToolNames returns the names of all tool_use blocks in order. A block
// without a name key is reported as UnknownTool; an empty name is kept.
func ToolNames(r *Record) []string {
	if r.Message == nil {
		return nil
	}
	var names []string
	for _, b := range r.Message.Content.Blocks {
		if b.Kind != BlockToolUse {
			continue
		}
		if !b.HasName {
			names = append(names, UnknownTool)
			continue
		}
		names = append(names, b.Name)
	}
	return names
}

func stringifyInput(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return len([]rune(s))
}
