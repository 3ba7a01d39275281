package parse

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// MalformedRecordError is returned by DecodeRecord for a line that is not a
// JSON object. Readers skip such lines.
type MalformedRecordError struct {
	Err error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: %v", e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

var errNotObject = errors.New("not a JSON object")

// DecodeRecord decodes one transcript line. Fields with unexpected JSON
// types are treated as absent rather than failing the whole record.
func DecodeRecord(line []byte) (*Record, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 || line[0] != '{' {
		return nil, &MalformedRecordError{Err: errNotObject}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(line, &fields); err != nil {
		return nil, &MalformedRecordError{Err: err}
	}

	rec := &Record{}
	if s, ok := rawString(fields["type"]); ok {
		rec.Type = s
		rec.HasType = true
	}
	rec.Timestamp = ParseTimestamp(fields["timestamp"])
	rec.Cwd, _ = rawString(fields["cwd"])
	if s, ok := rawString(fields["sessionId"]); ok {
		rec.SessionID = s
	} else {
		rec.SessionID, _ = rawString(fields["session_id"])
	}
	if s, ok := rawString(fields["display"]); ok {
		rec.Display = &s
	}
	rec.Message = decodeMessage(fields["message"])
	return rec, nil
}

func decodeMessage(raw json.RawMessage) *Message {
	var fields map[string]json.RawMessage
	if !isObject(raw) || json.Unmarshal(raw, &fields) != nil {
		return nil
	}
	return &Message{Content: decodeContent(fields["content"])}
}

func decodeContent(raw json.RawMessage) Content {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Content{}
	}

	// try string first
	if s, ok := rawString(raw); ok {
		return Content{Present: true, IsString: true, Text: s}
	}

	// then an array of content blocks
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return Content{}
	}
	c := Content{Present: true}
	for _, item := range items {
		if b, ok := decodeBlock(item); ok {
			c.Blocks = append(c.Blocks, b)
		}
	}
	return c
}

func decodeBlock(raw json.RawMessage) (Block, bool) {
	var fields map[string]json.RawMessage
	if !isObject(raw) || json.Unmarshal(raw, &fields) != nil {
		return Block{}, false
	}

	kind, _ := rawString(fields["type"])
	switch kind {
	case "text":
		text, _ := rawString(fields["text"])
		return Block{Kind: BlockText, Text: text}, true
	case "tool_use":
		rawName, hasName := fields["name"]
		name, _ := rawString(rawName)
		b := Block{Kind: BlockToolUse, Name: name, HasName: hasName}
		if in, ok := fields["input"]; ok {
			b.Input = in
		}
		return b, true
	case "tool_result":
		b := Block{Kind: BlockToolResult}
		b.Result, b.ResultIsString = rawString(fields["content"])
		return b, true
	default:
		return Block{Kind: BlockUnknown}, true
	}
}

func rawString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func isObject(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}
