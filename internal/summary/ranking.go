package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"

	"github.com/Zuo-Peng/history-analyser/internal/output"
	"gopkg.in/yaml.v3"
)

// RankEntry is one name and its count.
type RankEntry struct {
	Name  string
	Count int
}

// Ranking is an ordered name→count mapping, highest count first.
// It serializes as a JSON object (or YAML mapping) that keeps its order.
type Ranking []RankEntry

// MarshalJSON writes the ranking as an object in rank order.
func (r Ranking) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := output.Marshal(e.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(e.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object back, keeping key order.
func (r *Ranking) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*r = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("ranking: expected object, got %v", tok)
	}

	out := Ranking{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("ranking: expected key, got %v", keyTok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("ranking %q: %w", key, err)
		}
		out = append(out, RankEntry{Name: key, Count: count})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// MarshalYAML writes the ranking as an ordered mapping.
func (r Ranking) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range r {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(e.Count)},
		)
	}
	return node, nil
}

// Get returns the count for name, or 0.
func (r Ranking) Get(name string) int {
	for _, e := range r {
		if e.Name == name {
			return e.Count
		}
	}
	return 0
}

// counter tallies names and remembers the order they were first seen in.
type counter struct {
	index   map[string]int
	entries []RankEntry
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(name string, n int) {
	if i, ok := c.index[name]; ok {
		c.entries[i].Count += n
		return
	}
	c.index[name] = len(c.entries)
	c.entries = append(c.entries, RankEntry{Name: name, Count: n})
}

// top returns the n highest counts. Ties keep first-seen order.
func (c *counter) top(n int) Ranking {
	ranked := make(Ranking, len(c.entries))
	copy(ranked, c.entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
