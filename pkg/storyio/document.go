package storyio

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Version is written into every document.
const Version = "1.1"

// Document is the persisted form of a story graph.
type Document struct {
	Version string                `json:"version"`
	Nodes   map[string]NodeRecord `json:"nodes"`
	Arrows  []ArrowRecord         `json:"arrows"`
	Initial InitialKey            `json:"initial"`
}

// IsEmpty reports whether the document holds no story.
func (d *Document) IsEmpty() bool {
	return d == nil || (len(d.Nodes) == 0 && len(d.Arrows) == 0)
}

// NodeRecord is one persisted node. Fields a kind does not use are omitted.
type NodeRecord struct {
	Type      int                     `json:"type"`
	Color     [4]int                  `json:"color"`
	Position  [2]float64              `json:"position"`
	Radius    float64                 `json:"radius,omitempty"`
	Text      *string                 `json:"text,omitempty"`
	Size      *[2]float64             `json:"size,omitempty"`
	ImagePath *string                 `json:"image_path,omitempty"`
	Answers   map[string]AnswerRecord `json:"answers,omitempty"`
}

// AnswerRecord is one persisted answer of a choice node.
type AnswerRecord struct {
	Color    [4]int      `json:"color"`
	Position [2]float64  `json:"position"`
	Text     string      `json:"text"`
	Size     *[2]float64 `json:"size,omitempty"`
}

// ArrowRecord is one persisted arrow. Start and End are the legacy spellings
// of StartID and EndID and are only read.
type ArrowRecord struct {
	Color    [4]int      `json:"color"`
	Position *[2]float64 `json:"position,omitempty"`
	StartID  Key         `json:"start_id,omitempty"`
	EndID    Key         `json:"end_id,omitempty"`
	Start    Key         `json:"start,omitempty"`
	End      Key         `json:"end,omitempty"`
}

// StartKey returns the key of the start owner, preferring start_id.
func (a ArrowRecord) StartKey() Key {
	if a.StartID != "" {
		return a.StartID
	}
	return a.Start
}

// EndKey returns the key of the end owner, preferring end_id.
func (a ArrowRecord) EndKey() Key {
	if a.EndID != "" {
		return a.EndID
	}
	return a.End
}

// Key is an identity key. It is written as a JSON string and read from
// either a string or a number.
type Key string

func (k *Key) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		*k = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*k = Key(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*k = Key(n.String())
	return nil
}

// InitialKey is the key of the initial node. The empty key means "no
// initial node" and is written as 0; decimal keys are written as numbers.
type InitialKey Key

func (k InitialKey) MarshalJSON() ([]byte, error) {
	if k == "" {
		return []byte("0"), nil
	}
	if _, err := strconv.ParseUint(string(k), 10, 64); err == nil {
		return []byte(k), nil
	}
	return json.Marshal(string(k))
}

func (k *InitialKey) UnmarshalJSON(b []byte) error {
	var key Key
	if err := key.UnmarshalJSON(b); err != nil {
		return err
	}
	if strings.TrimSpace(string(key)) == "0" {
		key = ""
	}
	*k = InitialKey(key)
	return nil
}
