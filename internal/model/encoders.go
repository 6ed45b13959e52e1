package model

import (
	"encoding/json"
	"fmt"
	"sort"
)

// LabelEncoder is a frozen bijection from the string labels seen at training
// time to small non-negative integer codes (code = index in the sorted label
// list, matching the training-side encoder). Immutable after construction.
type LabelEncoder struct {
	labels []string
	codes  map[string]int
}

// labelEncoderJSON is the on-disk shape of an encoder artifact.
type labelEncoderJSON struct {
	Labels []string `json:"labels"`
}

// NewLabelEncoder builds an encoder over a vocabulary. Labels are sorted
// before codes are assigned so the mapping is independent of input order.
func NewLabelEncoder(labels []string) (*LabelEncoder, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("encoder vocabulary is empty")
	}

	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)

	codes := make(map[string]int, len(sorted))
	for i, label := range sorted {
		if _, dup := codes[label]; dup {
			return nil, fmt.Errorf("duplicate label %q in vocabulary", label)
		}
		codes[label] = i
	}

	return &LabelEncoder{labels: sorted, codes: codes}, nil
}

// UnmarshalLabelEncoder decodes an encoder artifact from its JSON form.
func UnmarshalLabelEncoder(data []byte) (*LabelEncoder, error) {
	var doc labelEncoderJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse encoder JSON: %w", err)
	}
	return NewLabelEncoder(doc.Labels)
}

// Encode returns the code for label, or ok=false for a label outside the
// trained vocabulary. It never guesses a fallback code.
func (e *LabelEncoder) Encode(label string) (int, bool) {
	code, ok := e.codes[label]
	return code, ok
}

// Labels returns the vocabulary in code order. The slice is a copy.
func (e *LabelEncoder) Labels() []string {
	return append([]string(nil), e.labels...)
}

// Len returns the vocabulary size.
func (e *LabelEncoder) Len() int {
	return len(e.labels)
}
