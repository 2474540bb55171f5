package domain

import (
	"encoding/json"
	"fmt"
)

// Status is the closed set of task workflow states. It is stored as a small
// integer and exposed over the API as its string label.
type Status int

const (
	StatusNew Status = iota
	StatusInProgress
	StatusDone
)

var statusLabels = map[Status]string{
	StatusNew:        "new",
	StatusInProgress: "in_progress",
	StatusDone:       "done",
}

var statusValues = map[string]Status{
	"new":         StatusNew,
	"in_progress": StatusInProgress,
	"done":        StatusDone,
}

// ParseStatus maps an external label to a Status. Anything outside the three
// known labels is rejected.
func ParseStatus(label string) (Status, error) {
	s, ok := statusValues[label]
	if !ok {
		return 0, fmt.Errorf("unknown status %q", label)
	}
	return s, nil
}

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

func (s Status) String() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}
	return fmt.Sprintf("status(%d)", int(s))
}

func (s Status) MarshalJSON() ([]byte, error) {
	label, ok := statusLabels[s]
	if !ok {
		return nil, fmt.Errorf("cannot marshal invalid status %d", int(s))
	}
	return json.Marshal(label)
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err != nil {
		return err
	}
	parsed, err := ParseStatus(label)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
