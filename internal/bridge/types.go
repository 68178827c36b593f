package bridge

import (
	"encoding/json"
	"fmt"
)

// Job request defaults applied when the uploader omits a field.
const (
	DefaultJobType   = "product"
	DefaultPageCount = 1
)

// StatusCompleted is the only status under which results are consumable.
// Every other value reported by the remote service is passed through untouched.
const StatusCompleted = "completed"

// JobRequest is the normalized submission document sent to the task service.
type JobRequest struct {
	Type  string   `json:"type"`
	URLs  []string `json:"urls"`
	Pages int      `json:"pages"`
}

// JobHandle references a submitted job. Descriptor is the raw document the
// remote service returned for the submission; ID is extracted from it when a
// recognizable identifier field is present.
type JobHandle struct {
	ID         string
	Descriptor json.RawMessage
}

// StatusDocument is the remote service's view of a job. Raw keeps the exact
// bytes received so the status endpoint can forward them verbatim.
type StatusDocument struct {
	Status string
	Raw    json.RawMessage

	results json.RawMessage
}

// UnmarshalJSON keeps the raw document and defers parsing of results until
// they are asked for, so status polling never fails on result schema.
func (d *StatusDocument) UnmarshalJSON(data []byte) error {
	var envelope struct {
		Status  json.RawMessage `json:"status"`
		Results json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("decode status document: %w", err)
	}
	var status string
	if len(envelope.Status) > 0 {
		// Non-string statuses are left empty.
		_ = json.Unmarshal(envelope.Status, &status)
	}
	d.Status = status
	d.Raw = append(json.RawMessage(nil), data...)
	d.results = envelope.Results
	return nil
}

// HasResults reports whether the document carries a non-null results field.
func (d StatusDocument) HasResults() bool {
	return len(d.results) > 0 && string(d.results) != "null"
}

// Records parses the results field. A nil slice is returned when the field is
// absent or null; an empty non-nil slice when it is an empty array.
func (d StatusDocument) Records() ([]Record, error) {
	if !d.HasResults() {
		return nil, nil
	}
	records := []Record{}
	if err := json.Unmarshal(d.results, &records); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}
	return records, nil
}
