package resolver

import (
	"encoding/json"
)

// IncomingRequest is the browser's search body. A nil field was absent or not a JSON string.
type IncomingRequest struct {
	ScriptParameterValue *string
	Query                *string
}

func (r *IncomingRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.ScriptParameterValue = stringField(raw, "scriptParameterValue")
	r.Query = stringField(raw, "query")
	return nil
}

func stringField(raw map[string]json.RawMessage, key string) *string {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	var s string
	if string(v) == "null" || json.Unmarshal(v, &s) != nil {
		return nil
	}
	return &s
}

// Mode says where the upstream constraint string comes from.
type Mode int

const (
	// ModeEmpty sends no constraints.
	ModeEmpty Mode = iota
	// ModePassthrough forwards scriptParameterValue verbatim.
	ModePassthrough
	// ModeTranslate derives the constraints from the free-text query.
	ModeTranslate
)

func (m Mode) String() string {
	switch m {
	case ModePassthrough:
		return "passthrough"
	case ModeTranslate:
		return "translate"
	default:
		return "empty"
	}
}
