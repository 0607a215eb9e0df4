package mcptools

import (
	"encoding/json"
	"strings"
)

// ScriptResult unwraps the search_pet script's answer. FileMaker returns
// {"scriptResult":{"resultParameter":"<json>\r..."}}; the JSON before the first
// carriage return is the script's own result. Any other body is returned as-is.
func ScriptResult(body []byte) string {
	var envelope struct {
		ScriptResult struct {
			ResultParameter *string `json:"resultParameter"`
		} `json:"scriptResult"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.ScriptResult.ResultParameter == nil {
		return string(body)
	}
	param, _, _ := strings.Cut(*envelope.ScriptResult.ResultParameter, "\r")
	param = strings.TrimSpace(param)
	if !json.Valid([]byte(param)) {
		return string(body)
	}
	return param
}
