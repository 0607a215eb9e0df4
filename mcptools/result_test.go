package mcptools

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestScriptResult(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unwraps result parameter", `{"scriptResult":{"resultParameter":"{\"count\":2}\r\r"}}`, `{"count":2}`},
		{"no carriage return", `{"scriptResult":{"resultParameter":"[]"}}`, `[]`},
		{"parameter is not json", `{"scriptResult":{"resultParameter":"OK\r"}}`, `{"scriptResult":{"resultParameter":"OK\r"}}`},
		{"no script result", `{"value":[]}`, `{"value":[]}`},
		{"not json", `<html>error</html>`, `<html>error</html>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScriptResult([]byte(tt.body)))
		})
	}
}
