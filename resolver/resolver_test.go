package resolver_test

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/digimidich/fmp-query-ai/filemaker"
	"github.com/digimidich/fmp-query-ai/resolver"
	"github.com/digimidich/fmp-query-ai/translator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

type TestMockTranslator struct {
	calls         int
	mockTranslate func(ctx context.Context, query string) (translator.Result, error)
}

func (m *TestMockTranslator) Translate(ctx context.Context, query string) (translator.Result, error) {
	m.calls++
	return m.mockTranslate(ctx, query)
}

func mustDecode(t *testing.T, body string) resolver.IncomingRequest {
	t.Helper()
	var req resolver.IncomingRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	return req
}

func failingTranslator(t *testing.T) *TestMockTranslator {
	return &TestMockTranslator{
		mockTranslate: func(ctx context.Context, query string) (translator.Result, error) {
			t.Fatal("translator should not be called")
			return translator.Result{}, nil
		},
	}
}

func TestResolve_ScriptParameterValueWins(t *testing.T) {
	bodies := map[string]string{
		"constraint only":    `{"scriptParameterValue":"espece = chat poids > 8kg"}`,
		"constraint + query": `{"scriptParameterValue":"espece = chat poids > 8kg","query":"find dogs"}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			tr := failingTranslator(t)
			payload, err := resolver.New(tr).Resolve(context.Background(), mustDecode(t, body))

			require.NoError(t, err)
			assert.Equal(t, filemaker.UpstreamPayload{ScriptParameterValue: "espece = chat poids > 8kg"}, payload)
			assert.Zero(t, tr.calls)
		})
	}
}

func TestResolve_EmptyScriptParameterValueStillWins(t *testing.T) {
	tr := failingTranslator(t)
	payload, err := resolver.New(tr).Resolve(context.Background(), mustDecode(t, `{"scriptParameterValue":"","query":"cats"}`))

	require.NoError(t, err)
	assert.Equal(t, "", payload.ScriptParameterValue)
	assert.Zero(t, tr.calls)
}

func TestResolve_QueryIsTranslatedOnce(t *testing.T) {
	tr := &TestMockTranslator{
		mockTranslate: func(ctx context.Context, query string) (translator.Result, error) {
			assert.Equal(t, "find all cats over 8 kg", query)
			return translator.Result{Constraint: "espece = chat poids > 8kg", OK: true}, nil
		},
	}

	payload, err := resolver.New(tr).Resolve(context.Background(), mustDecode(t, `{"query":"find all cats over 8 kg"}`))
	require.NoError(t, err)
	assert.Equal(t, "espece = chat poids > 8kg", payload.ScriptParameterValue)
	assert.Equal(t, 1, tr.calls)
}

func TestResolve_UnparseableTranslationGivesEmpty(t *testing.T) {
	tr := &TestMockTranslator{
		mockTranslate: func(ctx context.Context, query string) (translator.Result, error) {
			return translator.Result{}, nil
		},
	}

	payload, err := resolver.New(tr).Resolve(context.Background(), mustDecode(t, `{"query":"???"}`))
	require.NoError(t, err)
	assert.Equal(t, filemaker.UpstreamPayload{}, payload)
	assert.Equal(t, 1, tr.calls)
}

func TestResolve_NoConstraints(t *testing.T) {
	bodies := []string{`{}`, `null`, `{"query":""}`, `{"query":"   \t\n"}`, `{"query":42}`, `{"other":"x"}`}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			tr := failingTranslator(t)
			payload, err := resolver.New(tr).Resolve(context.Background(), mustDecode(t, body))

			require.NoError(t, err)
			assert.Equal(t, filemaker.UpstreamPayload{}, payload)
			assert.Zero(t, tr.calls)
		})
	}
}

func TestResolve_NonStringScriptParameterValueIsIgnored(t *testing.T) {
	tr := &TestMockTranslator{
		mockTranslate: func(ctx context.Context, query string) (translator.Result, error) {
			return translator.Result{Constraint: "espece = chien", OK: true}, nil
		},
	}
	payload, err := resolver.New(tr).Resolve(context.Background(), mustDecode(t, `{"scriptParameterValue":12,"query":"dogs"}`))

	require.NoError(t, err)
	assert.Equal(t, "espece = chien", payload.ScriptParameterValue)
}

func TestResolve_TranslationUnavailable(t *testing.T) {
	r := resolver.New(nil)
	assert.False(t, r.CanTranslate())

	_, err := r.Resolve(context.Background(), mustDecode(t, `{"query":"find all cats"}`))
	assert.ErrorIs(t, err, resolver.ErrTranslationUnavailable)

	// Requests that do not need translation are unaffected.
	payload, err := r.Resolve(context.Background(), mustDecode(t, `{"scriptParameterValue":"espece = chat"}`))
	require.NoError(t, err)
	assert.Equal(t, "espece = chat", payload.ScriptParameterValue)
}

func TestResolve_TranslatorFailurePropagates(t *testing.T) {
	boom := errors.New("dial tcp: connection refused")
	tr := &TestMockTranslator{
		mockTranslate: func(ctx context.Context, query string) (translator.Result, error) {
			return translator.Result{}, boom
		},
	}

	_, err := resolver.New(tr).Resolve(context.Background(), mustDecode(t, `{"query":"cats"}`))
	assert.ErrorIs(t, err, boom)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, resolver.ModePassthrough, resolver.Classify(mustDecode(t, `{"scriptParameterValue":""}`)))
	assert.Equal(t, resolver.ModeTranslate, resolver.Classify(mustDecode(t, `{"query":" chats "}`)))
	assert.Equal(t, resolver.ModeEmpty, resolver.Classify(mustDecode(t, `{"query":" "}`)))
	assert.Equal(t, "translate", resolver.ModeTranslate.String())
}

func TestIncomingRequestRejectsNonObject(t *testing.T) {
	var req resolver.IncomingRequest
	assert.Error(t, json.Unmarshal([]byte(`["espece = chat"]`), &req))
}
