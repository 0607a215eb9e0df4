package resolver

import (
	"context"
	"errors"
	"github.com/digimidich/fmp-query-ai/filemaker"
	"github.com/digimidich/fmp-query-ai/translator"
	"strings"
)

// ErrTranslationUnavailable is returned when a free-text query needs translation
// but the server has no language-model credential.
var ErrTranslationUnavailable = errors.New("query translation unavailable: OPENAI_API_KEY not set on the server")

// Translator converts a free-text query into a constraint string.
type Translator interface {
	Translate(ctx context.Context, query string) (translator.Result, error)
}

// Resolver decides which constraint string a request sends upstream.
type Resolver struct {
	translator Translator
}

// New returns a Resolver. A nil translator disables free-text queries.
func New(t Translator) *Resolver {
	return &Resolver{translator: t}
}

// CanTranslate reports whether free-text queries are supported.
func (r *Resolver) CanTranslate() bool {
	return r.translator != nil
}

// Classify applies the precedence rule: a string scriptParameterValue (even empty)
// wins, then a non-blank query, otherwise nothing.
func Classify(req IncomingRequest) Mode {
	if req.ScriptParameterValue != nil {
		return ModePassthrough
	}
	if req.Query != nil && strings.TrimSpace(*req.Query) != "" {
		return ModeTranslate
	}
	return ModeEmpty
}

// Resolve builds the upstream payload for req. The translator is called at most once,
// and only in ModeTranslate.
func (r *Resolver) Resolve(ctx context.Context, req IncomingRequest) (filemaker.UpstreamPayload, error) {
	switch Classify(req) {
	case ModePassthrough:
		return filemaker.UpstreamPayload{ScriptParameterValue: *req.ScriptParameterValue}, nil
	case ModeTranslate:
		if !r.CanTranslate() {
			return filemaker.UpstreamPayload{}, ErrTranslationUnavailable
		}
		res, err := r.translator.Translate(ctx, *req.Query)
		if err != nil {
			return filemaker.UpstreamPayload{}, err
		}
		// res.Constraint is empty when the reply could not be parsed.
		return filemaker.UpstreamPayload{ScriptParameterValue: res.Constraint}, nil
	default:
		return filemaker.UpstreamPayload{}, nil
	}
}
