package mcptools

import (
	"context"
	"errors"
	"fmt"
	"github.com/digimidich/fmp-query-ai/filemaker"
	"github.com/digimidich/fmp-query-ai/logging"
	"github.com/digimidich/fmp-query-ai/resolver"
	"github.com/digimidich/fmp-query-ai/translator"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

const serverName = "fmp-query-ai"

// Relay sends a resolved payload to FileMaker.
type Relay interface {
	CheckCredentials() error
	Forward(ctx context.Context, payload filemaker.UpstreamPayload) (*filemaker.Result, error)
}

// Completer answers free-form prompts.
type Completer interface {
	Complete(ctx context.Context, req translator.CompletionRequest) (string, error)
}

// Tools exposes the pet search and a plain completion as MCP tools.
type Tools struct {
	resolver  *resolver.Resolver
	relay     Relay
	completer Completer
	log       *logrus.Logger
}

// NewServer builds an MCP server with the search_pet and ask_openai tools.
// A nil completer keeps ask_openai listed but makes it report that no key is configured.
func NewServer(version string, res *resolver.Resolver, relay Relay, completer Completer) *server.MCPServer {
	t := &Tools{
		resolver:  res,
		relay:     relay,
		completer: completer,
		log:       logging.GetLogger(),
	}

	s := server.NewMCPServer(serverName, version, server.WithToolCapabilities(false))

	s.AddTool(mcp.NewTool("search_pet",
		mcp.WithDescription("Search the clinic's patients in FileMaker. Pass either a natural-language query "+
			"(translated into constraints) or a ready constraint string such as \"espece = chat poids > 8kg\"."),
		mcp.WithString("query", mcp.Description("Natural-language search, e.g. \"find all cats over 8 kg\"")),
		mcp.WithString("scriptParameterValue", mcp.Description("Constraint string sent verbatim; takes precedence over query")),
	), t.searchPet)

	s.AddTool(mcp.NewTool("ask_openai",
		mcp.WithDescription("Send a prompt to OpenAI and return the text response."),
		mcp.WithString("prompt", mcp.Required(), mcp.Description("The user prompt")),
		mcp.WithString("system", mcp.Description("Optional system instruction")),
		mcp.WithString("model", mcp.Description("Model name, defaults to the server's model")),
		mcp.WithNumber("temperature", mcp.Description("Sampling temperature, default 0.7")),
		mcp.WithNumber("max_output_tokens", mcp.Description("Optional maximum number of output tokens")),
	), t.askOpenAI)

	return s
}

// ServeStdio runs the MCP server over stdin/stdout until stdin closes or the process is signalled.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func (t *Tools) searchPet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	var incoming resolver.IncomingRequest
	if v, ok := args["scriptParameterValue"].(string); ok {
		incoming.ScriptParameterValue = &v
	}
	if v, ok := args["query"].(string); ok {
		incoming.Query = &v
	}
	t.log.Infof("⇢ Received tool call: search_pet | mode=%s", resolver.Classify(incoming))

	if err := t.relay.CheckCredentials(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	payload, err := t.resolver.Resolve(ctx, incoming)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}
	res, err := t.relay.Forward(ctx, payload)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}
	if res.StatusCode >= 400 {
		return mcp.NewToolResultError(fmt.Sprintf("FileMaker returned status %d: %s", res.StatusCode, res.Body)), nil
	}

	out := ScriptResult(res.Body)
	t.log.Infof("⇠ search_pet done | %d chars", len(out))
	return mcp.NewToolResultText(out), nil
}

func (t *Tools) askOpenAI(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.completer == nil {
		return mcp.NewToolResultError(translator.ErrNoAPIKey.Error()), nil
	}
	prompt, err := req.RequireString("prompt")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	t.log.Infof("⇢ Received tool call: ask_openai | prompt='%s'", logging.Truncate(prompt, logging.QueryLogLimit))

	creq := translator.CompletionRequest{
		Prompt:    prompt,
		System:    req.GetString("system", ""),
		Model:     req.GetString("model", ""),
		MaxTokens: req.GetInt("max_output_tokens", 0),
	}
	if _, ok := req.GetArguments()["temperature"]; ok {
		temperature := float32(req.GetFloat("temperature", translator.DefaultTemperature))
		creq.Temperature = &temperature
	}

	text, err := t.completer.Complete(ctx, creq)
	if err != nil {
		return mcp.NewToolResultError(toolError(err)), nil
	}
	t.log.Infof("⇠ Sending tool result | %d chars", len(text))
	return mcp.NewToolResultText(text), nil
}

func toolError(err error) string {
	switch {
	case errors.Is(err, filemaker.ErrUpstream), errors.Is(err, translator.ErrUnreachable):
		return "Upstream error: " + err.Error()
	default:
		return err.Error()
	}
}
