package filemaker

// UpstreamPayload is the body posted to the OData script endpoint.
// ScriptParameterValue is always serialized, as an empty string when there are no constraints.
type UpstreamPayload struct {
	ScriptParameterValue string `json:"scriptParameterValue"`
}

// Result is the upstream answer, relayed to the caller without interpretation.
type Result struct {
	StatusCode  int
	ContentType string
	Body        []byte
}
