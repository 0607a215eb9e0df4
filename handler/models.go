package handler

// errorResponse is the JSON body of every error this server produces itself.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type healthResponse struct {
	OK bool `json:"ok"`
}
