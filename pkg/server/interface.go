/*
Package server implements the HTTP gateway in front of a pipeline.Adapter.

Every operation is bound to the path configured for it in the route table. NLP routes take a
JSON body and answer with an envelope whose result carries the requested task lists:

	POST /pos {"texts": ["北京欢迎你"]}

	{"code": 0, "message": "ok", "type": "success",
	 "result": {"texts": ["北京欢迎你"], "cws": [["北京", "欢迎", "你"]], "pos": [["ns", "v", "r"]]}}

Failures of any kind, including bodies that cannot be decoded and panics inside a handler,
produce the same failure envelope with HTTP status 200:

	{"code": -1, "result": "", "message": "Request failed", "type": "error"}

The error itself is only logged, together with the operation and request id.

# Encodings

Responses are JSON unless the request sends Accept: application/msgpack, in which case the
same envelope is encoded with msgpack using the JSON field names.

# Styles

With envelope_style = "legacy" the NLP routes answer in the flat {status, texts, res, seg}
shape older clients expect. A failed request keeps that shape with status 1 and empty
results. Identity routes always use the envelope.
*/
package server

import "github.com/bastiangx/nlpserve/pkg/pipeline"

// TextRequest is the body of every text analysis route.
type TextRequest struct {
	Texts []string `json:"texts"`
}

// WordsRequest is the body of the add_words route. MaxWindow is nil when absent.
type WordsRequest struct {
	Words     []string `json:"words"`
	MaxWindow *int     `json:"max_window,omitempty"`
}

// LoginRequest is decoded but never verified.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SplitResult is the result of sent_split.
type SplitResult struct {
	Texts []string   `json:"texts"`
	Res   [][]string `json:"res"`
}

// AddWordsResult is the result of add_words.
type AddWordsResult struct {
	Code int `json:"code"`
}

// TaskResult decodes the result of seg and the single task routes. Only cws and the
// requested task are present on the wire, the other lists stay nil.
type TaskResult struct {
	Texts []string `json:"texts"`
	pipeline.Results
}

// AllResult is the result of the all route.
type AllResult struct {
	Texts []string          `json:"texts"`
	All   *pipeline.Results `json:"all"`
}
