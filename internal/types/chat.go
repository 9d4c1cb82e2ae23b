package types

// ChatReply is the advisor's answer to a free-text message. Response is
// always non-empty prose; Context optionally carries the structured verdict
// or recommendation behind it.
type ChatReply struct {
	Response string                 `json:"response"`
	Intent   ChatIntent             `json:"intent"`
	Context  map[string]interface{} `json:"context,omitempty"`
	Sources  []string               `json:"sources,omitempty"`
}
