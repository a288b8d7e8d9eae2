package devkit

// DecodedJWT is the JSON shape returned by the decode_jwt tool.
// SignatureVerified is tri-state: true if the signature checked out,
// false if verification was attempted and failed, nil if no key
// material was supplied.
type DecodedJWT struct {
	Headers           map[string]any `json:"headers"`
	Data              map[string]any `json:"data"`
	Signature         string         `json:"signature"`
	SignatureVerified *bool          `json:"signature_verified"`
}
