package devkit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcpkg/mcpkg"
)

func stringArg(arguments map[string]any, key string) string {
	value, _ := arguments[key].(string)
	return value
}

// DecodeJWTController decodes JWT tokens, optionally verifying the
// signature against a public key or certificate.
type DecodeJWTController struct {
	mcpkg.BaseController
}

func NewDecodeJWTController() *DecodeJWTController {
	return &DecodeJWTController{
		BaseController: mcpkg.BaseController{
			Name:        "decode_jwt",
			Description: "Decodes a JWT token and returns its components.",
			InputSchema: mcpkg.CreateObjectSchema(map[string]string{
				"token":      "The JWT token to decode.",
				"public_key": "The PEM public key to verify the JWT signature.",
				"certificate": "The PEM certificate to extract the public key " +
					"for verification.",
			}, []string{"token"}),
		},
	}
}

func (c *DecodeJWTController) Execute(_ context.Context, _ string, arguments map[string]any) ([]mcp.Content, error) {
	token := stringArg(arguments, "token")
	if token == "" {
		return nil, mcpkg.NewValidationError("Token is required.")
	}

	decoded, err := DecodeJWT(token, stringArg(arguments, "public_key"), stringArg(arguments, "certificate"))
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to render decoded JWT: %w", err)
	}
	return mcpkg.TextContent(string(payload)), nil
}

// GenerateGUIDController generates a random GUID.
type GenerateGUIDController struct {
	mcpkg.BaseController
}

func NewGenerateGUIDController() *GenerateGUIDController {
	return &GenerateGUIDController{
		BaseController: mcpkg.BaseController{
			Name:        "generate_guid",
			Description: "Generates a random GUID, with an optional delimiter between segments.",
			InputSchema: mcpkg.CreateObjectSchema(map[string]string{
				"delimiter": "Optional delimiter to use between GUID segments instead of dashes.",
			}, nil),
		},
	}
}

func (c *GenerateGUIDController) Execute(_ context.Context, _ string, arguments map[string]any) ([]mcp.Content, error) {
	return mcpkg.TextContent(GenerateGUID(stringArg(arguments, "delimiter"))), nil
}

// EncodeBase64Controller encodes a string to base64.
type EncodeBase64Controller struct {
	mcpkg.BaseController
}

func NewEncodeBase64Controller() *EncodeBase64Controller {
	return &EncodeBase64Controller{
		BaseController: mcpkg.BaseController{
			Name:        "encode_base64",
			Description: "Encodes a string to base64.",
			InputSchema: mcpkg.CreateObjectSchema(map[string]string{
				"text":     "The string to encode.",
				"encoding": "Optional text encoding (utf-8 or ascii, defaults to utf-8).",
			}, []string{"text"}),
		},
	}
}

func (c *EncodeBase64Controller) Execute(_ context.Context, _ string, arguments map[string]any) ([]mcp.Content, error) {
	text, present := arguments["text"].(string)
	if !present {
		return nil, mcpkg.NewValidationError("Text is required.")
	}

	encoded, err := EncodeBase64(text, stringArg(arguments, "encoding"))
	if err != nil {
		return nil, err
	}
	return mcpkg.TextContent(encoded), nil
}

// DecodeBase64Controller decodes a base64 string.
type DecodeBase64Controller struct {
	mcpkg.BaseController
}

func NewDecodeBase64Controller() *DecodeBase64Controller {
	return &DecodeBase64Controller{
		BaseController: mcpkg.BaseController{
			Name:        "decode_base64",
			Description: "Decodes a base64 string.",
			InputSchema: mcpkg.CreateObjectSchema(map[string]string{
				"b64_string": "The base64 string to decode.",
				"encoding":   "Optional text encoding (utf-8 or ascii, defaults to utf-8).",
			}, []string{"b64_string"}),
		},
	}
}

func (c *DecodeBase64Controller) Execute(_ context.Context, _ string, arguments map[string]any) ([]mcp.Content, error) {
	b64String, present := arguments["b64_string"].(string)
	if !present {
		return nil, mcpkg.NewValidationError("Base64 string is required.")
	}

	decoded, err := DecodeBase64(b64String, stringArg(arguments, "encoding"))
	if err != nil {
		return nil, err
	}
	return mcpkg.TextContent(decoded), nil
}

// URLEncodeController percent-encodes a string.
type URLEncodeController struct {
	mcpkg.BaseController
}

func NewURLEncodeController() *URLEncodeController {
	return &URLEncodeController{
		BaseController: mcpkg.BaseController{
			Name:        "url_encode",
			Description: "URL-encodes a string.",
			InputSchema: mcpkg.CreateObjectSchema(map[string]string{
				"value": "The string to URL-encode.",
			}, []string{"value"}),
		},
	}
}

func (c *URLEncodeController) Execute(_ context.Context, _ string, arguments map[string]any) ([]mcp.Content, error) {
	value, present := arguments["value"].(string)
	if !present {
		return nil, mcpkg.NewValidationError("Value is required.")
	}
	return mcpkg.TextContent(URLEncode(value)), nil
}

// Registry is the devkit deployment's controller set. Its error policy
// opts out of local recovery entirely: every domain error re-raises
// and surfaces as a protocol failure.
type Registry struct {
	controllers []mcpkg.Controller
}

// NewRegistry builds the registry in dispatch-priority order.
func NewRegistry() *Registry {
	return &Registry{
		controllers: []mcpkg.Controller{
			NewDecodeJWTController(),
			NewGenerateGUIDController(),
			NewEncodeBase64Controller(),
			NewDecodeBase64Controller(),
			NewURLEncodeController(),
		},
	}
}

func (r *Registry) Controllers() []mcpkg.Controller {
	return r.controllers
}

func (r *Registry) HandleError(err error, _ mcpkg.Controller, _ string, _ map[string]any) ([]mcp.Content, error) {
	return nil, err
}
