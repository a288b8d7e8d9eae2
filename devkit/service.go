// Package devkit exposes small developer utilities as MCP tools: JWT
// decoding, base64 encoding/decoding, URL encoding, and GUID
// generation.
package devkit

import (
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// GenerateGUID generates a random UUID4 string. A non-empty delimiter
// replaces the dashes between segments.
func GenerateGUID(delimiter string) string {
	guid := uuid.NewString()
	if delimiter != "" {
		return strings.ReplaceAll(guid, "-", delimiter)
	}
	return guid
}

func validateEncoding(encoding string) (string, error) {
	if encoding == "" {
		return "utf-8", nil
	}
	switch strings.ToLower(encoding) {
	case "utf-8", "utf8":
		return "utf-8", nil
	case "ascii", "us-ascii":
		return "ascii", nil
	default:
		return "", fmt.Errorf("unknown encoding: %s", encoding)
	}
}

func validateASCII(value string) error {
	for i := 0; i < len(value); i++ {
		if value[i] > 0x7f {
			return fmt.Errorf("value is not valid ascii")
		}
	}
	return nil
}

// EncodeBase64 encodes a string to base64 using the given text encoding
// (utf-8 by default, ascii supported).
func EncodeBase64(value, encoding string) (string, error) {
	enc, err := validateEncoding(encoding)
	if err != nil {
		return "", err
	}
	if enc == "ascii" {
		if err := validateASCII(value); err != nil {
			return "", err
		}
	}
	return base64.StdEncoding.EncodeToString([]byte(value)), nil
}

// DecodeBase64 decodes a base64 string, validating the result against
// the given text encoding.
func DecodeBase64(b64String, encoding string) (string, error) {
	enc, err := validateEncoding(encoding)
	if err != nil {
		return "", err
	}

	decoded, err := base64.StdEncoding.DecodeString(b64String)
	if err != nil {
		return "", fmt.Errorf("invalid base64 input: %w", err)
	}

	switch enc {
	case "ascii":
		if err := validateASCII(string(decoded)); err != nil {
			return "", err
		}
	default:
		if !utf8.Valid(decoded) {
			return "", fmt.Errorf("decoded bytes are not valid utf-8")
		}
	}
	return string(decoded), nil
}

// URLEncode percent-encodes every byte outside the unreserved set,
// spaces included (%20, never +). Multi-byte runes encode per UTF-8
// byte.
func URLEncode(value string) string {
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
			c == '-' || c == '_' || c == '.' || c == '~' {
			b.WriteByte(c)
			continue
		}
		fmt.Fprintf(&b, "%%%02X", c)
	}
	return b.String()
}

// DecodeJWT decodes a JWT without claim validation. If publicKey or
// certificate is provided the signature is checked: certificate takes
// precedence, its public key is extracted first. Verification failure
// is reported through SignatureVerified, not as an error; only a
// malformed token or unusable certificate fails the call.
func DecodeJWT(token, publicKey, certificate string) (*DecodedJWT, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}

	parsed, parts, err := parser.ParseUnverified(token, claims)
	if err != nil {
		return nil, fmt.Errorf("Failed to decode JWT: %v", err)
	}

	var pemKey string
	switch {
	case certificate != "":
		cert := ensurePEM(certificate, "CERTIFICATE")
		pemKey, err = extractPublicKeyFromCertificate(cert)
		if err != nil {
			return nil, fmt.Errorf("Failed to decode JWT: %v", err)
		}
	case publicKey != "":
		pemKey = ensurePEM(publicKey, "PUBLIC KEY")
	}

	var verified *bool
	if pemKey != "" {
		ok := verifySignature(parser, parts, parsed.Header, pemKey) == nil
		verified = &ok
	}

	return &DecodedJWT{
		Headers:           parsed.Header,
		Data:              map[string]any(claims),
		Signature:         parts[2],
		SignatureVerified: verified,
	}, nil
}

// ensurePEM adds the armor lines when the caller supplied a bare
// base64 body.
func ensurePEM(value, blockType string) string {
	trimmed := strings.TrimSpace(value)
	header := fmt.Sprintf("-----BEGIN %s-----", blockType)
	if strings.HasPrefix(trimmed, header) {
		return trimmed
	}
	return fmt.Sprintf("%s\n%s\n-----END %s-----", header, trimmed, blockType)
}

// extractPublicKeyFromCertificate re-encodes a certificate's public key
// as a PEM SubjectPublicKeyInfo block.
func extractPublicKeyFromCertificate(certificate string) (string, error) {
	block, _ := pem.Decode([]byte(certificate))
	if block == nil {
		return "", fmt.Errorf("failed to extract public key from certificate: no PEM block found")
	}
	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return "", fmt.Errorf("failed to extract public key from certificate: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(cert.PublicKey)
	if err != nil {
		return "", fmt.Errorf("failed to extract public key from certificate: %v", err)
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})), nil
}

// verifySignature checks the token signature for the HS/RS/PS
// algorithm families. For HMAC the PEM key string is the shared
// secret; for RSA it is parsed as a public key.
func verifySignature(parser *jwt.Parser, parts []string, headers map[string]any, pemKey string) error {
	alg, _ := headers["alg"].(string)
	signingInput := parts[0] + "." + parts[1]

	signature, err := parser.DecodeSegment(parts[2])
	if err != nil {
		return fmt.Errorf("invalid JWT signature encoding: %w", err)
	}

	switch {
	case strings.HasPrefix(alg, "HS"):
		method := jwt.GetSigningMethod(alg)
		if method == nil {
			return fmt.Errorf("unsupported HMAC algorithm: %s", alg)
		}
		return method.Verify(signingInput, signature, []byte(pemKey))
	case strings.HasPrefix(alg, "RS"), strings.HasPrefix(alg, "PS"):
		method := jwt.GetSigningMethod(alg)
		if method == nil {
			return fmt.Errorf("unsupported RSA algorithm: %s", alg)
		}
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pemKey))
		if err != nil {
			return err
		}
		return method.Verify(signingInput, signature, key)
	default:
		return fmt.Errorf("unsupported or insecure JWT algorithm: %s", alg)
	}
}
