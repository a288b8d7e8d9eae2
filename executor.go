package mcpkg

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

// ExecuteTool dispatches a (name, arguments) pair against the config's
// registry. Resolution scans the controllers in registration order and
// selects the first whose CanExecute matches; no match fails with a 404
// protocol error and never invokes any controller.
//
// Outcome classification:
//   - success: the controller's content items are returned unchanged;
//   - *DomainError: delegated to the registry's HandleError, whose
//     content becomes the response (silent recovery), unless it
//     re-raises, in which case the failure is promoted to a 500
//     protocol error;
//   - anything else: wrapped into a 500 protocol error carrying the
//     original message.
//
// There are no retries and no dispatcher-imposed timeout; cancellation
// is the caller's context.
func ExecuteTool(ctx context.Context, name string, arguments map[string]any, cfg *Config) ([]mcp.Content, error) {
	logger := cfg.Logger

	logger.WithField("tool", name).Debug("Looking for controller to execute tool")
	for _, controller := range cfg.Registry.Controllers() {
		if !controller.CanExecute(name) {
			continue
		}
		logger.WithField("tool", name).Info("Found controller for tool")

		result, err := controller.Execute(ctx, name, arguments)
		if err == nil {
			return result, nil
		}

		if IsDomainError(err) {
			recovered, handlerErr := cfg.Registry.HandleError(err, controller, name, arguments)
			if handlerErr == nil {
				return recovered, nil
			}
			err = handlerErr
		}

		logger.WithFields(logrus.Fields{"tool": name, "error": err}).Error("Error executing tool")
		return nil, NewProtocolError(err.Error(), CodeInternalError)
	}

	logger.WithField("tool", name).Error("No controller found for tool")
	return nil, NewProtocolError("Unknown tool.", CodeUnknownTool)
}
