package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/zoobzio/ponder"
)

// Envelope is the response body of every tool.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func success(data any) (*mcp.CallToolResult, error) {
	return render(Envelope{Success: true, Data: data}, false)
}

func failure(err error) (*mcp.CallToolResult, error) {
	return render(Envelope{Success: false, Error: err.Error()}, true)
}

func render(env Envelope, isError bool) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(env)
	if err != nil {
		return mcp.NewToolResultErrorf("failed to serialize response: %v", err), nil
	}
	result := mcp.NewToolResultStructured(env, string(b))
	result.IsError = isError
	return result, nil
}

// optionalInt reads an integer argument that may be absent or null.
// JSON numbers arrive as float64; fractional values are rejected.
func optionalInt(args map[string]any, key string) (*int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case int:
		return &v, nil
	case float64:
		if v != math.Trunc(v) {
			return nil, &ponder.InvalidArgumentError{Field: key, Reason: "must be an integer"}
		}
		if v >= math.MaxInt || v < math.MinInt {
			return nil, &ponder.InvalidArgumentError{Field: key, Reason: "out of range"}
		}
		i := int(v)
		return &i, nil
	default:
		return nil, &ponder.InvalidArgumentError{Field: key, Reason: fmt.Sprintf("must be an integer, got %T", raw)}
	}
}

// requireInt reads a mandatory integer argument.
func requireInt(args map[string]any, key string) (int, error) {
	v, err := optionalInt(args, key)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, &ponder.InvalidArgumentError{Field: key, Reason: "is required"}
	}
	return *v, nil
}

// argError normalizes mcp-go argument errors into invalid-argument errors.
func argError(key string, err error) error {
	var iae *ponder.InvalidArgumentError
	if errors.As(err, &iae) {
		return err
	}
	return &ponder.InvalidArgumentError{Field: key, Reason: err.Error()}
}
