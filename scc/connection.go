package scc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// maxErrorBody caps how much of a response body Error() prints.
const maxErrorBody = 512

var (
	errInvalidJSON = errors.New("response body is not valid JSON")
	errNotArray    = errors.New("expected a JSON array")
	errNotObject   = errors.New("expected a JSON object")
	errMissingID   = errors.New(`missing required field "id"`)
)

// getList performs one GET against path and decodes the body as a JSON array of T.
func getList[T any](ctx context.Context, c *Client, path string) ([]T, error) {
	requestURL := c.resolve(path)

	body, status, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var items []T
	if err := decodeList(body, &items); err != nil {
		return nil, &Error{
			Kind:       KindDecode,
			Method:     http.MethodGet,
			URL:        requestURL,
			StatusCode: status,
			Body:       string(body),
			Err:        err,
		}
	}

	c.logger.Debug().
		Str("path", path).
		Int("count", len(items)).
		Msg("Retrieved records from SCC")

	return items, nil
}

// resolve joins the base URL and path with exactly one slash.
func (c *Client) resolve(path string) string {
	return strings.TrimRight(c.config.BaseURL(), "/") + "/" + strings.TrimLeft(path, "/")
}

// get performs an authenticated GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, requestURL string) ([]byte, int, error) {
	if timeout := c.config.Timeout(); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Basic "+c.config.Credentials()).
		SetHeader("Accept", "application/json")
	if ua := c.config.UserAgent(); ua != "" {
		req.SetHeader("User-Agent", ua)
	}

	start := time.Now()
	resp, err := req.Get(requestURL)
	if err != nil {
		return nil, 0, &Error{
			Kind:   KindTransport,
			Method: http.MethodGet,
			URL:    requestURL,
			Err:    err,
		}
	}

	c.logger.Debug().
		Str("method", http.MethodGet).
		Str("url", requestURL).
		Int("status", resp.StatusCode()).
		Dur("elapsed", time.Since(start)).
		Msg("SCC API request")

	if !resp.IsSuccess() {
		return nil, resp.StatusCode(), &Error{
			Kind:       KindStatus,
			Method:     http.MethodGet,
			URL:        requestURL,
			StatusCode: resp.StatusCode(),
			Body:       string(resp.Body()),
		}
	}

	return resp.Body(), resp.StatusCode(), nil
}

// decodeList decodes body into out. The body must be a JSON array whose
// elements are objects carrying a non-null "id".
func decodeList[T any](body []byte, out *[]T) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(body), &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w, got %s", errNotArray, typeErr.Value)
		}
		return fmt.Errorf("%w: %w", errInvalidJSON, err)
	}
	if raw == nil {
		return fmt.Errorf("%w, got null", errNotArray)
	}

	items := make([]T, 0, len(raw))
	for i, elem := range raw {
		if elem[0] != '{' {
			return fmt.Errorf("element %d: %w, got %s", i, errNotObject, jsonKind(elem[0]))
		}

		var required struct {
			ID json.RawMessage `json:"id"`
		}
		if err := json.Unmarshal(elem, &required); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		if len(required.ID) == 0 || string(required.ID) == "null" {
			return fmt.Errorf("element %d: %w", i, errMissingID)
		}

		var item T
		if err := json.Unmarshal(elem, &item); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		items = append(items, item)
	}

	*out = items
	return nil
}

func jsonKind(b byte) string {
	switch b {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 'n':
		return "null"
	case 't', 'f':
		return "boolean"
	default:
		return "number"
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// restyLogger forwards resty's internal messages to zerolog.
type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn().Msgf(strings.TrimSpace(format), v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug().Msgf(strings.TrimSpace(format), v...)
}
