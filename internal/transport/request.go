package transport

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/agentstation/artcards/pkg/errors"
	"github.com/agentstation/artcards/pkg/logging"
)

// maxErrorBody caps how much of an error response ends up in messages.
const maxErrorBody = 512

// DecodeResponse decodes a JSON response into target and closes the body.
// Non-200 responses become *errors.APIError attributed to source.
func DecodeResponse(resp *http.Response, source string, target any) error {
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn().Err(err).Str("source", source).Msg("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		endpoint := ""
		if resp.Request != nil && resp.Request.URL != nil {
			endpoint = resp.Request.URL.String()
		}
		apiErr := errors.NewAPIError(source, resp.StatusCode, msg)
		apiErr.Endpoint = endpoint
		return apiErr
	}

	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", source, err)
	}
	return nil
}
