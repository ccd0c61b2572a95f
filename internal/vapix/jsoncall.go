package vapix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// jsonCall posts a {apiVersion, method, params} envelope to a JSON
// endpoint and decodes the response's data field into result. A 404 maps
// to ErrUnsupportedFeature; a response error object becomes an APIError.
func (d *Device) jsonCall(ctx context.Context, path, apiVersion, method string, params, result any) error {
	envelope := struct {
		APIVersion string `json:"apiVersion"`
		Method     string `json:"method"`
		Params     any    `json:"params,omitempty"`
	}{
		APIVersion: apiVersion,
		Method:     method,
		Params:     params,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", method, err)
	}

	payload, _, err := d.roundtrip(ctx, http.MethodPost, path, "application/json", "application/json", bytes.NewReader(body))
	if err != nil {
		return mapNotFound(err)
	}

	var resp struct {
		Data  json.RawMessage `json:"data"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return fmt.Errorf("decode %s response: %w", method, err)
	}
	if resp.Error != nil {
		return &APIError{Code: resp.Error.Code, Message: resp.Error.Message}
	}
	if resp.Data == nil {
		return fmt.Errorf("%s response carried neither data nor error", method)
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, result); err != nil {
		return fmt.Errorf("decode %s data: %w", method, err)
	}
	return nil
}
