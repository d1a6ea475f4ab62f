package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/viper"

	"github.com/hamiltonroad/checked-out/util/httpx"
)

type apiClient struct {
	base  string
	token string
}

func newClient() *apiClient {
	return &apiClient{
		base:  strings.TrimRight(viper.GetString("server"), "/"),
		token: viper.GetString("token"),
	}
}

// do sends a JSON request and decodes the JSON response into out (if
// out is non-nil). Non-2xx responses become errors carrying the
// server's message.
func (a *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	req, err := httpx.NewJSONRequest(ctx, method, a.base+path, body)
	if err != nil {
		return err
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := httpx.Client().Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &e) == nil && e.Message != "" {
			return fmt.Errorf("%s (HTTP %d)", e.Message, resp.StatusCode)
		}
		return fmt.Errorf("HTTP %d from %s %s", resp.StatusCode, method, path)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
