package hero

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/openHPI/herostore/pkg/logging"
)

// ErrRequestFailed is returned for any non-2xx response of the backend.
// The store does not distinguish between the different failure causes,
// they all take the same recovery path.
var ErrRequestFailed = errors.New("backend request failed")

// Requester is the abstract HTTP transport consumed by the Store.
// All methods return the raw response body of a successful request and
// an error for any transport-level failure.
type Requester interface {
	Get(ctx context.Context, url string) ([]byte, error)
	Post(ctx context.Context, url string, body interface{}) ([]byte, error)
	Put(ctx context.Context, url string, body interface{}) ([]byte, error)
	Delete(ctx context.Context, url string) ([]byte, error)
}

// restClient implements the Requester interface against a real HTTP backend.
type restClient struct {
	client *http.Client
}

// NewRestClient creates a Requester that issues requests with the passed http.Client.
// Iff client is nil, http.DefaultClient is used.
func NewRestClient(client *http.Client) Requester {
	if client == nil {
		client = http.DefaultClient
	}
	return &restClient{client: client}
}

func (rc *restClient) Get(ctx context.Context, url string) ([]byte, error) {
	return rc.do(ctx, http.MethodGet, url, nil)
}

func (rc *restClient) Post(ctx context.Context, url string, body interface{}) ([]byte, error) {
	return rc.do(ctx, http.MethodPost, url, body)
}

func (rc *restClient) Put(ctx context.Context, url string, body interface{}) ([]byte, error) {
	return rc.do(ctx, http.MethodPut, url, body)
}

func (rc *restClient) Delete(ctx context.Context, url string) ([]byte, error) {
	return rc.do(ctx, http.MethodDelete, url, nil)
}

func (rc *restClient) do(ctx context.Context, method, url string, body interface{}) (responseBody []byte, err error) {
	var requestBody io.Reader = http.NoBody
	if body != nil {
		content, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshaling request body: %w", err)
		}
		requestBody = bytes.NewReader(content)
	}

	spanName := "hero.request." + strings.ToLower(method)
	logging.StartSpan(spanName, url, ctx, func(ctx context.Context) {
		responseBody, err = rc.request(ctx, method, url, requestBody, body != nil)
	})
	return responseBody, err
}

func (rc *restClient) request(
	ctx context.Context, method, url string, body io.Reader, hasBody bool,
) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating %s request: %w", method, err)
	}
	if hasBody {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := rc.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("error requesting the backend: %w", err)
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: %s", ErrRequestFailed, response.Status)
	}

	content, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading the response body: %w", err)
	}
	return content, nil
}
