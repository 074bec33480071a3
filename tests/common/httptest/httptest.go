//go:build unit || e2e

package httptest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// executes HTTP request with optional authorization
func PerformRequest(t *testing.T, router *gin.Engine, method, path string, body any, authToken string) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "Failed to encode request body to JSON")
		reqBody = bytes.NewBuffer(jsonBody)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// streams a request against router until the handler returns and yields the
// raw body. Used for server-sent event endpoints; cancel ctx to end a stream
// that would otherwise stay open.
func PerformStream(t *testing.T, router *gin.Engine, ctx context.Context, path, authToken string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil).WithContext(ctx)
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	w := &streamRecorder{ResponseRecorder: httptest.NewRecorder(), done: ctx.Done()}
	router.ServeHTTP(w, req)
	return w.ResponseRecorder
}

// gin's Context.Stream needs http.CloseNotifier, which ResponseRecorder lacks.
type streamRecorder struct {
	*httptest.ResponseRecorder
	done <-chan struct{}
}

func (r *streamRecorder) CloseNotify() <-chan bool {
	ch := make(chan bool, 1)
	go func() {
		<-r.done
		ch <- true
	}()
	return ch
}

// decodes JSON response body into target struct
func DecodeResponseBody(t *testing.T, body *bytes.Buffer, target any) error {
	t.Helper()

	err := json.NewDecoder(body).Decode(target)
	require.NoError(t, err, "Failed to decode response body")

	return err
}
