// Package judge is the boundary to the external judging service. The judge's
// HTTP contract is opaque to the rest of the pipeline: callers get a verdict
// and an execution time, or one of two transient error classes that the
// transport's redelivery is allowed to retry.
package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/codearena/backend/submqueue"
)

var (
	ErrJudgeUnavailable = errors.New("judge service unavailable")
	ErrJudgeTimeout     = errors.New("judge request timed out")
)

// DefaultTimeout bounds one judge call.
const DefaultTimeout = 30 * time.Second

type Client interface {
	// Submit sends the code for judging and blocks until the verdict is in.
	// Fails with ErrJudgeUnavailable, ErrJudgeTimeout, or the context's
	// error if ctx is cancelled (process shutdown).
	Submit(ctx context.Context, problemRef, code, language string) (submqueue.Verdict, time.Duration, error)
}

type httpClient struct {
	baseUrl string
	client  *http.Client
}

func NewHttpClient(baseUrl string) Client {
	return NewHttpClientWithTimeout(baseUrl, DefaultTimeout)
}

func NewHttpClientWithTimeout(baseUrl string, timeout time.Duration) Client {
	return &httpClient{
		baseUrl: baseUrl,
		client:  &http.Client{Timeout: timeout},
	}
}

type judgeRequest struct {
	ProblemRef string `json:"problemRef"`
	Code       string `json:"code"`
	Language   string `json:"language"`
}

type judgeResponse struct {
	Verdict         string `json:"verdict"`
	ExecutionTimeMs int64  `json:"executionTimeMs"`
}

func (c *httpClient) Submit(ctx context.Context, problemRef, code, language string) (submqueue.Verdict, time.Duration, error) {
	body, err := json.Marshal(judgeRequest{
		ProblemRef: problemRef,
		Code:       code,
		Language:   language,
	})
	if err != nil {
		return submqueue.VerdictInternalError, 0, fmt.Errorf("failed to marshal judge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseUrl+"/judge", bytes.NewReader(body))
	if err != nil {
		return submqueue.VerdictInternalError, 0, fmt.Errorf("failed to build judge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// Shutdown cancellation, not a judge fault: the caller requeues.
			return submqueue.VerdictInternalError, 0, ctx.Err()
		}
		var urlErr interface{ Timeout() bool }
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return submqueue.VerdictInternalError, 0, ErrJudgeTimeout
		}
		return submqueue.VerdictInternalError, 0, ErrJudgeUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return submqueue.VerdictInternalError, 0,
			fmt.Errorf("%w: status %d", ErrJudgeUnavailable, resp.StatusCode)
	}

	var jr judgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&jr); err != nil {
		return submqueue.VerdictInternalError, 0,
			fmt.Errorf("%w: undecodable response: %v", ErrJudgeUnavailable, err)
	}

	verdict := submqueue.Verdict(jr.Verdict)
	if !verdict.IsValid() {
		return submqueue.VerdictInternalError, 0,
			fmt.Errorf("%w: unknown verdict %q", ErrJudgeUnavailable, jr.Verdict)
	}
	return verdict, time.Duration(jr.ExecutionTimeMs) * time.Millisecond, nil
}
