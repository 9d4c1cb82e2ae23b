package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/zhcet-ai/advisor-engine/internal/observability"
	errs "github.com/zhcet-ai/advisor-engine/internal/pkg/errors"
	"github.com/zhcet-ai/advisor-engine/internal/pkg/httpx"
	"github.com/zhcet-ai/advisor-engine/internal/pkg/logger"
)

// Client is the Gemini API client used for embeddings and advisory text.
// Failures surface as errs.ErrExternalService; the narrative layer absorbs
// them into fallback text.
type Client interface {
	// EmbedTexts embeds passages for indexing (retrieval-document task).
	EmbedTexts(ctx context.Context, inputs []string) ([][]float32, error)

	// EmbedQuery embeds a single query string (retrieval-query task).
	EmbedQuery(ctx context.Context, input string) ([]float32, error)

	// GenerateText makes exactly one generation attempt; callers that need
	// guaranteed output keep their own fallback.
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

// batchEmbedContents accepts at most this many requests per call.
const maxEmbedBatch = 100

type client struct {
	log        *logger.Logger
	metrics    *observability.Metrics
	baseURL    string
	apiKey     string
	textModel  string
	embedModel string
	httpClient *http.Client

	maxRetries int
}

func NewClient(log *logger.Logger, metrics *observability.Metrics) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("GEMINI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	textModel := strings.TrimSpace(os.Getenv("GEMINI_TEXT_MODEL"))
	if textModel == "" {
		textModel = "gemini-2.0-flash"
	}

	embedModel := strings.TrimSpace(os.Getenv("GEMINI_EMBED_MODEL"))
	if embedModel == "" {
		embedModel = "text-embedding-004"
	}

	timeoutSec := 60
	if v := os.Getenv("GEMINI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 2
	if v := os.Getenv("GEMINI_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &client{
		log:        log.With("service", "GeminiClient"),
		metrics:    metrics,
		baseURL:    baseURL,
		apiKey:     apiKey,
		textModel:  textModel,
		embedModel: embedModel,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type geminiHTTPError struct {
	StatusCode int
	Body       string
}

func (e *geminiHTTPError) Error() string {
	return fmt.Sprintf("gemini http %d: %s", e.StatusCode, e.Body)
}

func (e *geminiHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) doOnce(ctx context.Context, method, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &geminiHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, method, path string, body, out any, maxRetries int) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, method, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("gemini decode error: %w; raw=%s", uErr, string(raw))
			}
			return nil
		}

		if !httpx.IsRetryableError(err) {
			return err
		}
		if attempt == maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("Gemini request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff = httpx.NextBackoff(backoff, 30*time.Second)
	}

	return fmt.Errorf("unreachable retry loop")
}

// qualifyModel prefixes the bare model name the way the API expects it in
// request bodies.
func qualifyModel(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

// -------------------- Embeddings --------------------

type contentPart struct {
	Text string `json:"text"`
}

type requestContent struct {
	Role  string        `json:"role,omitempty"`
	Parts []contentPart `json:"parts"`
}

type embedContentRequest struct {
	Model    string         `json:"model"`
	Content  requestContent `json:"content"`
	TaskType string         `json:"taskType,omitempty"`
}

type embedContentResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

type batchEmbedRequest struct {
	Requests []embedContentRequest `json:"requests"`
}

type batchEmbedResponse struct {
	Embeddings []struct {
		Values []float64 `json:"values"`
	} `json:"embeddings"`
}

func (c *client) EmbedTexts(ctx context.Context, inputs []string) ([][]float32, error) {
	if len(inputs) == 0 {
		return [][]float32{}, nil
	}

	clean := make([]string, len(inputs))
	for i := range inputs {
		s := strings.TrimSpace(inputs[i])
		if s == "" {
			s = " "
		}
		clean[i] = s
	}

	out := make([][]float32, 0, len(clean))
	for start := 0; start < len(clean); start += maxEmbedBatch {
		end := start + maxEmbedBatch
		if end > len(clean) {
			end = len(clean)
		}

		req := batchEmbedRequest{Requests: make([]embedContentRequest, 0, end-start)}
		for _, text := range clean[start:end] {
			req.Requests = append(req.Requests, embedContentRequest{
				Model:    qualifyModel(c.embedModel),
				Content:  requestContent{Parts: []contentPart{{Text: text}}},
				TaskType: "RETRIEVAL_DOCUMENT",
			})
		}

		began := time.Now()
		var resp batchEmbedResponse
		err := c.do(ctx, "POST", "/v1beta/"+qualifyModel(c.embedModel)+":batchEmbedContents", req, &resp, c.maxRetries)
		c.metrics.ObserveExternalCall("gemini", "embed_batch", time.Since(began), err)
		if err != nil {
			return nil, fmt.Errorf("%w: embed texts: %w", errs.ErrExternalService, err)
		}
		if len(resp.Embeddings) != len(req.Requests) {
			return nil, fmt.Errorf("%w: embed texts: requested=%d returned=%d model=%s",
				errs.ErrExternalService, len(req.Requests), len(resp.Embeddings), c.embedModel)
		}

		for _, e := range resp.Embeddings {
			vec := make([]float32, len(e.Values))
			for i, f := range e.Values {
				vec[i] = float32(f)
			}
			out = append(out, vec)
		}
	}

	return out, nil
}

func (c *client) EmbedQuery(ctx context.Context, input string) ([]float32, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, fmt.Errorf("%w: embed query: empty input", errs.ErrInvalidArgument)
	}

	req := embedContentRequest{
		Model:    qualifyModel(c.embedModel),
		Content:  requestContent{Parts: []contentPart{{Text: text}}},
		TaskType: "RETRIEVAL_QUERY",
	}

	began := time.Now()
	var resp embedContentResponse
	err := c.do(ctx, "POST", "/v1beta/"+qualifyModel(c.embedModel)+":embedContent", req, &resp, c.maxRetries)
	c.metrics.ObserveExternalCall("gemini", "embed_query", time.Since(began), err)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", errs.ErrExternalService, err)
	}
	if len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("%w: embed query: empty embedding", errs.ErrExternalService)
	}

	vec := make([]float32, len(resp.Embedding.Values))
	for i, f := range resp.Embedding.Values {
		vec[i] = float32(f)
	}
	return vec, nil
}

// -------------------- Text generation --------------------

type generateRequest struct {
	SystemInstruction *requestContent `json:"systemInstruction,omitempty"`
	Contents          []requestContent `json:"contents"`
	GenerationConfig  struct {
		Temperature     float64 `json:"temperature,omitempty"`
		MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []contentPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

func extractCandidateText(resp generateResponse) string {
	var out strings.Builder
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text != "" {
				out.WriteString(part.Text)
			}
		}
		break
	}
	return out.String()
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	if strings.TrimSpace(user) == "" {
		return "", errors.New("user prompt required")
	}

	req := generateRequest{
		Contents: []requestContent{
			{Role: "user", Parts: []contentPart{{Text: user}}},
		},
	}
	if strings.TrimSpace(system) != "" {
		req.SystemInstruction = &requestContent{Parts: []contentPart{{Text: system}}}
	}
	req.GenerationConfig.Temperature = 0.2

	// Single attempt: a slow or failing provider degrades to the caller's
	// templated fallback instead of piling on retries.
	began := time.Now()
	var resp generateResponse
	err := c.do(ctx, "POST", "/v1beta/"+qualifyModel(c.textModel)+":generateContent", req, &resp, 0)
	c.metrics.ObserveExternalCall("gemini", "generate", time.Since(began), err)
	if err != nil {
		return "", fmt.Errorf("%w: generate text: %w", errs.ErrExternalService, err)
	}

	if resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: generate text: blocked (%s)", errs.ErrExternalService, resp.PromptFeedback.BlockReason)
	}
	text := extractCandidateText(resp)
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: generate text: no candidate text", errs.ErrExternalService)
	}
	return text, nil
}
