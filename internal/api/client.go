package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// healthTimeout caps the health probe so a dead service degrades quickly
// instead of hanging for the full transport timeout.
const healthTimeout = 5 * time.Second

// Client talks to one Text2Speech service. It is stateless per call; the
// only shared state is the underlying HTTP connection pool.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient creates a client for the service at baseURL. A trailing slash
// on baseURL is tolerated. httpClient and logger may be nil.
func NewClient(baseURL string, httpClient *http.Client, logger *log.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the configured service URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Health probes GET /health. This is the one operation that swallows
// transport errors: it is only used for diagnostic display, so an
// unreachable service is reported as status "unavailable" rather than
// as a failure.
func (c *Client) Health(ctx context.Context) Health {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	var h Health
	if err := c.getJSON(ctx, "/health", &h); err != nil {
		return Health{Status: "unavailable", Error: err.Error()}
	}
	return h
}

// Speakers fetches the preset speakers offered by the service.
func (c *Client) Speakers(ctx context.Context) ([]Speaker, error) {
	var speakers []Speaker
	if err := c.getJSON(ctx, "/meta/speakers", &speakers); err != nil {
		return nil, err
	}
	return speakers, nil
}

// Languages fetches the languages the service supports.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	var languages []Language
	if err := c.getJSON(ctx, "/meta/languages", &languages); err != nil {
		return nil, err
	}
	return languages, nil
}

// Models fetches the load state of the service's models.
func (c *Client) Models(ctx context.Context) ([]Model, error) {
	var models []Model
	if err := c.getJSON(ctx, "/meta/models", &models); err != nil {
		return nil, err
	}
	return models, nil
}

// Submit validates the submission, issues the matching synthesis request
// and returns the new job id. Local preconditions (required fields, the
// reference audio file for voice-clone) are checked before any network
// call. Submissions are never retried; a retry would create a second job.
func (c *Client) Submit(ctx context.Context, sub Submission) (string, error) {
	if err := sub.Validate(); err != nil {
		return "", err
	}

	switch sub.Kind {
	case KindCustomVoice:
		return c.submitJSON(ctx, "/tts/custom-voice", customVoiceRequest{
			Text:     sub.Text,
			Speaker:  sub.Speaker,
			Language: sub.Language,
			Instruct: sub.Instruct,
		})
	case KindVoiceCloneTimbre:
		return c.submitJSON(ctx, "/tts/custom-voice", customVoiceRequest{
			Text:     sub.Text,
			Speaker:  sub.Speaker,
			Language: sub.Language,
			Mode:     "clone",
			Instruct: sub.Instruct,
		})
	case KindVoiceDesign:
		return c.submitJSON(ctx, "/tts/voice-design", voiceDesignRequest{
			Text:     sub.Text,
			Instruct: sub.Instruct,
			Language: sub.Language,
		})
	case KindVoiceDesignClone:
		return c.submitJSON(ctx, "/tts/voice-design-clone", voiceDesignCloneRequest{
			DesignText:     sub.DesignText,
			DesignInstruct: sub.DesignInstruct,
			CloneTexts:     sub.CloneTexts,
			DesignLanguage: sub.DesignLanguage,
			CloneLanguage:  sub.CloneLanguage,
		})
	case KindVoiceClone:
		return c.submitVoiceClone(ctx, sub)
	}
	return "", fmt.Errorf("unknown submission kind %q", sub.Kind)
}

func (c *Client) submitJSON(ctx context.Context, path string, payload any) (string, error) {
	var res struct {
		JobID string `json:"job_id"`
	}
	if err := c.postJSON(ctx, path, payload, &res); err != nil {
		return "", err
	}
	if res.JobID == "" {
		return "", fmt.Errorf("POST %s: response carried no job_id", path)
	}
	c.logger.Printf("api: submitted job %s via %s", res.JobID, path)
	return res.JobID, nil
}

func (c *Client) submitVoiceClone(ctx context.Context, sub Submission) (string, error) {
	f, err := os.Open(sub.AudioPath)
	if err != nil {
		return "", fmt.Errorf("reference audio: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("audio", filepath.Base(sub.AudioPath))
	if err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read reference audio: %w", err)
	}

	fields := map[string]string{
		"text":                 sub.Text,
		"language":             sub.Language,
		"x_vector_only_mode":   strconv.FormatBool(sub.XVectorOnly),
		"consent_acknowledged": "true",
	}
	if sub.RefText != "" {
		fields["ref_text"] = sub.RefText
	}
	if sub.Instruct != "" {
		fields["instruct"] = sub.Instruct
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return "", fmt.Errorf("build multipart form: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tts/voice-clone", &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var res struct {
		JobID string `json:"job_id"`
	}
	if err := c.do(req, &res); err != nil {
		return "", err
	}
	if res.JobID == "" {
		return "", fmt.Errorf("POST /tts/voice-clone: response carried no job_id")
	}
	c.logger.Printf("api: submitted job %s via /tts/voice-clone", res.JobID)
	return res.JobID, nil
}

// JobStatus fetches the current projection of a job.
func (c *Client) JobStatus(ctx context.Context, jobID string) (Job, error) {
	var job Job
	if err := c.getJSON(ctx, "/jobs/"+jobID+"/status", &job); err != nil {
		return Job{}, err
	}
	return job, nil
}

// Cancel asks the service to cancel a running job.
func (c *Client) Cancel(ctx context.Context, jobID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/jobs/"+jobID+"/cancel", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, nil)
}

// Download fetches an artifact and writes it to destPath, creating parent
// directories as needed. audioURL may be absolute, root-relative or bare
// relative; relative forms are resolved against the base URL. A failed
// download may leave a partial file behind but is never reported as success.
func (c *Client) Download(ctx context.Context, audioURL, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ResolveArtifactURL(audioURL), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download artifact: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "GET "+audioURL); err != nil {
		return err
	}
	return writeFile(destPath, resp.Body)
}

// ResolveArtifactURL expands a possibly-relative artifact reference:
// absolute URLs pass through, anything else is appended to the base URL.
func (c *Client) ResolveArtifactURL(audioURL string) string {
	switch {
	case strings.HasPrefix(audioURL, "http://"), strings.HasPrefix(audioURL, "https://"):
		return audioURL
	case strings.HasPrefix(audioURL, "/"):
		return c.baseURL + audioURL
	default:
		return c.baseURL + "/" + audioURL
	}
}

// Encode uploads a local audio file to the tokenizer and returns its token
// sequence. The file is read before the request is built, so a missing file
// fails without touching the network.
func (c *Client) Encode(ctx context.Context, audioPath string) (TokenSet, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return TokenSet{}, fmt.Errorf("audio file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return TokenSet{}, fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return TokenSet{}, fmt.Errorf("read audio file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return TokenSet{}, fmt.Errorf("build multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tokenizer/encode", &buf)
	if err != nil {
		return TokenSet{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var ts TokenSet
	if err := c.do(req, &ts); err != nil {
		return TokenSet{}, err
	}
	return ts, nil
}

// Decode turns a token sequence back into audio and writes the raw response
// bytes to destPath.
func (c *Client) Decode(ctx context.Context, tokens []int, destPath string) error {
	body, err := json.Marshal(struct {
		Tokens []int `json:"tokens"`
	}{Tokens: tokens})
	if err != nil {
		return fmt.Errorf("marshal tokens: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tokenizer/decode", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("decode tokens: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, "POST /tokenizer/decode"); err != nil {
		return err
	}
	return writeFile(destPath, resp.Body)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// do sends the request, fails on any non-2xx status and decodes the JSON
// body into out when out is non-nil.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, req.Method+" "+req.URL.Path); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	return fmt.Errorf("%s: API error: %s - %s", op, resp.Status, strings.TrimSpace(string(body)))
}

// writeFile streams body to path, creating parent directories first.
func writeFile(path string, body io.Reader) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
