package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the taxonomy analysis platform over HTTP. It performs no
// retries of its own; the submission workflow supplies retry-like behavior
// through its polling rhythm.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a platform client for the given origin.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// CreateSample registers a new sample from its QR code and returns the
// server-assigned sample id.
func (c *Client) CreateSample(ctx context.Context, code string) (string, error) {
	var resp struct {
		SampleID string `json:"sample_id"`
	}
	form := url.Values{"qr_code": {code}}
	if err := c.postForm(ctx, http.MethodPost, "/api/samples", form, &resp); err != nil {
		return "", err
	}
	if resp.SampleID == "" {
		return "", fmt.Errorf("create sample: %w", ErrEmptyResult)
	}
	return resp.SampleID, nil
}

// UploadFiles sends the genome file and the optional colony image for the
// given sample as a multipart request, and returns the server's confirmation
// message. An empty imagePath skips the image part.
func (c *Client) UploadFiles(ctx context.Context, sampleID, genomePath, imagePath string) (string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := addFilePart(writer, "genome_file", genomePath); err != nil {
		return "", err
	}
	if imagePath != "" {
		if err := addFilePart(writer, "image_file", imagePath); err != nil {
			return "", err
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalizing upload payload: %w", err)
	}

	path := fmt.Sprintf("/api/samples/%s/upload", url.PathEscape(sampleID))
	req, err := c.newRequest(ctx, http.MethodPost, path, body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// FetchResult retrieves the current analysis state of a sample. The envelope
// reports either a processing status or the completed classification.
func (c *Client) FetchResult(ctx context.Context, sampleID string) (*ResultEnvelope, error) {
	path := fmt.Sprintf("/api/samples/%s/result", url.PathEscape(sampleID))
	var wire resultWire
	if err := c.getJSON(ctx, path, &wire); err != nil {
		return nil, err
	}
	return wire.envelope(), nil
}

// FetchSample retrieves one sample by id. The platform answers either with
// the full sample document (result nested under `result`) or with the result
// fields flat; both are normalized into a SampleRecord.
func (c *Client) FetchSample(ctx context.Context, sampleID string) (*SampleRecord, error) {
	path := fmt.Sprintf("/api/samples/%s", url.PathEscape(sampleID))
	var wire sampleWire
	if err := c.getJSON(ctx, path, &wire); err != nil {
		return nil, err
	}
	if wire.empty() {
		return nil, fmt.Errorf("sample %s: %w", sampleID, ErrEmptyResult)
	}
	return wire.record(sampleID), nil
}

// FetchAllSamples retrieves the full sample collection.
func (c *Client) FetchAllSamples(ctx context.Context) ([]SampleRecord, error) {
	var resp struct {
		Samples []SampleRecord `json:"samples"`
	}
	if err := c.getJSON(ctx, "/api/samples", &resp); err != nil {
		return nil, err
	}
	return resp.Samples, nil
}

// FetchCompletedResults retrieves only the samples whose analysis has
// completed.
func (c *Client) FetchCompletedResults(ctx context.Context) ([]SampleRecord, error) {
	var resp []SampleRecord
	if err := c.getJSON(ctx, "/api/results", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// PostChat asks a follow-up question about the given sample and returns the
// assistant's answer.
func (c *Client) PostChat(ctx context.Context, sampleID, question string) (string, error) {
	var resp struct {
		Answer string `json:"answer"`
		Error  string `json:"error"`
	}
	path := fmt.Sprintf("/api/chat/%s", url.PathEscape(sampleID))
	form := url.Values{"question": {question}}
	if err := c.postForm(ctx, http.MethodPost, path, form, &resp); err != nil {
		return "", err
	}
	if resp.Error != "" {
		return "", &RemoteError{Status: http.StatusOK, Detail: resp.Error}
	}
	if resp.Answer == "" {
		return "", fmt.Errorf("chat for sample %s: %w", sampleID, ErrEmptyResult)
	}
	return resp.Answer, nil
}

// SubmitCorrection stores a manually corrected taxonomy for the sample.
func (c *Client) SubmitCorrection(ctx context.Context, sampleID, taxonomy string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	path := fmt.Sprintf("/api/samples/%s/correction", url.PathEscape(sampleID))
	form := url.Values{"corrected_taxonomy": {taxonomy}}
	if err := c.postForm(ctx, http.MethodPut, path, form, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func addFilePart(writer *multipart.Writer, field, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return &ValidationError{Reason: fmt.Sprintf("could not open %s: %v", filepath.Base(path), err)}
	}
	defer file.Close()

	part, err := writer.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("building %s part: %w", field, err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

func (c *Client) postForm(ctx context.Context, method, path string, form url.Values, out any) error {
	req, err := c.newRequest(ctx, method, path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// do executes the request and decodes the response, translating transport
// failures and non-success statuses into the adapter's error taxonomy.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return &ConnectivityError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ConnectivityError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure struct {
			Detail string `json:"detail"`
		}
		_ = json.Unmarshal(body, &failure)
		return &RemoteError{Status: resp.StatusCode, Detail: failure.Detail}
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", req.URL.Path, err)
	}
	return nil
}
