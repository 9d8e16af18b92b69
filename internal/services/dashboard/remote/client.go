package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/chistayaaa/afs-dashboard/internal/platform/errors"
	"github.com/chistayaaa/afs-dashboard/internal/platform/timeouts"
	"github.com/chistayaaa/afs-dashboard/internal/services/dashboard/organization"
)

// DefaultBaseURL is the public test API.
const DefaultBaseURL = "https://test-task-api.allfuneral.com/"

const (
	tracerName     = "github.com/chistayaaa/afs-dashboard/internal/services/dashboard/remote"
	requestFailed  = "API request failed"
	tokenFailed    = "acquire token"
	maxErrorDetail = 512
)

// TokenCache persists bearer tokens between process restarts.
type TokenCache interface {
	GetToken(ctx context.Context, username string) (string, bool, error)
	PutToken(ctx context.Context, username, token string) error
	DeleteToken(ctx context.Context, username string) error
}

// Config configures a Client.
type Config struct {
	BaseURL    string
	Username   string
	HTTPClient *http.Client
	// Tokens is optional. Without it the token lives only in memory.
	Tokens         TokenCache
	TokenTimeout   time.Duration
	RequestTimeout time.Duration
	UploadTimeout  time.Duration
}

// Client calls the remote API.
type Client struct {
	base           *url.URL
	username       string
	http           *http.Client
	tokens         TokenCache
	tokenTimeout   time.Duration
	requestTimeout time.Duration
	uploadTimeout  time.Duration
	tracer         trace.Tracer

	mu    sync.Mutex
	token string
}

// NewClient validates cfg and fills in defaults.
func NewClient(cfg Config) (*Client, error) {
	rawBase := strings.TrimSpace(cfg.BaseURL)
	if rawBase == "" {
		rawBase = DefaultBaseURL
	}
	if !strings.HasSuffix(rawBase, "/") {
		rawBase += "/"
	}
	base, err := url.Parse(rawBase)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https: %q", rawBase)
	}
	username := strings.TrimSpace(cfg.Username)
	if username == "" {
		return nil, errors.New("username is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	client := &Client{
		base:           base,
		username:       username,
		http:           httpClient,
		tokens:         cfg.Tokens,
		tokenTimeout:   orDefault(cfg.TokenTimeout, timeouts.TokenRequest),
		requestTimeout: orDefault(cfg.RequestTimeout, timeouts.RemoteRequest),
		uploadTimeout:  orDefault(cfg.UploadTimeout, timeouts.RemoteUpload),
		tracer:         otel.Tracer(tracerName),
	}
	return client, nil
}

// Username returns the account the client authenticates as.
func (c *Client) Username() string {
	return c.username
}

// SignedInAs names the current session for display. It never acquires a
// token.
func (c *Client) SignedInAs() string {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	return TokenSubject(token, c.username)
}

// GetCompany fetches a company by id.
func (c *Client) GetCompany(ctx context.Context, id string) (organization.Company, error) {
	var company organization.Company
	err := c.doJSON(ctx, "remote.get_company", http.MethodGet, "companies/"+url.PathEscape(id), nil, &company)
	return company, err
}

// UpdateCompany sends a partial update and returns the fields the server
// echoed back.
func (c *Client) UpdateCompany(ctx context.Context, id string, changes organization.Record) (organization.Record, error) {
	var updated organization.Record
	err := c.doJSON(ctx, "remote.update_company", http.MethodPatch, "companies/"+url.PathEscape(id), changes, &updated)
	return nonNil(updated), err
}

// DeleteCompany removes a company.
func (c *Client) DeleteCompany(ctx context.Context, id string) error {
	return c.doJSON(ctx, "remote.delete_company", http.MethodDelete, "companies/"+url.PathEscape(id), nil, nil)
}

// GetContact fetches a contact by id.
func (c *Client) GetContact(ctx context.Context, id string) (organization.Contact, error) {
	var contact organization.Contact
	err := c.doJSON(ctx, "remote.get_contact", http.MethodGet, "contacts/"+url.PathEscape(id), nil, &contact)
	return contact, err
}

// UpdateContact sends a partial contact update and returns the echoed fields.
func (c *Client) UpdateContact(ctx context.Context, id string, changes organization.Record) (organization.Record, error) {
	var updated organization.Record
	err := c.doJSON(ctx, "remote.update_contact", http.MethodPatch, "contacts/"+url.PathEscape(id), changes, &updated)
	return nonNil(updated), err
}

// UploadPhoto attaches an image to a company as multipart field "file".
func (c *Client) UploadPhoto(ctx context.Context, companyID string, upload organization.PhotoUpload) (organization.Photo, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, upload.Filename))
	contentType := upload.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := form.CreatePart(header)
	if err != nil {
		return organization.Photo{}, fmt.Errorf("create form part: %w", err)
	}
	if _, err := part.Write(upload.Data); err != nil {
		return organization.Photo{}, fmt.Errorf("write form part: %w", err)
	}
	if err := form.Close(); err != nil {
		return organization.Photo{}, fmt.Errorf("close form: %w", err)
	}

	var photo organization.Photo
	err = c.do(ctx, call{
		span:        "remote.upload_photo",
		method:      http.MethodPost,
		path:        "companies/" + url.PathEscape(companyID) + "/image",
		body:        &body,
		contentType: form.FormDataContentType(),
		timeout:     c.uploadTimeout,
		out:         &photo,
	})
	return photo, err
}

// DeletePhoto removes a named image from a company.
func (c *Client) DeletePhoto(ctx context.Context, companyID, name string) error {
	path := "companies/" + url.PathEscape(companyID) + "/image/" + url.PathEscape(name)
	return c.doJSON(ctx, "remote.delete_photo", http.MethodDelete, path, nil, nil)
}

type call struct {
	span        string
	method      string
	path        string
	body        io.Reader
	contentType string
	timeout     time.Duration
	out         any
}

func (c *Client) doJSON(ctx context.Context, span, method, path string, payload any, out any) error {
	req := call{span: span, method: method, path: path, timeout: c.requestTimeout, out: out}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return apperrors.Wrap(apperrors.KindValidation, requestFailed, fmt.Errorf("encode body: %w", err))
		}
		req.body = bytes.NewReader(raw)
		req.contentType = "application/json"
	}
	return c.do(ctx, req)
}

func (c *Client) do(ctx context.Context, rc call) (err error) {
	ctx, span := c.tracer.Start(ctx, rc.span, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", rc.method),
			attribute.String("url.path", rc.path),
		))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	token, err := c.bearer(ctx)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, rc.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, rc.method, c.base.JoinPath(rc.path).String(), rc.body)
	if err != nil {
		return apperrors.Wrap(apperrors.KindUnknown, requestFailed, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if rc.contentType != "" {
		req.Header.Set("Content-Type", rc.contentType)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return apperrors.Wrap(apperrors.KindNetwork, requestFailed, fmt.Errorf("%s %s: %w", rc.method, rc.path, err))
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusUnauthorized {
		c.dropToken(ctx)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(rc.method, rc.path, resp)
	}
	if rc.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(rc.out); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.Wrap(apperrors.KindNetwork, requestFailed, fmt.Errorf("decode %s %s: %w", rc.method, rc.path, err))
	}
	return nil
}

func (c *Client) bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		return token, nil
	}

	if c.tokens != nil {
		cached, ok, err := c.tokens.GetToken(ctx, c.username)
		if err != nil {
			log.Printf("remote token cache read failed user=%s err=%v", c.username, err)
		} else if ok && cached != "" {
			c.setToken(cached)
			return cached, nil
		}
	}

	token, err := c.acquireToken(ctx)
	if err != nil {
		return "", err
	}
	c.setToken(token)
	if c.tokens != nil {
		if err := c.tokens.PutToken(ctx, c.username, token); err != nil {
			log.Printf("remote token cache write failed user=%s err=%v", c.username, err)
		}
	}
	log.Printf("remote token acquired user=%s subject=%s", c.username, TokenSubject(token, c.username))
	return token, nil
}

func (c *Client) acquireToken(ctx context.Context) (string, error) {
	ctx, span := c.tracer.Start(ctx, "remote.acquire_token", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, c.tokenTimeout)
	defer cancel()

	endpoint := c.base.JoinPath("auth")
	endpoint.RawQuery = url.Values{"user": {c.username}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindAuth, tokenFailed, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", apperrors.Wrap(apperrors.KindAuth, tokenFailed, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, resp.Status)
		return "", apperrors.Wrap(apperrors.KindAuth, tokenFailed, fmt.Errorf("auth returned %s", resp.Status))
	}
	token := strings.TrimSpace(strings.TrimPrefix(resp.Header.Get("Authorization"), "Bearer "))
	if token == "" {
		span.SetStatus(codes.Error, "missing token")
		return "", apperrors.Wrap(apperrors.KindAuth, tokenFailed, errors.New("auth response carried no bearer token"))
	}
	return token, nil
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) dropToken(ctx context.Context) {
	c.setToken("")
	if c.tokens == nil {
		return
	}
	if err := c.tokens.DeleteToken(context.WithoutCancel(ctx), c.username); err != nil {
		log.Printf("remote token cache delete failed user=%s err=%v", c.username, err)
	}
}

func statusError(method, path string, resp *http.Response) error {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorDetail))
	cause := fmt.Errorf("%s %s: %s", method, path, resp.Status)
	if message := errorMessage(detail); message != "" {
		cause = fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, message)
	}
	return apperrors.Wrap(apperrors.FromHTTPStatus(resp.StatusCode), requestFailed, cause)
}

// errorMessage pulls a human message out of an error body, which the API
// sends either as {"error": "..."} or {"message": "..."}.
func errorMessage(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		return payload.Error
	}
	return ""
}

func nonNil(record organization.Record) organization.Record {
	if record == nil {
		return organization.Record{}
	}
	return record
}

func orDefault(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
