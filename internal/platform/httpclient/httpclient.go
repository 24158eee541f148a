package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultTimeout = 10 * time.Second

	// Nombre de los parts del form que espera el backend en /pet/add.
	multipartInfoField = "info"
	multipartFileField = "file"
)

// TokenSource entrega el bearer token vigente (o "" si no hay sesión).
// Lo implementa el session.Manager; el cliente nunca muta la sesión.
type TokenSource interface {
	Token() string
}

// Client envuelve *http.Client para hablar con el backend de la consola.
// Adjunta Authorization: Bearer <token> cuando hay token, y un X-Request-Id
// por request para correlación.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Tokens  TokenSource // opcional; nil => requests anónimos
}

// New crea un Client con timeout razonable.
func New(baseURL string, timeout time.Duration) (*Client, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("httpclient: base url required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("httpclient: invalid base url: %w", err)
	}
	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(baseURL string, timeout time.Duration, tr http.RoundTripper) (*Client, error) {
	c, err := New(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	if tr != nil {
		c.HTTP.Transport = tr
	}
	return c, nil
}

// RequestError representa una respuesta no-2xx del backend.
// Message viene del campo {message} del body cuando existe.
type RequestError struct {
	StatusCode int
	Message    string
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("request failed: status=%d message=%s", e.StatusCode, e.Message)
}

// IsUnauthorized reporta si err es un 401 del backend.
// Los controllers usan esto para disparar la invalidación de sesión.
func IsUnauthorized(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.StatusCode == http.StatusUnauthorized
}

// IsNotFound reporta si err es un 404 del backend.
func IsNotFound(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.StatusCode == http.StatusNotFound
}

// Upload es un archivo adjunto para requests multipart (foto de mascota).
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// DoJSON hace un request JSON contra el backend.
// - in: body a enviar (opcional). Si nil => sin body.
// - out: donde decodificar la respuesta (opcional).
// Retorna *RequestError si el status no es 2xx.
func (c *Client) DoJSON(ctx context.Context, method, path string, in, out any) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := c.newRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.do(req, out)
}

// DoMultipart hace un request multipart/form-data:
// un part "info" con el JSON del registro y, opcionalmente, un part "file".
// Es el formato que espera POST /pet/add.
func (c *Client) DoMultipart(ctx context.Context, method, path string, info any, file *Upload, out any) error {
	if c == nil || c.HTTP == nil {
		return errors.New("httpclient: nil client")
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	infoJSON, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("httpclient: marshal info: %w", err)
	}
	if err := mw.WriteField(multipartInfoField, string(infoJSON)); err != nil {
		return fmt.Errorf("httpclient: write info part: %w", err)
	}

	if file != nil {
		name := strings.TrimSpace(file.FileName)
		if name == "" {
			name = "upload"
		}
		fw, err := mw.CreateFormFile(multipartFileField, name)
		if err != nil {
			return fmt.Errorf("httpclient: create file part: %w", err)
		}
		if _, err := fw.Write(file.Data); err != nil {
			return fmt.Errorf("httpclient: write file part: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return fmt.Errorf("httpclient: close multipart: %w", err)
	}

	req, err := c.newRequest(ctx, method, path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("httpclient: empty path")
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())

	if c.Tokens != nil {
		if tok := strings.TrimSpace(c.Tokens.Token()); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := readAtMost(resp.Body, 1<<20) // 1MB max

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &RequestError{
			StatusCode: resp.StatusCode,
			Message:    backendMessage(raw),
		}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

// backendMessage extrae el campo {message} del body de error, si existe.
func backendMessage(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return strings.TrimSpace(payload.Message)
}

func readAtMost(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = 1 << 20
	}
	lr := io.LimitReader(r, max)
	return io.ReadAll(lr)
}
