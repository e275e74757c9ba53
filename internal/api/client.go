// Package api is the REST client for the colegio backend. Every entity
// exposes the same surface the server does: paginated index/search, show,
// store, update, and destroy (or a soft "anular" where the server voids
// instead of deleting).
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/avaldiviar/colegio/internal/logger"
)

var (
	ErrNotFound     = errors.New("api: record not found")
	ErrUnauthorized = errors.New("api: unauthorized")
)

// APIError is a non-2xx response carrying the backend's error payload.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: server returned %d: %s", e.Status, e.Message)
}

// Filters are entity-specific query-string fields (search, estado, grado_id,
// rol_id, ...). The server owns their semantics; the client passes them
// through verbatim.
type Filters map[string]string

type Client struct {
	base  *url.URL
	token string
	http  *http.Client

	Alumnos    *AlumnoService
	Anios      *AnioService
	Periodos   *PeriodoService
	Niveles    *NivelService
	Grados     *GradoService
	Secciones  *SeccionService
	Cursos     *CursoService
	Docentes   *DocenteService
	Roles      *RolService
	Curriculo  *CurriculoService
	Matriculas *MatriculaService
	Conceptos  *ConceptoService
	Pagos      *PagoService
}

func New(baseURL, token string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("api: base URL %q must be absolute", baseURL)
	}
	c := &Client{
		base:  u,
		token: token,
		http:  &http.Client{Timeout: timeout},
	}
	c.Alumnos = &AlumnoService{c}
	c.Anios = &AnioService{c}
	c.Periodos = &PeriodoService{c}
	c.Niveles = &NivelService{c}
	c.Grados = &GradoService{c}
	c.Secciones = &SeccionService{c}
	c.Cursos = &CursoService{c}
	c.Docentes = &DocenteService{c}
	c.Roles = &RolService{c}
	c.Curriculo = &CurriculoService{c}
	c.Matriculas = &MatriculaService{c}
	c.Conceptos = &ConceptoService{c}
	c.Pagos = &PagoService{c}
	return c, nil
}

// Ping checks connectivity and credentials against the backend's health
// endpoint. Used by the doctor command.
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/api/health", nil, nil)
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	body, _, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return decode(body, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	body, _, err := c.do(ctx, http.MethodPost, path, nil, in)
	if err != nil {
		return err
	}
	return decode(body, out)
}

func (c *Client) put(ctx context.Context, path string, in, out any) error {
	body, _, err := c.do(ctx, http.MethodPut, path, nil, in)
	if err != nil {
		return err
	}
	return decode(body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, _, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

// do issues one request and returns the raw body plus the response
// Content-Type. The payments endpoint answers store with a PDF ticket
// instead of JSON, so callers that care inspect the content type.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in any) ([]byte, string, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return nil, "", fmt.Errorf("api: encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("api: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.New().String())
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("api: reading response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, "", ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, "", ErrUnauthorized
	case resp.StatusCode >= 400:
		apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(body)}
		logger.Warn("request failed", "method", method, "path", path, "status", resp.StatusCode)
		return nil, "", apiErr
	}

	return body, resp.Header.Get("Content-Type"), nil
}

func decode(body []byte, out any) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("api: decoding response: %w", err)
	}
	return nil
}

func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(body))
}

// pageQuery builds the uniform index query string: page number plus
// entity-specific filters.
func pageQuery(page int, filters Filters) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	for k, v := range filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}
