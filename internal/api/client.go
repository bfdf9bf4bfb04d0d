// Package api реализует REST-клиент бэкенда Yoked.
//
// Клиент добавляет Bearer-токен из Credentials, приводит ответы к ошибкам ядра
// (ErrNetwork, ErrUnauthorized, *models.APIError) и не делает повторных попыток.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/yoked-client/internal/lib/sl"
	"github.com/magabrotheeeer/yoked-client/internal/metrics"
	"github.com/magabrotheeeer/yoked-client/internal/models"
)

// Credentials поставляет токен для запросов и реагирует на ответы 401/403.
type Credentials interface {
	// Token возвращает текущий токен и признак его наличия.
	Token(ctx context.Context) (string, bool)
	// HandleUnauthorized вызывается, когда бэкенд отверг токен.
	HandleUnauthorized(ctx context.Context)
}

type authMode int

const (
	authNone authMode = iota
	authOptional
	authRequired
)

// Client: HTTP-клиент бэкенда.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	creds      Credentials
	log        *slog.Logger
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout задаёт таймаут запросов. Нулевое значение оставляет таймаут http.Client по умолчанию.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithRateLimit ограничивает частоту исходящих запросов. rps <= 0 отключает ограничение.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient создаёт клиент бэкенда без учётных данных.
func NewClient(baseURL string, log *slog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		log:        log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithCredentials возвращает копию клиента, использующую указанные учётные данные.
// Ограничитель частоты и http.Client остаются общими.
func (c *Client) WithCredentials(creds Credentials) *Client {
	cp := *c
	cp.creds = creds
	return &cp
}

type call struct {
	name   string // имя эндпоинта для метрик и логов
	method string
	path   string
	query  url.Values
	body   any
	auth   authMode
}

func (c *Client) do(ctx context.Context, cl call, out any) error {
	op := "api." + cl.name
	log := c.log.With(sl.Op(op))

	token, hasToken := "", false
	if cl.auth != authNone && c.creds != nil {
		token, hasToken = c.creds.Token(ctx)
	}
	if cl.auth == authRequired && !hasToken {
		return fmt.Errorf("%s: %w", op, models.ErrUnauthenticated)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	req, err := c.newRequest(ctx, cl, token)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.APIRequests.WithLabelValues(cl.method, cl.name, "error").Inc()
		log.Error("request failed", sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, models.ErrNetwork, err)
	}
	defer resp.Body.Close()
	metrics.APIRequests.WithLabelValues(cl.method, cl.name, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, models.ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		log.Warn("backend rejected credentials", slog.Int("status", resp.StatusCode))
		if hasToken && c.creds != nil {
			c.creds.HandleUnauthorized(ctx)
		}
		return fmt.Errorf("%s: %w: %s", op, models.ErrUnauthorized, detail(body))
	case resp.StatusCode >= http.StatusInternalServerError:
		log.Error("backend error", slog.Int("status", resp.StatusCode))
		return fmt.Errorf("%s: %w: unexpected status: %s", op, models.ErrNetwork, resp.Status)
	case resp.StatusCode >= http.StatusBadRequest:
		return fmt.Errorf("%s: %w", op, &models.APIError{Status: resp.StatusCode, Detail: detail(body)})
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, cl call, token string) (*http.Request, error) {
	u := c.baseURL + cl.path
	if len(cl.query) > 0 {
		u += "?" + cl.query.Encode()
	}
	var buf io.Reader
	if cl.body != nil {
		var b bytes.Buffer
		if err := json.NewEncoder(&b).Encode(cl.body); err != nil {
			return nil, err
		}
		buf = &b
	}
	req, err := http.NewRequestWithContext(ctx, cl.method, u, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// detail достаёт поле detail из ответа бэкенда. FastAPI отдаёт там строку
// или список ошибок валидации, во втором случае возвращается сырой JSON.
func detail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}
	return string(payload.Detail)
}

// IsUnauthorized сообщает, что ошибка вызвана отсутствием или отказом в токене.
func IsUnauthorized(err error) bool {
	return errors.Is(err, models.ErrUnauthorized) || errors.Is(err, models.ErrUnauthenticated)
}
