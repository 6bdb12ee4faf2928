package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"syscall"
	"time"

	"asistencia-bot/internal/config"
	"asistencia-bot/internal/metrics"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Сообщения для пользователя
const (
	MsgNotConfigured = "⚠️ No hay conexión configurada. Escanea un código QR válido."
	MsgTimeout       = "La conexión tardó demasiado. Verifica tu internet."
	MsgBadResponse   = "Error al procesar la respuesta del servidor"
	MsgOffline       = "Sin conexión a internet. Verifica tu conexión."
	MsgConnection    = "Error de conexión"
)

// Params параметры действия; уходят в тело запроса рядом с "action"
type Params map[string]any

// Caller вызывает действие бэкенда. Ошибки не возвращаются: всегда есть Result
type Caller interface {
	Call(ctx context.Context, action string, params Params) Result
}

// MalformedResponseError тело ответа не является JSON-объектом
type MalformedResponseError struct {
	StatusCode int
	Err        error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed response (HTTP %d): %v", e.StatusCode, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

type Client struct {
	tenant config.Tenant
	opts   config.NetworkConfig
	http   *http.Client
	debug  bool
	logger *logrus.Entry
}

func NewClient(tenant config.Tenant, opts config.NetworkConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	return &Client{
		tenant: tenant,
		opts:   opts,
		http:   httpClient,
		logger: logrus.WithFields(logrus.Fields{
			"component": "gateway",
			"empresa":   tenant.ID,
		}),
	}
}

func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// Call выполняет действие с таймаутом на попытку и ограниченным числом повторов
func (c *Client) Call(ctx context.Context, action string, params Params) Result {
	if !c.tenant.Configured() {
		metrics.GatewayCallsTotal.WithLabelValues(c.tenant.ID, action, "not_configured").Inc()
		return Failure(MsgNotConfigured)
	}

	start := time.Now()
	defer func() {
		metrics.GatewayCallDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
	}()

	log := c.logger.WithFields(logrus.Fields{
		"action":     action,
		"request_id": uuid.NewString(),
	})

	body, err := encodeRequest(action, params)
	if err != nil {
		log.WithError(err).Error("[API] failed to encode request")
		metrics.GatewayCallsTotal.WithLabelValues(c.tenant.ID, action, "error").Inc()
		return Failure(MsgConnection)
	}

	if c.debug {
		log.WithField("body", string(body)).Debug("[API] Request")
	}

	var lastErr error
	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Debugf("[API] Retry %d/%d", attempt, c.opts.MaxRetries)
			if err := sleep(ctx, c.opts.RetryDelay); err != nil {
				lastErr = err
				break
			}
		}

		metrics.GatewayAttemptsTotal.WithLabelValues(c.tenant.ID, action).Inc()
		res, err := c.attempt(ctx, body)
		if err == nil {
			if c.debug {
				log.WithField("success", res.Success).Debug("[API] Response")
			}
			metrics.GatewayCallsTotal.WithLabelValues(c.tenant.ID, action, outcome(res)).Inc()
			return res
		}

		lastErr = err
		log.WithError(err).WithField("attempt", attempt+1).Warn("[API] attempt failed")

		// вызывающий отменил запрос - повторять бессмысленно
		if ctx.Err() != nil {
			break
		}
	}

	message := classify(lastErr)
	log.WithError(lastErr).Errorf("[API] Error: %s", message)
	metrics.GatewayCallsTotal.WithLabelValues(c.tenant.ID, action, "error").Inc()
	return Failure(message)
}

func (c *Client) attempt(ctx context.Context, body []byte) (Result, error) {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tenant.APIURL, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "text/plain")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, err
	}

	var res Result
	if err := json.Unmarshal(raw, &res); err != nil {
		return Result{}, &MalformedResponseError{StatusCode: resp.StatusCode, Err: err}
	}
	return res, nil
}

func encodeRequest(action string, params Params) ([]byte, error) {
	payload := make(map[string]any, len(params)+1)
	for k, v := range params {
		payload[k] = v
	}
	payload["action"] = action
	return json.Marshal(payload)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func outcome(res Result) string {
	if res.Success {
		return "success"
	}
	return "rejected"
}

// classify переводит последнюю ошибку в сообщение; порядок проверок важен
func classify(err error) string {
	var malformed *MalformedResponseError
	switch {
	case err == nil:
		return MsgConnection
	case isTimeout(err):
		return MsgTimeout
	case errors.As(err, &malformed):
		return MsgBadResponse
	case isOffline(err):
		return MsgOffline
	default:
		return MsgConnection
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isOffline(err error) bool {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	return errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETDOWN)
}
