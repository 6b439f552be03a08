package proxy

import (
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Proxy прозрачно пробрасывает запросы во внешний REST API управления
// пользователями. Никакой собственной логики: тело и статус отдаются как
// есть.
type Proxy struct {
	target *url.URL
	proxy  *httputil.ReverseProxy
	logger zerolog.Logger
}

func New(targetURL string, timeout time.Duration, logger zerolog.Logger) (*Proxy, error) {
	target, err := url.Parse(targetURL)
	if err != nil {
		return nil, err
	}

	p := &Proxy{
		target: target,
		logger: logger,
	}

	p.proxy = httputil.NewSingleHostReverseProxy(target)
	p.proxy.Director = p.director
	p.proxy.ErrorHandler = p.errorHandler
	p.proxy.Transport = &http.Transport{
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return p, nil
}

func (p *Proxy) director(req *http.Request) {
	originalPath := req.URL.Path

	req.URL.Scheme = p.target.Scheme
	req.URL.Host = p.target.Host
	req.Host = p.target.Host

	// /api/users/... на нашей стороне -> {base_path}/users/... на целевой
	req.URL.Path = strings.TrimSuffix(p.target.Path, "/") + strings.TrimPrefix(originalPath, "/api")

	req.Header.Set("X-Forwarded-Host", req.Host)
	req.Header.Set("X-Forwarded-For", req.RemoteAddr)

	p.logger.Debug().
		Str("method", req.Method).
		Str("original_path", originalPath).
		Str("target_path", req.URL.Path).
		Str("target", p.target.String()).
		Msg("Proxying request")
}

func (p *Proxy) errorHandler(w http.ResponseWriter, r *http.Request, err error) {
	p.logger.Error().
		Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("target", p.target.String()).
		Msg("Proxy error")

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)

	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   false,
		"error":     "User service is temporarily unavailable. Please try again later.",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.proxy.ServeHTTP(w, r)
}
