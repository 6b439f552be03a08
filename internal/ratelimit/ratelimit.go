package ratelimit

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter — счетчик запросов с фиксированным окном на ключ клиента.
// Хранит состояние только в памяти процесса: при нескольких репликах
// квота действует на каждую реплику отдельно.
type Limiter struct {
	maxRequests int
	window      time.Duration

	mu      sync.Mutex
	entries map[string]*entry

	sweepInterval time.Duration
	stopCh        chan struct{}
	stopOnce      sync.Once
}

type entry struct {
	count     int
	resetTime time.Time
}

func New(maxRequests int, window, sweepInterval time.Duration) *Limiter {
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	l := &Limiter{
		maxRequests:   maxRequests,
		window:        window,
		entries:       make(map[string]*entry),
		sweepInterval: sweepInterval,
		stopCh:        make(chan struct{}),
	}

	go l.sweepLoop()

	return l
}

// Allow регистрирует запрос и сообщает, укладывается ли клиент в квоту.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || !e.resetTime.After(now) {
		// Первый запрос или окно истекло — начинаем новое окно
		l.entries[key] = &entry{count: 1, resetTime: now.Add(l.window)}
		return true
	}

	e.count++
	return e.count <= l.maxRequests
}

// RetryAfter возвращает время до сброса окна клиента.
func (l *Limiter) RetryAfter(key string) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return 0
	}

	remaining := time.Until(e.resetTime)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stopCh)
	})
}

func (l *Limiter) sweepLoop() {
	ticker := time.NewTicker(l.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.sweep(time.Now())
		case <-l.stopCh:
			return
		}
	}
}

func (l *Limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, e := range l.entries {
		if !e.resetTime.After(now) {
			delete(l.entries, key)
		}
	}
}

// ClientKey выводит ключ клиента из заголовков запроса. Все клиенты без
// опознаваемого адреса делят одну квоту "unknown".
func ClientKey(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.SplitN(forwarded, ",", 2)
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if realIP := r.Header.Get("X-Real-Ip"); realIP != "" {
		return realIP
	}
	return "unknown"
}
