package worker

import (
	"context"
	"sync"
	"time"

	"github.com/denmor86/ya-reseller/internal/client"
	"github.com/denmor86/ya-reseller/internal/logger"
)

// TokenWorker - фоновое обновление токена доступа, чтобы запросы не ждали OAuth сервер
type TokenWorker struct {
	Tokens       client.TokenProvider
	WaitGroup    sync.WaitGroup
	QuitChan     chan struct{}
	PollInterval time.Duration
	// RequestTimeout - ограничение одного обращения к OAuth серверу
	RequestTimeout time.Duration
}

// NewTokenWorker - конструктор обработчика обновления токена
func NewTokenWorker(tokens client.TokenProvider, interval time.Duration) *TokenWorker {
	return &TokenWorker{
		Tokens:         tokens,
		QuitChan:       make(chan struct{}),
		PollInterval:   interval,
		RequestTimeout: 10 * time.Second,
	}
}

// Start - запускает воркер в фоне
func (w *TokenWorker) Start(ctx context.Context) {
	w.WaitGroup.Add(1)
	go w.Run(ctx)
}

// Stop - корректно останавливает воркер
func (w *TokenWorker) Stop() {
	close(w.QuitChan)
	w.WaitGroup.Wait()
}

// Run - первое обращение сразу, затем по таймеру
func (w *TokenWorker) Run(ctx context.Context) {
	defer w.WaitGroup.Done()

	w.Refresh(ctx)

	ticker := time.NewTicker(w.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.QuitChan:
			logger.Info("TokenWorker signal stop")
			return
		case <-ctx.Done():
			logger.Info("TokenWorker context done")
			return
		case <-ticker.C:
			w.Refresh(ctx)
		}
	}
}

// Refresh - менеджер токенов сам решает, нужен ли запрос к OAuth серверу
func (w *TokenWorker) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, w.RequestTimeout)
	defer cancel()

	if _, err := w.Tokens.Token(ctx); err != nil {
		logger.Warnw("Failed to refresh access token", "error", err)
	}
}
