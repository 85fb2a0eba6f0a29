package main

import (
	"fmt"

	"github.com/denmor86/ya-reseller/internal/app"
	"github.com/denmor86/ya-reseller/internal/config"
	"github.com/denmor86/ya-reseller/internal/logger"
)

func main() {
	// загрузка конфига
	config := config.NewConfig()
	// инициализация логгера
	if err := logger.Initialize(config.Server.LogLevel); err != nil {
		panic(fmt.Sprintf("can't initialize logger: %s ", err.Error()))
	}
	defer logger.Sync()

	if err := app.Run(config); err != nil {
		logger.Errorw("service stopped with error", "error", err)
	}
}
