package main

import (
	"github.com/gkf-project/gkf/backend/internal/server"
	"github.com/gkf-project/gkf/backend/internal/util"
	"github.com/gkf-project/gkf/backend/pkg/logger"
	"github.com/gkf-project/gkf/backend/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
