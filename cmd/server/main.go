package main

import (
	"github.com/ethica-ai/ethica/backend/internal/server"
	"github.com/ethica-ai/ethica/backend/internal/util"
	"github.com/ethica-ai/ethica/backend/pkg/logger"
	"github.com/ethica-ai/ethica/backend/pkg/logger/console"
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
