// Package main содержит точку входа клиентского CLI-приложения projecthub.
//
// Пакет передаёт информацию о версии и дате сборки в CLI-слой приложения.
package main

import "github.com/IvanChernomyrdin/go-yandex-projecthub/internal/agent/cli"

var (
	// buildVersion задаётся при сборке через -ldflags.
	buildVersion = "dev"
	// buildDate задаётся при сборке через -ldflags.
	buildDate = "unknown"
)

func main() {
	cli.Execute(buildVersion, buildDate)
}
