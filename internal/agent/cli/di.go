package cli

import (
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/agent/api"
	"github.com/IvanChernomyrdin/go-yandex-projecthub/internal/agent/config"
)

// для тестов
var (
	NewAPIClient = api.NewClient
	SaveProfile  = config.Save
)
