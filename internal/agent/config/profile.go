// Package config содержит функции для работы с локальной конфигурацией CLI-клиента.
//
// Профиль хранит адрес сервера и размещается в домашней директории пользователя:
//
//	~/.projecthub/config.json
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// DefaultServerURL используется, если адрес не задан ни флагом, ни окружением, ни профилем.
const DefaultServerURL = "http://127.0.0.1:8000"

// ServerEnv — переменная окружения с адресом сервера.
const ServerEnv = "PROJECTHUB_SERVER"

// Profile — сохранённые настройки клиента.
type Profile struct {
	ServerURL string `json:"server_url,omitempty"`
	// Insecure отключает проверку TLS-сертификата сервера.
	Insecure bool `json:"insecure,omitempty"`
}

// DefaultPath возвращает путь к профилю в домашней директории пользователя.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".projecthub", "config.json"), nil
}

// Load загружает профиль из указанного файла.
//
// Если файл не существует, возвращает пустой профиль без ошибки.
func Load(path string) (*Profile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Profile{}, nil
		}
		return nil, err
	}
	var p Profile
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save сохраняет профиль в JSON, создавая директорию с правами 0700.
func Save(path string, p *Profile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// ResolveServerURL выбирает адрес сервера: флаг, затем окружение, затем профиль.
func ResolveServerURL(flag string, p *Profile) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(ServerEnv); env != "" {
		return env
	}
	if p != nil && p.ServerURL != "" {
		return p.ServerURL
	}
	return DefaultServerURL
}
