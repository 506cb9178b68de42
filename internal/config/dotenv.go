package config

import (
	"bufio"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"housing-coop-go/pkg/logger"
)

const defaultDotEnvName = ".env"

type dotEnvResult struct {
	path    string
	loaded  int
	skipped int
}

// loadDotEnv applies the nearest .env file (or ENV_FILE) without overriding variables already set.
// A missing file is not an error.
func loadDotEnv(log logger.Logger) error {
	path, err := locateDotEnv()
	if errors.Is(err, os.ErrNotExist) {
		log.Debug("dotenv: no file found")
		return nil
	}
	if err != nil {
		return err
	}

	result, err := applyDotEnv(path)
	if err != nil {
		return err
	}

	log.Info("dotenv: loaded variables", "count", result.loaded, "path", result.path)
	if result.skipped > 0 {
		log.Info("dotenv: skipped variables already set in env", "count", result.skipped)
	}
	return nil
}

func locateDotEnv() (string, error) {
	if explicit := strings.TrimSpace(os.Getenv("ENV_FILE")); explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", err
		}
		return explicit, nil
	}

	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return searchUpward(dir, defaultDotEnvName)
}

func searchUpward(dir, filename string) (string, error) {
	for {
		candidate := filepath.Join(dir, filename)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

func applyDotEnv(path string) (dotEnvResult, error) {
	result := dotEnvResult{path: path}

	file, err := os.Open(path)
	if err != nil {
		return result, err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		key, value, ok := parseDotEnvLine(scanner.Text())
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			result.skipped++
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return result, err
		}
		result.loaded++
	}

	return result, scanner.Err()
}

func parseDotEnvLine(raw string) (string, string, bool) {
	line := strings.TrimSpace(raw)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

	key, value, found := strings.Cut(line, "=")
	key = strings.TrimSpace(key)
	if !found || key == "" {
		return "", "", false
	}

	value = strings.TrimSpace(value)
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		if value[0] == '"' {
			if unquoted, err := strconv.Unquote(value); err == nil {
				return key, unquoted, true
			}
		}
		return key, value[1 : len(value)-1], true
	}

	if idx := strings.Index(value, " #"); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	return key, value, true
}
