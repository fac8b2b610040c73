package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type SheetsConfig struct {
	CredentialsFile string
	SpreadsheetID   string
	Worksheet       string
}

type TelegramConfig struct {
	Token          string
	AllowedUserIDs []int64
}

type ReceiptConfig struct {
	FontDir       string
	CollectorName string
}

type ArchiveConfig struct {
	Dir        string
	TTLMinutes int
}

type AppConfig struct {
	HTTPPort string
	LogLevel string
	Telegram TelegramConfig
	Sheets   SheetsConfig
	Receipt  ReceiptConfig
	Archive  ArchiveConfig
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int value %q: %v", s, err)
	}
	return i
}

// parseUserIDs parses a comma-separated allowlist. Bad entries are skipped;
// an empty result means nobody is authorized.
func parseUserIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Printf("ignoring invalid user id %q in ALLOWED_USER_IDS", part)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func Load() AppConfig {
	return AppConfig{
		HTTPPort: getenv("APP_PORT", "8080"),
		LogLevel: getenv("LOG_LEVEL", "info"),
		Telegram: TelegramConfig{
			Token:          os.Getenv("TELEGRAM_TOKEN"),
			AllowedUserIDs: parseUserIDs(os.Getenv("ALLOWED_USER_IDS")),
		},
		Sheets: SheetsConfig{
			CredentialsFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_PATH"),
			SpreadsheetID:   os.Getenv("SHEET_ID"),
			Worksheet:       getenv("SHEET_WORKSHEET", "Sheet1"),
		},
		Receipt: ReceiptConfig{
			FontDir:       getenv("FONT_PATH", "."),
			CollectorName: getenv("COLLECTOR_NAME", "John"),
		},
		Archive: ArchiveConfig{
			Dir:        getenv("ARCHIVE_DIR", "./archive"),
			TTLMinutes: mustAtoi(getenv("ARCHIVE_TTL_MINUTES", "43200")),
		},
	}
}
