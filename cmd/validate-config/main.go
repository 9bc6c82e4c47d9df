package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/vladimiradmaev/glucose-logger/internal/config"
)

func main() {
	fmt.Println("Checking configuration...")

	if err := godotenv.Load(); err != nil {
		fmt.Printf("No .env file found: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Configuration is invalid:\n%v\n", err)
		os.Exit(1)
	}

	fmt.Println("Configuration is valid!")
	fmt.Printf("  - HTTP Addr: %s\n", cfg.HTTP.Addr)
	if cfg.DB.Configured() {
		fmt.Printf("  - DB Host: %s\n", cfg.DB.Host)
		fmt.Printf("  - DB Port: %s\n", cfg.DB.Port)
		fmt.Printf("  - DB User: %s\n", cfg.DB.User)
		fmt.Printf("  - DB Name: %s\n", cfg.DB.DBName)
	} else {
		fmt.Println("  - DB: not configured (local-only mode)")
	}
	if cfg.Redis.Addr != "" {
		fmt.Printf("  - Redis Addr: %s\n", cfg.Redis.Addr)
	} else {
		fmt.Println("  - Redis: not configured (shell cache disabled)")
	}
	fmt.Printf("  - Cache Version: %s\n", cfg.Cache.Version)
	fmt.Printf("  - Shell Upstream: %s\n", valueOrUnset(cfg.Cache.Upstream))
	fmt.Printf("  - Shell Assets: %s\n", strings.Join(cfg.Cache.Assets, ", "))
	fmt.Printf("  - Log Level: %v\n", cfg.Logger.Level)
	fmt.Printf("  - Log Output: %s\n", cfg.Logger.OutputPath)
	fmt.Printf("  - Log Format: %s\n", cfg.Logger.Format)
}

func valueOrUnset(v string) string {
	if v == "" {
		return "<unset>"
	}
	return v
}
