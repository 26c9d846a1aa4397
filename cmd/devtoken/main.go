// devtoken выпускает access токен для локальной проверки API.
//
//	go run ./cmd/devtoken -role buyer
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/consulting-marketplace/internal/config"
	"github.com/ignatzorin/consulting-marketplace/internal/service"
)

func main() {
	role := flag.String("role", "buyer", "роль в токене: buyer или consultant")
	user := flag.String("user", "", "UUID пользователя, по умолчанию случайный")
	ttl := flag.Duration("ttl", 24*time.Hour, "время жизни токена")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("devtoken: ошибка загрузки конфигурации: %v", err)
	}
	if cfg.Env == "production" {
		log.Fatal("devtoken: недоступен в production")
	}

	userID := uuid.New()
	if *user != "" {
		if userID, err = uuid.Parse(*user); err != nil {
			log.Fatalf("devtoken: некорректный UUID: %v", err)
		}
	}

	token, err := service.NewTokenManager(cfg.JWTSecret, *ttl).GenerateAccess(userID, *role)
	if err != nil {
		log.Fatalf("devtoken: %v", err)
	}

	fmt.Printf("user_id: %s\nrole:    %s\ntoken:   %s\n", userID, *role, token)
}
