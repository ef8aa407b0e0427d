package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"connectme/api/routes"
	"connectme/config"
	"connectme/db"
	"connectme/services"

	"github.com/gin-gonic/gin"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	err := config.LoadConfig(configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	log.Println("Starting server...")

	err = db.ConnectDB()
	if err != nil {
		panic("Failed to connect to the database: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Кеш и очередь не обязательны, без них сервис деградирует, но живет
	if err := services.InitRedis(); err != nil {
		log.Println("ERROR: redis unavailable, unread counters will not be cached:", err)
	}
	services.Mailer = services.NewSMTPMailer()
	if err := services.InitRabbitMQ(); err != nil {
		log.Println("ERROR: rabbitmq unavailable, mail will be sent inline:", err)
	} else {
		if err := services.StartMailConsumer(ctx); err != nil {
			log.Println("ERROR: mail consumer failed to start:", err)
		}
	}

	// Истории старше суток вычищаются раз в час
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		postService := services.NewPostService()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				purged, err := postService.PurgeStories(context.Background())
				if err != nil {
					log.Println("ERROR: story purge failed:", err)
					continue
				}
				if purged > 0 {
					log.Printf("DEBUG: purged %d expired stories", purged)
				}
			}
		}
	}()

	router := gin.Default()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	routes.PublicApi(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.AppConfig.Backend.Port),
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(err)
		}
	}()

	// По сигналу останавливаем прием запросов и закрываем внешние
	// соединения
	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("ERROR: server shutdown failed:", err)
	}

	services.CloseRabbitMQ()
	if err := services.CloseRedis(); err != nil {
		log.Println("ERROR: redis close failed:", err)
	}
}
