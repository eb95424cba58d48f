package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/property-maintenance/internal/auth"
	"github.com/ukydev/property-maintenance/internal/broker"
	"github.com/ukydev/property-maintenance/internal/config"
	"github.com/ukydev/property-maintenance/internal/db"
	"github.com/ukydev/property-maintenance/internal/handlers"
	"github.com/ukydev/property-maintenance/internal/store"
)

func main() {
	cfg := config.Load()

	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	s := store.New(
		store.WithTriageDelay(cfg.TriageDelay),
		store.WithTriageTimeout(cfg.TriageTimeout),
		store.WithAdminContact(cfg.AdminName, cfg.AdminContact),
	)
	defer s.Close()

	authService := auth.NewService(cfg.JWTSecret, cfg.JWTExpiry)

	var users db.UserCollection = db.NewMemoryUserCollection()
	if cfg.MongoURI != "" {
		client, err := db.ConnectMongo(cfg.MongoURI)
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to MongoDB")
		}
		database := client.Database(cfg.MongoDB)
		users = &db.MongoUserCollection{Collection: database.Collection("users")}

		mirror := db.NewMirror(
			&db.MongoRequestCollection{Collection: database.Collection("requests")},
			&db.MongoNotificationCollection{Collection: database.Collection("notifications")},
		)
		mirror.Start(s.Events())
		defer mirror.Stop()

		log.WithField("database", cfg.MongoDB).Info("MongoDB mirror enabled")
	} else {
		log.Info("No MONGO_URI set, running without persistence")
	}

	if cfg.MQTTBroker != "" {
		bridge := broker.New(cfg.MQTTBroker, cfg.MQTTClientID, s)
		if err := bridge.Connect(); err != nil {
			log.WithError(err).Fatal("Failed to connect to MQTT broker")
		}
		bridge.Start()
		defer bridge.Stop()

		log.WithField("broker", cfg.MQTTBroker).Info("MQTT bridge enabled")
	}

	router := handlers.NewRouter(s, authService, users)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			log.WithError(err).Fatal("Server error")
		}
	case sig := <-shutdown:
		log.WithField("signal", sig.String()).Info("Shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.WithError(err).Error("Graceful shutdown failed")
			server.Close()
		}
	}
}
