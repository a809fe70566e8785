package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	intconfig "ambulance/internal/config"
	intdb "ambulance/internal/db"
	router "ambulance/internal/http"
	"ambulance/internal/realtime"
	"ambulance/internal/repositories"
	"ambulance/internal/services"
	"ambulance/internal/session"

	"github.com/gin-gonic/gin"
)

func main() {
	env := intconfig.LoadEnv()
	if env.GinMode != "" {
		gin.SetMode(env.GinMode)
	}

	db, err := intconfig.ConnectDB(env)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer intconfig.CloseDB(db)

	if err := intdb.EnsureSchema(context.Background(), db); err != nil {
		log.Printf("warning: schema bootstrap failed: %v", err)
	}

	tripsRepo := repositories.TripsRepository{DB: db}
	notifications := services.NewNotificationCenter()

	gateway := &services.TripGateway{
		Store:     tripsRepo,
		Hospitals: repositories.HospitalRepository{DB: db},
		Session:   session.ContextProvider{},
		Notifier:  notifications,
		Feed:      realtime.NewFeed[repositories.TripRow](),
	}
	validator := services.TripValidator{StrictContact: env.StrictContact}
	forms := services.NewFormSessions(func() *services.BookingForm {
		return services.NewBookingForm(gateway, validator, notifications)
	})
	monitor := services.NewConnectionMonitor(tripsRepo, env.HealthInterval, notifications)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go monitor.Run(bgCtx)

	r := router.NewRouter(env, router.Deps{
		Forms:         forms,
		Gateway:       gateway,
		Notifications: notifications,
		Monitor:       monitor,
	})

	srv := &http.Server{
		Addr:              env.AppAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("Server listening on http://localhost%s", env.AppAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server shutdown failed: %v", err)
	}

	log.Println("Server stopped.")
}
