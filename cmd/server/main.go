package main

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/reservahub/event-booking/internal/booking"
    "github.com/reservahub/event-booking/internal/config"
    "github.com/reservahub/event-booking/internal/database"
    "github.com/reservahub/event-booking/internal/handler"
    "github.com/reservahub/event-booking/internal/middleware"
    "github.com/reservahub/event-booking/internal/queue"
    "github.com/reservahub/event-booking/internal/repository"
    "github.com/reservahub/event-booking/internal/router"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    rdb := config.NewRedisClient()
    if rdb == nil {
        log.Printf("redis unavailable; rate limiting and response cache disabled")
    }

    // Repositories and the admission engine.
    store := repository.NewStore(db)
    engine := booking.NewEngine(store)
    provisioner := booking.NewProvisioner(store)
    ledger := booking.NewLedger(store)

    userRepo := repository.NewUserRepo(db)
    tokenRepo := repository.NewTokenRepo(db)
    venueRepo := repository.NewVenueRepo(db)
    eventRepo := repository.NewEventRepo(db)
    reservationRepo := repository.NewReservationRepo(db)

    // Handlers.
    authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
    venueH := handler.NewVenueHandler(venueRepo)
    eventH := handler.NewEventHandler(eventRepo, provisioner)
    reservationH := handler.NewReservationHandler(reservationRepo)
    bookingH := handler.NewBookingHandler(engine, store, ledger)
    voucherH := handler.NewVoucherHandler(engine)

    e := echo.New()
    e.HideBanner = true
    e.Validator = handler.NewRequestValidator()

    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

    router.RegisterRoutes(e)
    router.RegisterAuth(e, authH, cfg.JWTSecret)
    router.RegisterPublic(e, bookingH, voucherH)
    router.RegisterAdmin(e, venueH, eventH, reservationH, cfg.JWTSecret)
    router.RegisterBookings(e, bookingH, cfg.JWTSecret)

    // Background consumer for booking.created events.
    go func() {
        if err := queue.StartBookingConsumer(); err != nil {
            log.Printf("booking consumer stopped: %v", err)
        }
    }()

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
