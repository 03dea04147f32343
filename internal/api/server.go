package api

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wordflash/wordflash/internal/services"
)

// Pinger is anything the readiness check can ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	UserService      services.UserService
	FlashcardService services.FlashcardService
	PracticeService  services.PracticeService
	StatsService     services.StatsService
	ImportService    services.ImportService

	DB          Pinger
	Cache       Pinger
	Registry    *prometheus.Registry
	CORSOrigins []string
}
