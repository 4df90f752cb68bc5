package api

import (
	"database/sql"

	"github.com/mkrogh/academy/internal/jobs"
	"github.com/mkrogh/academy/internal/services"
)

// Server holds the services the HTTP surface is built from. All endpoints
// speak JSON.
type Server struct {
	DB            *sql.DB
	Games         services.GameService
	Stats         services.StatsService
	Rankings      services.RankingService
	Distributions services.DistributionService
	Users         services.UserService
	Queue         jobs.JobQueue
}
