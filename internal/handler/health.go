package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/DanielCanisOrtega/tienda-backend/internal/worker"
)

type dependencyHealth struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
}

func checkDependency(ping func() error) dependencyHealth {
	start := time.Now()
	status := "up"
	if err := ping(); err != nil {
		status = "down"
	}
	return dependencyHealth{Status: status, LatencyMS: time.Since(start).Milliseconds()}
}

// Health reports connectivity to Postgres and Redis plus the dead-letter
// queue depths, so operators can spot stuck receipt or alert jobs from the
// same probe the load balancer uses. Credentials never appear in the output.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		pg := checkDependency(func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
		rd := checkDependency(func() error {
			return rdb.Ping(ctx).Err()
		})

		dlq := gin.H{}
		if rd.Status == "up" {
			for _, q := range []string{worker.QueueEmail, worker.QueueLowStock} {
				if n, err := worker.DLQLength(ctx, rdb, q); err == nil {
					dlq[q] = n
				}
			}
		}

		status := http.StatusOK
		if pg.Status != "up" || rd.Status != "up" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    pg,
			"redis": rd,
			"dlq":   dlq,
		})
	}
}
