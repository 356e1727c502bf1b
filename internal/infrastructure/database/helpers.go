package database

import (
	"time"

	"github.com/rs/zerolog/log"
)

// Close shuts the pool down. Safe to call more than once.
func (db *PostgresDB) Close() error {
	if db.Pool == nil {
		return nil
	}

	log.Info().Msg("[DATABASE] Closing connection pool")
	db.Pool.Close()
	db.Pool = nil

	return nil
}

// PoolStats is the subset of pgxpool statistics exposed by the health endpoint.
type PoolStats struct {
	TotalConns         int32         `json:"total_conns"`
	IdleConns          int32         `json:"idle_conns"`
	AcquiredConns      int32         `json:"acquired_conns"`
	MaxConns           int32         `json:"max_conns"`
	AvgAcquireDuration time.Duration `json:"avg_acquire_duration_ns"`
}

// Stats returns a snapshot of the pool, or nil before Connect.
func (db *PostgresDB) Stats() *PoolStats {
	if db.Pool == nil {
		return nil
	}

	raw := db.Pool.Stat()
	return &PoolStats{
		TotalConns:         raw.TotalConns(),
		IdleConns:          raw.IdleConns(),
		AcquiredConns:      raw.AcquiredConns(),
		MaxConns:           raw.MaxConns(),
		AvgAcquireDuration: calculateAvgDuration(raw.AcquireDuration(), raw.AcquireCount()),
	}
}

func calculateAvgDuration(totalDuration time.Duration, count int64) time.Duration {
	if count == 0 {
		return 0
	}
	return totalDuration / time.Duration(count)
}
