package database

import (
	"time"

	"gorm.io/gorm"
)

// MetricsRecorder is an interface for recording database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

// RegisterMetricsCallbacks registers GORM callbacks that time every
// query/create/update/delete and report it to the recorder
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) {
	instrument := func(operation string) (func(*gorm.DB), func(*gorm.DB)) {
		beforeFn := func(db *gorm.DB) {
			db.InstanceSet("query_start_time", time.Now())
		}
		afterFn := func(db *gorm.DB) {
			if startTime, ok := db.InstanceGet("query_start_time"); ok {
				duration := time.Since(startTime.(time.Time))
				table := db.Statement.Table
				if table == "" {
					table = "unknown"
				}
				recorder.RecordDBQuery(operation, table, duration, db.Error)
			}
		}
		return beforeFn, afterFn
	}

	qBefore, qAfter := instrument("select")
	db.Callback().Query().Before("gorm:query").Register("metrics:query_before", qBefore)
	db.Callback().Query().After("gorm:query").Register("metrics:query_after", qAfter)

	cBefore, cAfter := instrument("insert")
	db.Callback().Create().Before("gorm:create").Register("metrics:create_before", cBefore)
	db.Callback().Create().After("gorm:create").Register("metrics:create_after", cAfter)

	uBefore, uAfter := instrument("update")
	db.Callback().Update().Before("gorm:update").Register("metrics:update_before", uBefore)
	db.Callback().Update().After("gorm:update").Register("metrics:update_after", uAfter)

	dBefore, dAfter := instrument("delete")
	db.Callback().Delete().Before("gorm:delete").Register("metrics:delete_before", dBefore)
	db.Callback().Delete().After("gorm:delete").Register("metrics:delete_after", dAfter)
}

// StartDBStatsCollector starts periodic connection pool stats collection.
// Close the returned channel to stop it.
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				recorder.UpdateDBStats(sqlDB.Stats())
			case <-done:
				return
			}
		}
	}()

	return done
}
