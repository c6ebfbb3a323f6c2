package handlers

import (
	"net/http"

	"github.com/diewo77/slatko-ops/internal/db"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Healthz answers 200 "ok" when the database responds, 503 otherwise.
func Healthz(conn *gorm.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := db.Ping(conn.WithContext(r.Context())); err != nil {
			logrus.WithError(err).Warn("health check failed")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("unavailable"))
			return
		}
		_, _ = w.Write([]byte("ok"))
	}
}
