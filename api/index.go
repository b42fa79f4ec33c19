package handler

import (
	"net/http"
	"stayledger/config"
	"stayledger/di"
	"stayledger/shared/logger"
	"sync"
)

var (
	once   sync.Once
	server http.Handler
)

// Handler is the serverless entrypoint. The dependency graph is built on the first request and
// reused while the instance stays warm.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		logger.InitLogger()
		logger.SetLogLevel(config.Get())

		server = di.InitializeService()
	})

	r.RequestURI = r.URL.String()

	server.ServeHTTP(w, r)
}
