package api

import (
	"context"
	"net/http"
	"sync"

	"food-delivery/config"
	"food-delivery/routes"
	"food-delivery/utils"

	"github.com/gin-gonic/gin"
)

var (
	app     *routes.App
	initErr error
	once    sync.Once
)

func initApp() {
	once.Do(func() {
		gin.SetMode(gin.ReleaseMode)

		cfg := config.LoadConfig()
		logger := utils.NewLogger(cfg.AppEnv, cfg.LogLevel)

		app, initErr = routes.NewApp(context.Background(), cfg, logger)
		if initErr != nil {
			logger.Error("failed to initialise application", "error", initErr)
		}
	})
}

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	initApp()
	if initErr != nil {
		http.Error(w, `{"success":false,"message":"Service unavailable"}`, http.StatusServiceUnavailable)
		return
	}
	app.Router.ServeHTTP(w, r)
}
