package cmdutil

import (
	"net/http"
	"strings"

	"gorm.io/gorm"

	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/api"
	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/health"
	"github.com/GersonESantos/EsqJSCRUDProjeto/internal/user"
)

type HandlerConfig struct {
	Env            Environment
	BasePath       string
	Schema         string
	AllowedOrigins []string
}

// Handler builds the HTTP handler shared by every binary serving the API.
func Handler(db *gorm.DB, cfg HandlerConfig) (http.Handler, error) {
	schema, err := user.SchemaByName(cfg.Schema)
	if err != nil {
		return nil, err
	}
	basePath := NormalizeBasePath(cfg.BasePath)

	storage := user.NewStorage(db, schema)
	userService := user.NewService(storage, schema)

	mux := http.NewServeMux()
	user.NewServer(basePath, userService, cfg.AllowedOrigins).RegisterRoutes(mux)
	health.NewServer(basePath, storage).RegisterRoutes(mux)

	var handler http.Handler = mux
	handler = api.SecureMiddleware(cfg.Env.IsLocal())(handler)
	handler = api.LoggingMiddleware(handler)
	handler = api.RequestIDMiddleware(handler)
	return handler, nil
}

// NormalizeBasePath returns path with a single leading slash and no trailing
// one. The root path becomes empty.
func NormalizeBasePath(path string) string {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if path == "" {
		return ""
	}
	return "/" + path
}
