// Package router assembles the HTTP surface of the portal:
//
//	GET    /getStudent       list students
//	GET    /getAdmin         list admins
//	POST   /uploadStudent    create a student (multipart, optional file)
//	POST   /uploadAdmin      create an admin  (multipart, optional file)
//	PUT    /students/{id}    partial update
//	DELETE /students/{id}    delete
//	PUT    /admins/{id}      partial update
//	DELETE /admins/{id}      delete
//	GET    /uploads/...      uploaded files
//	GET    /...              static pages, when a static dir is configured
//
// Browser access is limited to the configured origins through CORS.
package router

import (
	"net/http"
	"os"

	"github.com/aanand-mishra/portal-api/internal/config"
	"github.com/aanand-mishra/portal-api/internal/http/handlers/admin"
	"github.com/aanand-mishra/portal-api/internal/http/handlers/student"
	"github.com/aanand-mishra/portal-api/internal/intake"
	"github.com/aanand-mishra/portal-api/internal/storage"
	"github.com/rs/cors"
)

// New registers every route on a fresh mux and wraps it in CORS.
func New(cfg *config.Config, store storage.Storage, files *intake.Intake) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /getStudent", student.GetList(store))
	router.HandleFunc("POST /uploadStudent", student.New(store, files))
	router.HandleFunc("PUT /students/{id}", student.Update(store))
	router.HandleFunc("DELETE /students/{id}", student.Delete(store))

	router.HandleFunc("GET /getAdmin", admin.GetList(store))
	router.HandleFunc("POST /uploadAdmin", admin.New(store, files))
	router.HandleFunc("PUT /admins/{id}", admin.Update(store))
	router.HandleFunc("DELETE /admins/{id}", admin.Delete(store))

	router.Handle("GET "+cfg.Uploads.URLPrefix+"/", files.FileServer())

	if info, err := os.Stat(cfg.StaticDir); cfg.StaticDir != "" && err == nil && info.IsDir() {
		router.Handle("GET /", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
	}).Handler(router)
}
