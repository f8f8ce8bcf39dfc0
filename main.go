package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/mtcweb/gallerybackend/config"
	"github.com/mtcweb/gallerybackend/handlers"
	"github.com/mtcweb/gallerybackend/kvstore"
	"github.com/mtcweb/gallerybackend/telegram"
	"github.com/mtcweb/gallerybackend/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.WithError(err).Info("no .env file loaded")
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	kvClient := kvstore.NewClient(cfg.KVAPIBase, cfg.KVAccountID, cfg.KVNamespaceID, cfg.KVAPIToken)
	albumStore := kvstore.NewAlbumStore(kvClient, config.CounterKey)

	renderer, err := web.NewRenderer(cfg.SiteTitle, cfg.SiteLogoURL, cfg.Categories)
	if err != nil {
		log.WithError(err).Fatal("failed to parse templates")
	}

	galleryHandler := &handlers.GalleryHandler{
		Store:      albumStore,
		Categories: cfg.Categories,
		PageSize:   cfg.PageSize,
		Renderer:   renderer,
	}
	fileProxy := handlers.NewFileProxyHandler(telegram.NewClient(cfg.BotAPIBase, cfg.BotToken))

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Range"},
		MaxAge:         300,
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(handlers.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(corsHandler.Handler)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/list", http.StatusFound)
	})
	r.Get("/list", galleryHandler.ListAlbums)
	r.Get("/category/{slug}", galleryHandler.ListAlbums)
	r.Get("/file/*", fileProxy.ProxyFile)
	r.Get("/{code:[a-zA-Z][0-9]+}", galleryHandler.GetAlbum)
	r.NotFound(galleryHandler.NotFound)

	log.WithFields(log.Fields{
		"addr":       cfg.ListenAddr,
		"categories": len(cfg.Categories),
		"page_size":  cfg.PageSize,
	}).Info("server starting")

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		// no WriteTimeout: the file proxy streams long video bodies
	}
	log.Fatal(server.ListenAndServe())
}
