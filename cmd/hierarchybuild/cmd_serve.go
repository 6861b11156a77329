package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/lintang-b-s/hierarchybuilder/pkg/tilehierarchy"
)

func serveCmd() *cobra.Command {
	var listenAddr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a debug HTTP server exposing /levels and /metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(listenAddr)
		},
	}
	cmd.Flags().StringVar(&listenAddr, "listenaddr", ":8099", "server listen address")
	return cmd
}

func runServe(listenAddr string) error {
	reg := prometheus.NewRegistry()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET"},
	}))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/levels", handleLevels)

	log.Printf("hierarchybuild: debug server listening on %s", listenAddr)
	return http.ListenAndServe(listenAddr, r)
}

type levelResp struct {
	Level        int    `json:"level"`
	Name         string `json:"name"`
	Cutoff       string `json:"classification_cutoff"`
	H3Resolution int    `json:"h3_resolution"`
}

func handleLevels(w http.ResponseWriter, r *http.Request) {
	h := tilehierarchy.DefaultHierarchy()
	resp := make([]levelResp, 0, len(h.Levels))
	for _, l := range h.Levels {
		resp = append(resp, levelResp{Level: l.Level, Name: l.Name, Cutoff: l.ClassificationCutoff.String(), H3Resolution: l.TilingResolution})
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}
