package api

import (
	"net/http"

	"github.com/vigiapix/vigia/internal/config"
	"github.com/vigiapix/vigia/internal/uploads"
	"github.com/vigiapix/vigia/pkg/openapi"
	"github.com/vigiapix/vigia/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) error {
	uploadsHandler := uploads.NewHandler(
		runtime.Storage,
		runtime.Logger,
		cfg.API.MaxUploadSizeBytes(),
	)

	routes.Register(
		mux,
		domain.Verifications.Handler().Routes(),
		uploadsHandler.Routes(),
	)

	spec := buildSpec(cfg)
	specBytes, err := openapi.MarshalJSON(spec)
	if err != nil {
		return err
	}
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(specBytes))

	return nil
}
