package vouchers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
	enabled bool
}

// NewFeature creates the vouchers feature on top of repo.
func NewFeature(repo Querier, topN int, logger *zap.Logger) *Feature {
	return &Feature{handler: NewHandler(repo, topN, logger), enabled: repo != nil}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "vouchers"
}

// IsEnabled reports whether a repository was supplied.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
