package vouchers

import (
	"strconv"

	"voucher-extractor/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the read-only report endpoints.
type Handler struct {
	repo   Querier
	topN   int
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler. topN is the ranking size used when
// a request does not pass a limit.
func NewHandler(repo Querier, topN int, logger *zap.Logger) *Handler {
	return &Handler{repo: repo, topN: topN, logger: logger}
}

// RegisterRoutes registers the voucher routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/vouchers")
	group.Get("/", h.HandleVouchers)
	group.Get("/top-customers", h.HandleTopCustomers)
	group.Get("/unused-barcodes", h.HandleUnusedBarcodes)
	group.Get("/report", h.HandleReport)
	group.Get("/stats", h.HandleStats)
}

// HandleVouchers lists every voucher.
// @Summary List Vouchers
// @Description Returns every (customer, order) pair with its barcodes in match order.
// @Tags vouchers
// @Produce json
// @Success 200 {object} map[string]interface{} "Vouchers"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /vouchers [get]
func (h *Handler) HandleVouchers(c *fiber.Ctx) error {
	vouchers, err := h.repo.Vouchers(c.Context())
	if err != nil {
		return h.fail(c, "Failed to list vouchers", err)
	}
	return c.JSON(fiber.Map{
		"count":    len(vouchers),
		"vouchers": vouchers,
	})
}

// HandleTopCustomers returns the customer ranking. The limit query parameter
// overrides the configured size.
// @Summary Top Customers
// @Description Ranks customers by order count. Equal counts are ordered by ascending customer id.
// @Tags vouchers
// @Produce json
// @Param limit query int false "Number of customers to return"
// @Success 200 {object} map[string]interface{} "Ranking"
// @Failure 400 {object} map[string]string "Invalid limit"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /vouchers/top-customers [get]
func (h *Handler) HandleTopCustomers(c *fiber.Ctx) error {
	limit := h.topN
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "limit must be a non-negative integer",
			})
		}
		limit = n
	}

	top, err := h.repo.TopCustomers(c.Context(), limit)
	if err != nil {
		return h.fail(c, "Failed to rank customers", err)
	}
	return c.JSON(fiber.Map{
		"limit":     limit,
		"customers": top,
	})
}

// HandleUnusedBarcodes lists the barcodes that were never assigned.
// @Summary List Unused Barcodes
// @Description Returns the barcodes submitted without an order, sorted.
// @Tags vouchers
// @Produce json
// @Success 200 {object} map[string]interface{} "Unused barcodes"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /vouchers/unused-barcodes [get]
func (h *Handler) HandleUnusedBarcodes(c *fiber.Ctx) error {
	unused, err := h.repo.UnusedBarcodes(c.Context())
	if err != nil {
		return h.fail(c, "Failed to list unused barcodes", err)
	}
	return c.JSON(fiber.Map{
		"count":    len(unused),
		"barcodes": unused,
	})
}

// HandleReport returns the consolidated report.
// @Summary Voucher Report
// @Description Returns the top customers, the unused barcodes and the vouchers in one document.
// @Tags vouchers
// @Produce json
// @Success 200 {object} models.Output "Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /vouchers/report [get]
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)
	l.Info("Building voucher report")

	out, err := NewExtractor(h.repo, h.topN, h.logger).Extract(c.Context())
	if err != nil {
		return h.fail(c, "Failed to build report", err)
	}
	return c.JSON(out)
}

// HandleStats returns the load summary.
// @Summary Load Statistics
// @Description Counts of orders, vouchers, used, unused, dropped and duplicate barcodes.
// @Tags vouchers
// @Produce json
// @Success 200 {object} joinstore.Stats "Stats"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /vouchers/stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	stats, err := h.repo.Stats(c.Context())
	if err != nil {
		return h.fail(c, "Failed to load stats", err)
	}
	return c.JSON(stats)
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	logger.WithRayID(h.logger, c).Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
