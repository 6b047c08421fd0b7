package handler

import (
	"gazi-tiles/internal/middleware"
	"gazi-tiles/internal/model"
	"gazi-tiles/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Company  *CompanyHandler
	Product  *ProductHandler
	Store    *StoreHandler
	Purchase *PurchaseHandler
	Sale     *SaleHandler
	Report   *ReportHandler
	User     *UserHandler
	Guide    *GuideHandler
}

// Register mounts the routes on app. Reads are public; writes go through
// auth, and user management additionally needs the admin role.
func (h Handlers) Register(app *fiber.App, auth fiber.Handler, hub *ws.Hub) {
	admin := middleware.RequireRole(model.RoleAdmin)

	app.Get("/healthz", Health)

	api := app.Group("/api")

	company := api.Group("/company")
	company.Get("/all", h.Company.GetCompanies)
	company.Post("/create", auth, h.Company.CreateCompany)

	product := api.Group("/product")
	product.Get("/all", h.Product.GetProducts)
	product.Post("/create", auth, h.Product.CreateProduct)
	product.Put("/update/:id", auth, h.Product.UpdateProduct)

	store := api.Group("/store")
	store.Get("/all", h.Store.GetStore)
	store.Get("/:code", h.Store.GetStoreItem)

	purchase := api.Group("/purchase")
	purchase.Get("/history", h.Purchase.GetHistory)
	purchase.Get("/group/custom-date", h.Purchase.GroupByDate)
	purchase.Post("/create", auth, h.Purchase.CreatePurchase)
	purchase.Patch("/update/:id", auth, h.Purchase.UpdatePurchase)
	purchase.Delete("/:id", auth, h.Purchase.DeletePurchase)

	sale := api.Group("/sale")
	sale.Get("/", h.Sale.GetSales)
	sale.Get("/group/custom-date", h.Sale.GroupByDate)
	sale.Get("/:id", h.Sale.GetSale)
	sale.Post("/create", auth, h.Sale.CreateSale)
	sale.Put("/update/:id", auth, h.Sale.UpdateSale)
	sale.Delete("/:id", auth, h.Sale.DeleteSale)

	report := api.Group("/report")
	report.Get("/godown", h.Report.GetGodown)
	report.Get("/godown.xlsx", h.Report.DownloadGodown)

	users := api.Group("/users")
	users.Get("/email/:email", h.User.GetUserByEmail)
	users.Get("/", auth, admin, h.User.GetUsers)
	users.Post("/", auth, admin, h.User.CreateUser)

	api.Get("/guide/video-link", h.Guide.GetVideoLink)

	// WebSocket Route
	if hub != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return c.SendStatus(fiber.StatusUpgradeRequired)
		})
		app.Get("/ws", websocket.New(hub.Serve))
	}
}
