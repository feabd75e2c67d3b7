package products

import "github.com/smarttech/storefront/pkg/db/models"

// DefaultCatalog is the single product the storefront sells.
func DefaultCatalog() []models.Product {
	return []models.Product{
		{
			Name: "RK3588 Interactive Smart Board",
			Description: "Interactive smart board powered by the RK3588 processor with a 4K touch " +
				"display, built-in AI assistant and wireless screen sharing for classrooms and meeting rooms.",
			Price: 1300,
			Specifications: map[string]any{
				"processor":    "Rockchip RK3588 octa-core",
				"display":      "86 inch 4K UHD",
				"touch_points": "20-point infrared",
				"memory":       "8GB RAM",
				"storage":      "128GB",
				"os":           "Android 12",
				"connectivity": "Wi-Fi 6, Bluetooth 5.2, HDMI in/out, USB-C",
			},
			Images:        []string{},
			IsActive:      true,
			StockQuantity: 50,
		},
	}
}
