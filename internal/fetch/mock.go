package fetch

import (
	"context"
	"strings"
)

// MockClient serves the canned datasets the demo dashboard runs on.
// No network required; endpoints mirror the real data service.
type MockClient struct{}

// NewMockClient creates a MockClient.
func NewMockClient() *MockClient { return &MockClient{} }

func (c *MockClient) Fetch(_ context.Context, endpoint string, params, hints map[string]any) (any, error) {
	switch {
	case strings.HasPrefix(endpoint, "/api/products"):
		return mockProducts(mergedLimit(params, hints)), nil
	case strings.HasPrefix(endpoint, "/api/sales_summary"):
		return mockSalesSummary(), nil
	case strings.HasPrefix(endpoint, "/api/featured_items"):
		return mockFeaturedItems(), nil
	case strings.HasPrefix(endpoint, "/api/pnl_data"):
		return mockPnlData(), nil
	case strings.HasPrefix(endpoint, "/api/system_status"):
		return mockSystemStatus(), nil
	case strings.HasPrefix(endpoint, "/api/error_rates"):
		return mockErrorRates(), nil
	default:
		return nil, &Error{Status: 404, Reason: "no mock for endpoint " + endpoint}
	}
}

func mergedLimit(params, hints map[string]any) int {
	for _, m := range []map[string]any{hints, params} {
		if v, ok := m["limit"]; ok {
			switch n := v.(type) {
			case float64:
				return int(n)
			case int:
				return n
			}
		}
	}
	return 0
}

func mockProducts(limit int) []any {
	products := []any{
		map[string]any{"id": "p1", "name": "Wireless Mouse", "price": 25.99, "stock": float64(150)},
		map[string]any{"id": "p2", "name": "Mechanical Keyboard", "price": 79.50, "stock": float64(75)},
		map[string]any{"id": "p3", "name": "USB-C Hub", "price": 33.00, "stock": float64(200)},
		map[string]any{"id": "p4", "name": "4K Monitor", "price": 299.99, "stock": float64(30)},
		map[string]any{"id": "p5", "name": "Webcam HD", "price": 45.00, "stock": float64(90)},
		map[string]any{"id": "p6", "name": "Laptop Stand", "price": 19.99, "stock": float64(120)},
		map[string]any{"id": "p7", "name": "Noise Cancelling Headphones", "price": 199.00, "stock": float64(50)},
		map[string]any{"id": "p8", "name": "Gaming Chair", "price": 250.00, "stock": float64(20)},
		map[string]any{"id": "p9", "name": "Smart Speaker", "price": 89.99, "stock": float64(65)},
		map[string]any{"id": "p10", "name": "External SSD 1TB", "price": 120.00, "stock": float64(40)},
	}
	if limit > 0 && limit < len(products) {
		return products[:limit]
	}
	return products
}

func mockSalesSummary() map[string]any {
	return map[string]any{
		"labels": []any{"January", "February", "March", "April", "May", "June"},
		"datasets": []any{
			map[string]any{
				"label": "Monthly Sales (Mocked)",
				"data":  []any{float64(65), float64(59), float64(80), float64(81), float64(56), float64(55)},
			},
		},
	}
}

func mockFeaturedItems() []any {
	return []any{
		map[string]any{"id": "f1", "name": "Featured Product A", "shortDesc": "An amazing featured product.", "imageUrl": "https://via.placeholder.com/300x200/007BFF/FFFFFF?Text=Product+A", "price": 99.99},
		map[string]any{"id": "f2", "name": "Featured Item B", "shortDesc": "Another excellent choice for you.", "imageUrl": "https://via.placeholder.com/300x200/28A745/FFFFFF?Text=Product+B", "price": 149.00},
		map[string]any{"id": "f3", "name": "Top Pick C", "shortDesc": "Highly rated by our customers.", "imageUrl": "https://via.placeholder.com/300x200/FFC107/000000?Text=Product+C", "price": 75.50},
		map[string]any{"id": "f4", "name": "Special Offer D", "shortDesc": "Limited time offer, grab it now!", "imageUrl": "https://via.placeholder.com/300x200/DC3545/FFFFFF?Text=Product+D", "price": 49.99},
	}
}

func mockPnlData() []any {
	return []any{
		map[string]any{"id": "entity1", "name": "Global Equities", "level": float64(0), "budget": float64(1000000), "actual": float64(950000), "variance": float64(-50000)},
		map[string]any{"id": "desk1-1", "name": "Cash Trading Desk", "level": float64(1), "parentId": "entity1", "budget": float64(400000), "actual": float64(380000), "variance": float64(-20000)},
		map[string]any{"id": "cc1-1-1", "name": "US Equities", "level": float64(2), "parentId": "desk1-1", "budget": float64(200000), "actual": float64(190000), "variance": float64(-10000)},
		map[string]any{"id": "cc1-1-2", "name": "EMEA Equities", "level": float64(2), "parentId": "desk1-1", "budget": float64(200000), "actual": float64(190000), "variance": float64(-10000)},
		map[string]any{"id": "desk1-2", "name": "Derivatives Desk", "level": float64(1), "parentId": "entity1", "budget": float64(600000), "actual": float64(570000), "variance": float64(-30000)},
		map[string]any{"id": "cc1-2-1", "name": "Options Trading", "level": float64(2), "parentId": "desk1-2", "budget": float64(300000), "actual": float64(280000), "variance": float64(-20000)},
		map[string]any{"id": "cc1-2-2", "name": "Futures Trading", "level": float64(2), "parentId": "desk1-2", "budget": float64(300000), "actual": float64(290000), "variance": float64(-10000)},
		map[string]any{"id": "entity2", "name": "Fixed Income", "level": float64(0), "budget": float64(800000), "actual": float64(820000), "variance": float64(20000)},
		map[string]any{"id": "desk2-1", "name": "Rates Trading Desk", "level": float64(1), "parentId": "entity2", "budget": float64(500000), "actual": float64(510000), "variance": float64(10000)},
		map[string]any{"id": "cc2-1-1", "name": "Government Bonds", "level": float64(2), "parentId": "desk2-1", "budget": float64(250000), "actual": float64(255000), "variance": float64(5000)},
		map[string]any{"id": "cc2-1-2", "name": "Corporate Bonds", "level": float64(2), "parentId": "desk2-1", "budget": float64(250000), "actual": float64(255000), "variance": float64(5000)},
		map[string]any{"id": "desk2-2", "name": "Credit Trading Desk", "level": float64(1), "parentId": "entity2", "budget": float64(300000), "actual": float64(310000), "variance": float64(10000)},
	}
}

func mockSystemStatus() []any {
	return []any{
		map[string]any{"systemName": "Auth Service", "status": "Operational"},
		map[string]any{"systemName": "Payment Gateway", "status": "Degraded Performance"},
		map[string]any{"systemName": "Order Processor", "status": "Operational"},
		map[string]any{"systemName": "Notification Service", "status": "Outage"},
	}
}

func mockErrorRates() map[string]any {
	return map[string]any{
		"labels": []any{"10:00", "11:00", "12:00", "13:00", "14:00", "15:00"},
		"datasets": []any{
			map[string]any{
				"label": "Error Rate (%)",
				"data":  []any{1.2, 0.8, 1.5, 1.1, 2.0, 1.7},
			},
		},
	}
}
