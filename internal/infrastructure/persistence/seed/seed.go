// Package seed provides the catalog and order history the store starts with.
package seed

import (
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hellcat/store/internal/domain/catalog"
	"github.com/hellcat/store/internal/domain/order"
)

//go:embed catalog.yaml
var catalogYAML []byte

//go:embed orders.yaml
var ordersYAML []byte

type productRecord struct {
	ID            int64    `yaml:"id"`
	Title         string   `yaml:"title"`
	Price         int64    `yaml:"price"`
	OriginalPrice int64    `yaml:"original_price"`
	Discount      int      `yaml:"discount"`
	Rank          string   `yaml:"rank"`
	LoginType     string   `yaml:"login_type"`
	Status        string   `yaml:"status"`
	Mythics       []string `yaml:"mythics"`
	Vehicles      []string `yaml:"vehicles"`
	Pets          []string `yaml:"pets"`
	Image         string   `yaml:"image"`
	Description   string   `yaml:"description"`
	Stats         struct {
		Level   int     `yaml:"level"`
		RP      int     `yaml:"rp"`
		KD      float64 `yaml:"kd"`
		Matches int     `yaml:"matches"`
		WinRate float64 `yaml:"win_rate"`
	} `yaml:"stats"`
	Flags struct {
		IsHot       bool `yaml:"is_hot"`
		IsLimited   bool `yaml:"is_limited"`
		IsExclusive bool `yaml:"is_exclusive"`
		Featured    bool `yaml:"featured"`
	} `yaml:"flags"`
}

type orderRecord struct {
	ID        string `yaml:"id"`
	ProductID int64  `yaml:"product_id"`
	Buyer     struct {
		Name  string `yaml:"name"`
		Email string `yaml:"email"`
		Phone string `yaml:"phone"`
	} `yaml:"buyer"`
	Amount      int64      `yaml:"amount"`
	Status      string     `yaml:"status"`
	PaymentID   string     `yaml:"payment_id"`
	CreatedAt   time.Time  `yaml:"created_at"`
	DeliveredAt *time.Time `yaml:"delivered_at"`
	Credentials *struct {
		ID        string `yaml:"id"`
		Password  string `yaml:"password"`
		LoginType string `yaml:"login_type"`
	} `yaml:"credentials"`
}

// Products decodes the seed catalog in listing order
func Products() ([]catalog.Product, error) {
	var records []productRecord
	if err := yaml.Unmarshal(catalogYAML, &records); err != nil {
		return nil, fmt.Errorf("decode seed catalog: %w", err)
	}

	products := make([]catalog.Product, 0, len(records))
	for _, r := range records {
		p, err := catalog.NewProduct(r.ID, catalog.ProductAttributes{
			Title:         r.Title,
			Price:         r.Price,
			OriginalPrice: r.OriginalPrice,
			Discount:      r.Discount,
			Rank:          catalog.Rank(r.Rank),
			LoginType:     catalog.LoginType(r.LoginType),
			Status:        catalog.ProductStatus(r.Status),
			Mythics:       r.Mythics,
			Vehicles:      r.Vehicles,
			Pets:          r.Pets,
			Image:         r.Image,
			Description:   r.Description,
			Stats: catalog.Stats{
				Level:   r.Stats.Level,
				RP:      r.Stats.RP,
				KD:      r.Stats.KD,
				Matches: r.Stats.Matches,
				WinRate: r.Stats.WinRate,
			},
			Flags: catalog.Flags{
				IsHot:       r.Flags.IsHot,
				IsLimited:   r.Flags.IsLimited,
				IsExclusive: r.Flags.IsExclusive,
				Featured:    r.Flags.Featured,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("seed product %d: %w", r.ID, err)
		}
		products = append(products, p.Snapshot())
	}
	return products, nil
}

// Orders decodes the seed order history. Each order embeds a snapshot
// of the seed product it references.
func Orders(products []catalog.Product) ([]order.Order, error) {
	var records []orderRecord
	if err := yaml.Unmarshal(ordersYAML, &records); err != nil {
		return nil, fmt.Errorf("decode seed orders: %w", err)
	}

	byID := make(map[int64]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	orders := make([]order.Order, 0, len(records))
	for _, r := range records {
		product, ok := byID[r.ProductID]
		if !ok {
			return nil, fmt.Errorf("seed order %s references unknown product %d", r.ID, r.ProductID)
		}
		status, err := order.ParseStatus(r.Status)
		if err != nil {
			return nil, fmt.Errorf("seed order %s: %w", r.ID, err)
		}

		o := order.Order{
			ID:        r.ID,
			ProductID: r.ProductID,
			Product:   product.Snapshot(),
			Buyer: order.Buyer{
				Name:  r.Buyer.Name,
				Email: r.Buyer.Email,
				Phone: r.Buyer.Phone,
			},
			Amount:      r.Amount,
			Status:      status,
			CreatedAt:   r.CreatedAt,
			DeliveredAt: r.DeliveredAt,
			UpdatedAt:   r.CreatedAt,
		}
		if r.PaymentID != "" {
			paymentID := r.PaymentID
			o.PaymentID = &paymentID
		}
		if r.Credentials != nil {
			o.Credentials = &order.Credentials{
				ID:        r.Credentials.ID,
				Password:  r.Credentials.Password,
				LoginType: catalog.LoginType(r.Credentials.LoginType),
			}
		}
		orders = append(orders, o)
	}
	return orders, nil
}
