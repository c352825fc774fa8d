package catalog

// Product is a read-only catalog entry. Prices are in major currency units
// (dollars); checkout converts to minor units before talking to the payment
// provider.
type Product struct {
	ID            string   `json:"id" bson:"id"`
	Name          string   `json:"name" bson:"name"`
	Price         float64  `json:"price" bson:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty" bson:"original_price,omitempty"`
	Image         string   `json:"image" bson:"image"`
	Category      string   `json:"category" bson:"category"`
	Description   string   `json:"description" bson:"description"`
	Rating        float64  `json:"rating" bson:"rating"`
	Reviews       int      `json:"reviews" bson:"reviews"`
	Sizes         []string `json:"sizes,omitempty" bson:"sizes,omitempty"`
	Colors        []string `json:"colors,omitempty" bson:"colors,omitempty"`
	InStock       bool     `json:"inStock" bson:"in_stock"`
	Featured      bool     `json:"featured,omitempty" bson:"featured,omitempty"`
}
