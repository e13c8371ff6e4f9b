package domain

import "time"

// Gift is a catalog item; CoinPrice is the cost of sending one unit.
type Gift struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Icon      string    `db:"icon" json:"icon"`
	CoinPrice int64     `db:"coin_price" json:"coin_price"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
