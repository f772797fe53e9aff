package models

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusPreparing,
	StatusReady,
	StatusCompleted,
	StatusCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

const DefaultCategory = "Main Course"

type MenuItem struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"          json:"id"`
	Name        string  `gorm:"size:100;uniqueIndex;not null"     json:"name"`
	Description *string `gorm:"type:text"                         json:"description"`
	Price       Money   `gorm:"not null"                          json:"price"`
	Category    string  `gorm:"size:50;not null"                  json:"category"`
	Stock       int     `gorm:"not null;check:stock >= 0"         json:"stock"`
	IsAvailable bool    `gorm:"not null"                          json:"is_available"`
}

type Table struct {
	ID          uint `gorm:"primaryKey;autoIncrement"   json:"id"`
	TableNumber int  `gorm:"uniqueIndex;not null"       json:"table_number"`
	Capacity    int  `gorm:"not null"                   json:"capacity"`
	IsAvailable bool `gorm:"not null"                   json:"is_available"`
}

type Reservation struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"`
	CustomerName    string    `gorm:"size:100;not null"`
	CustomerPhone   *string   `gorm:"size:20"`
	TableID         *uint     `gorm:"index"`
	Table           *Table    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	ReservationTime time.Time `gorm:"not null;index"`
	NumberOfGuests  int       `gorm:"not null"`
	Notes           *string   `gorm:"type:text"`
	IsConfirmed     bool      `gorm:"not null"`
}

type Order struct {
	ID           uint        `gorm:"primaryKey;autoIncrement"`
	TableID      *uint       `gorm:"index"`
	Table        *Table      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	CustomerName *string     `gorm:"size:100"`
	OrderTime    time.Time   `gorm:"not null;index"`
	TotalAmount  Money       `gorm:"not null"`
	Status       OrderStatus `gorm:"size:20;not null;index"`
	Notes        *string     `gorm:"type:text"`
	Items        []OrderItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

type OrderItem struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"`
	OrderID      uint      `gorm:"uniqueIndex:idx_order_menu_item;not null"`
	MenuItemID   uint      `gorm:"uniqueIndex:idx_order_menu_item;not null"`
	MenuItem     *MenuItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	Quantity     int       `gorm:"not null;check:quantity > 0"`
	PriceAtOrder Money     `gorm:"not null"`
}

func (i OrderItem) LineTotal() Money {
	return i.PriceAtOrder.Mul(i.Quantity)
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"size:150;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Email        string `gorm:"size:254"`
	FirstName    string `gorm:"size:150"`
	LastName     string `gorm:"size:150"`
	IsSuperuser  bool   `gorm:"not null"`
}

// All lists every model in migration order.
func All() []any {
	return []any{&MenuItem{}, &Table{}, &Reservation{}, &Order{}, &OrderItem{}, &User{}}
}
