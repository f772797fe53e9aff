package transport

import (
	"encoding/json"
	"time"

	"github.com/Skotchmaster/restaurant/internal/models"
)

type RegisterRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type UserResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

type RegisterResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
	Role  string       `json:"role"`
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Role    string `json:"role"`
}

type CreateMenuItemRequest struct {
	Name        string        `json:"name"`
	Description *string       `json:"description"`
	Price       *models.Money `json:"price"`
	Category    string        `json:"category"`
	Stock       *int          `json:"stock"`
	IsAvailable *bool         `json:"is_available"`
}

type PatchMenuItemRequest struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Price       *models.Money `json:"price"`
	Category    *string       `json:"category"`
	Stock       *int          `json:"stock"`
	IsAvailable *bool         `json:"is_available"`
}

// UpdateStockRequest keeps the raw value so that absent, null, numeric and
// string inputs can be told apart.
type UpdateStockRequest struct {
	Stock json.RawMessage `json:"stock"`
}

type CreateTableRequest struct {
	TableNumber int   `json:"table_number"`
	Capacity    int   `json:"capacity"`
	IsAvailable *bool `json:"is_available"`
}

type PatchTableRequest struct {
	TableNumber *int  `json:"table_number"`
	Capacity    *int  `json:"capacity"`
	IsAvailable *bool `json:"is_available"`
}

type SetAvailabilityRequest struct {
	IsAvailable json.RawMessage `json:"is_available"`
}

type CreateReservationRequest struct {
	CustomerName    string     `json:"customer_name"`
	CustomerPhone   *string    `json:"customer_phone"`
	Table           *uint      `json:"table"`
	ReservationTime *time.Time `json:"reservation_time"`
	NumberOfGuests  int        `json:"number_of_guests"`
	Notes           *string    `json:"notes"`
	IsConfirmed     bool       `json:"is_confirmed"`
}

type PatchReservationRequest struct {
	CustomerName    *string    `json:"customer_name"`
	CustomerPhone   *string    `json:"customer_phone"`
	Table           *uint      `json:"table"`
	ReservationTime *time.Time `json:"reservation_time"`
	NumberOfGuests  *int       `json:"number_of_guests"`
	Notes           *string    `json:"notes"`
	IsConfirmed     *bool      `json:"is_confirmed"`
}

type ReservationResponse struct {
	ID              uint      `json:"id"`
	CustomerName    string    `json:"customer_name"`
	CustomerPhone   *string   `json:"customer_phone"`
	Table           *uint     `json:"table"`
	TableNumber     *int      `json:"table_number"`
	ReservationTime time.Time `json:"reservation_time"`
	NumberOfGuests  int       `json:"number_of_guests"`
	Notes           *string   `json:"notes"`
	IsConfirmed     bool      `json:"is_confirmed"`
}

func NewReservationResponse(r models.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:              r.ID,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		Table:           r.TableID,
		ReservationTime: r.ReservationTime,
		NumberOfGuests:  r.NumberOfGuests,
		Notes:           r.Notes,
		IsConfirmed:     r.IsConfirmed,
	}
	if r.Table != nil {
		n := r.Table.TableNumber
		resp.TableNumber = &n
	}
	return resp
}

type CreateOrderRequest struct {
	Table        *uint   `json:"table"`
	CustomerName *string `json:"customer_name"`
	Notes        *string `json:"notes"`
}

type PatchOrderRequest struct {
	Table        *uint   `json:"table"`
	CustomerName *string `json:"customer_name"`
	Notes        *string `json:"notes"`
}

type AddItemRequest struct {
	MenuItemID json.RawMessage `json:"menu_item_id"`
	Quantity   json.RawMessage `json:"quantity"`
}

type RemoveItemRequest struct {
	OrderItemID json.RawMessage `json:"order_item_id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type OrderItemResponse struct {
	ID           uint         `json:"id"`
	MenuItem     uint         `json:"menu_item"`
	MenuItemName string       `json:"menu_item_name"`
	Quantity     int          `json:"quantity"`
	PriceAtOrder models.Money `json:"price_at_order"`
}

func NewOrderItemResponse(i models.OrderItem) OrderItemResponse {
	resp := OrderItemResponse{
		ID:           i.ID,
		MenuItem:     i.MenuItemID,
		Quantity:     i.Quantity,
		PriceAtOrder: i.PriceAtOrder,
	}
	if i.MenuItem != nil {
		resp.MenuItemName = i.MenuItem.Name
	}
	return resp
}

type OrderResponse struct {
	ID           uint                `json:"id"`
	Table        *uint               `json:"table"`
	TableNumber  *int                `json:"table_number"`
	CustomerName *string             `json:"customer_name"`
	OrderTime    time.Time           `json:"order_time"`
	TotalAmount  models.Money        `json:"total_amount"`
	Status       models.OrderStatus  `json:"status"`
	Notes        *string             `json:"notes"`
	Items        []OrderItemResponse `json:"items"`
}

func NewOrderResponse(o models.Order) OrderResponse {
	resp := OrderResponse{
		ID:           o.ID,
		Table:        o.TableID,
		CustomerName: o.CustomerName,
		OrderTime:    o.OrderTime,
		TotalAmount:  o.TotalAmount,
		Status:       o.Status,
		Notes:        o.Notes,
		Items:        make([]OrderItemResponse, 0, len(o.Items)),
	}
	if o.Table != nil {
		n := o.Table.TableNumber
		resp.TableNumber = &n
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, NewOrderItemResponse(it))
	}
	return resp
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type PageResponse[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}
