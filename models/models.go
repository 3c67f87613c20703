package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OrderStatus enum
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// ContactStatus enum
type ContactStatus string

const (
	ContactNew      ContactStatus = "new"
	ContactRead     ContactStatus = "read"
	ContactReplied  ContactStatus = "replied"
	ContactArchived ContactStatus = "archived"
)

// ValidContactStatus reports whether s is a known contact status
func ValidContactStatus(s ContactStatus) bool {
	switch s {
	case ContactNew, ContactRead, ContactReplied, ContactArchived:
		return true
	}
	return false
}

// JSONB type for GORM - can handle both objects and arrays
type JSONB struct {
	Data interface{} `json:"-"`
}

// NewJSONB creates a new JSONB from any value
func NewJSONB(v interface{}) JSONB {
	return JSONB{Data: v}
}

// UnmarshalJSON implements json.Unmarshaler
func (j *JSONB) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &j.Data)
}

// MarshalJSON implements json.Marshaler
func (j JSONB) MarshalJSON() ([]byte, error) {
	if j.Data == nil {
		return []byte("null"), nil
	}
	return json.Marshal(j.Data)
}

func (j JSONB) Value() (driver.Value, error) {
	if j.Data == nil {
		return nil, nil
	}
	return json.Marshal(j.Data)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		j.Data = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, &j.Data)
	case string:
		return json.Unmarshal([]byte(v), &j.Data)
	}
	return nil
}

// Service model - a bookable service shown on the services page
type Service struct {
	ID          int64   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name        string  `gorm:"column:name;not null" json:"name"`
	Description string  `gorm:"column:description" json:"description"`
	Price       string  `gorm:"column:price" json:"price"` // display label, e.g. "$100"
	Category    string  `gorm:"column:category;default:Service" json:"category"`
	IsActive    bool    `gorm:"column:is_active;default:true;index" json:"isActive"`
	SortOrder   int     `gorm:"column:sort_order;default:0" json:"sortOrder"`
	IconURL     *string `gorm:"column:icon_url" json:"iconUrl,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Service) TableName() string {
	return "services"
}

// Project model - a portfolio entry shown on the projects page
type Project struct {
	ID          int64   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Title       string  `gorm:"column:title;not null" json:"title"`
	Description string  `gorm:"column:description" json:"description"`
	ImageURL    *string `gorm:"column:image_url" json:"imageUrl,omitempty"`
	LiveURL     *string `gorm:"column:live_url" json:"liveUrl,omitempty"`
	RepoURL     *string `gorm:"column:repo_url" json:"repoUrl,omitempty"`
	Tags        JSONB   `gorm:"type:jsonb;column:tags" json:"tags,omitempty"` // ["react", "go", ...]
	Featured    bool    `gorm:"column:featured;default:false;index" json:"featured"`

	CreatedAt time.Time `gorm:"column:created_at;default:CURRENT_TIMESTAMP;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Project) TableName() string {
	return "projects"
}

// OrderItem is a purchased line item, stored inline on the order
type OrderItem struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Category    string  `json:"category"`
}

// OrderItems stores the item list as a JSONB column
type OrderItems []OrderItem

func (o OrderItems) Value() (driver.Value, error) {
	if o == nil {
		return json.Marshal([]OrderItem{})
	}
	return json.Marshal(o)
}

func (o *OrderItems) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, o)
	case string:
		return json.Unmarshal([]byte(v), o)
	}
	return fmt.Errorf("unsupported type for OrderItems: %T", value)
}

// Order model - a one-shot service booking submission
type Order struct {
	ID             int64   `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	OrderID        string  `gorm:"column:order_id;uniqueIndex;not null" json:"orderId"` // public reference
	CustomerName   string  `gorm:"column:customer_name;not null" json:"customerName"`
	CustomerEmail  string  `gorm:"column:customer_email;not null;index" json:"customerEmail"`
	CustomerPhone  string  `gorm:"column:customer_phone" json:"customerPhone"`
	AddressStreet  *string `gorm:"column:address_street" json:"addressStreet,omitempty"`
	AddressCity    *string `gorm:"column:address_city" json:"addressCity,omitempty"`
	AddressPostal  *string `gorm:"column:address_postal" json:"addressPostal,omitempty"`
	AddressCountry *string `gorm:"column:address_country" json:"addressCountry,omitempty"`

	Items    OrderItems  `gorm:"type:jsonb;column:items" json:"items"`
	Subtotal float64     `gorm:"column:subtotal" json:"subtotal"`
	Tax      float64     `gorm:"column:tax" json:"tax"`
	Total    float64     `gorm:"column:total" json:"total"`
	Status   OrderStatus `gorm:"column:status;default:pending;index" json:"status"`

	CreatedAt time.Time  `gorm:"column:created_at;default:CURRENT_TIMESTAMP;index" json:"createdAt"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updatedAt,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// Contact model - a message submitted through the contact page
type Contact struct {
	ID      int64         `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Name    string        `gorm:"column:name;not null" json:"name"`
	Email   string        `gorm:"column:email;not null;index" json:"email"`
	Phone   *string       `gorm:"column:phone" json:"phone,omitempty"`
	Message string        `gorm:"column:message;not null" json:"message"`
	Status  ContactStatus `gorm:"column:status;default:new;index" json:"status"`

	CreatedAt time.Time  `gorm:"column:created_at;default:CURRENT_TIMESTAMP;index" json:"createdAt"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updatedAt,omitempty"`
}

func (Contact) TableName() string {
	return "contacts"
}
