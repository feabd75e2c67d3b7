package storefront

// Product is a catalog entry. Stock is informational only.
type Product struct {
	ID             int64          `json:"id" validate:"gt=0"`
	Name           string         `json:"name" validate:"required"`
	Description    string         `json:"description"`
	Price          float64        `json:"price" validate:"gte=0"`
	Specifications map[string]any `json:"specifications"`
	Images         []string       `json:"images"`
	VideoURL       *string        `json:"video_url"`
	IsActive       bool           `json:"is_active"`
	StockQuantity  int            `json:"stock_quantity"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      *string        `json:"updated_at"`
}

// Customer is both the order-creation customer block and the stored customer.
type Customer struct {
	ID        int64   `json:"id,omitempty"`
	FullName  string  `json:"full_name" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     string  `json:"phone" validate:"required"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	Country   *string `json:"country,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known lifecycle states.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type Order struct {
	ID                  int64       `json:"id" validate:"gt=0"`
	CustomerID          int64       `json:"customer_id"`
	ProductID           int64       `json:"product_id" validate:"gt=0"`
	Quantity            int         `json:"quantity" validate:"gt=0"`
	TotalPrice          float64     `json:"total_price" validate:"gte=0"`
	Status              OrderStatus `json:"status" validate:"oneof=pending confirmed shipped delivered cancelled"`
	SpecialRequirements *string     `json:"special_requirements,omitempty"`
	DeliveryAddress     *string     `json:"delivery_address,omitempty"`
	OrderDate           string      `json:"order_date"`
	UpdatedAt           *string     `json:"updated_at,omitempty"`
	Customer            *Customer   `json:"customer,omitempty"`
	Product             *Product    `json:"product,omitempty"`
}

type OrderCreate struct {
	Customer            Customer `json:"customer"`
	ProductID           int64    `json:"product_id" validate:"gt=0"`
	Quantity            int      `json:"quantity" validate:"gt=0"`
	SpecialRequirements *string  `json:"special_requirements,omitempty"`
	DeliveryAddress     *string  `json:"delivery_address,omitempty"`
}

// OrderUpdate carries the fields an admin may change; nil fields are left alone.
type OrderUpdate struct {
	Status              *OrderStatus `json:"status,omitempty"`
	Quantity            *int         `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	SpecialRequirements *string      `json:"special_requirements,omitempty"`
	DeliveryAddress     *string      `json:"delivery_address,omitempty"`
}

type ListOrdersParams struct {
	Skip   int
	Limit  int
	Status OrderStatus
}

type ChatMessageCreate struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"session_id,omitempty"`
	Language  string `json:"language,omitempty"`
}

type ChatMessageResponse struct {
	Response  string `json:"response" validate:"required"`
	SessionID string `json:"session_id" validate:"required"`
}

type ChatMessage struct {
	ID        int64   `json:"id"`
	Message   string  `json:"message"`
	Response  *string `json:"response"`
	Language  string  `json:"language"`
	Timestamp string  `json:"timestamp"`
}

type AdminLogin struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type Token struct {
	AccessToken string `json:"access_token" validate:"required"`
	TokenType   string `json:"token_type"`
}

type Admin struct {
	ID          int64  `json:"id"`
	Username    string `json:"username" validate:"required"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	IsSuperuser bool   `json:"is_superuser"`
	CreatedAt   string `json:"created_at"`
}

type DashboardStats struct {
	TotalOrders     int     `json:"total_orders"`
	PendingOrders   int     `json:"pending_orders"`
	ConfirmedOrders int     `json:"confirmed_orders"`
	ShippedOrders   int     `json:"shipped_orders"`
	DeliveredOrders int     `json:"delivered_orders"`
	CancelledOrders int     `json:"cancelled_orders"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalCustomers  int     `json:"total_customers"`
	RecentOrders    []Order `json:"recent_orders" validate:"dive"`
}

type FileType string

const (
	FileTypeImages FileType = "images"
	FileTypeVideos FileType = "videos"
)

func (f FileType) Valid() bool {
	return f == FileTypeImages || f == FileTypeVideos
}

type FileUploadResponse struct {
	Filename         string `json:"filename" validate:"required"`
	OriginalFilename string `json:"original_filename"`
	URL              string `json:"url" validate:"required"`
	Message          string `json:"message"`
}

type FileItem struct {
	Filename string   `json:"filename" validate:"required"`
	Size     int64    `json:"size"`
	URL      string   `json:"url"`
	Type     FileType `json:"type" validate:"oneof=images videos"`
}

type FileList struct {
	Files []FileItem `json:"files" validate:"dive"`
}

// ProductMediaUpdate replaces a product's gallery and/or video.
type ProductMediaUpdate struct {
	Images   []string `json:"images,omitempty"`
	VideoURL *string  `json:"video_url,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type Health struct {
	Status  string `json:"status" validate:"required"`
	Service string `json:"service"`
}
