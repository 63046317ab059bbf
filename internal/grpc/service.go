package grpc

import (
	"context"

	"google.golang.org/grpc"
)

const serviceName = "storefront.v1.OrdersService"

type GetOrderRequest struct {
	OrderID string `json:"order_id"`
}

type GetOrderByCodeRequest struct {
	Code string `json:"code"`
}

type OrderItem struct {
	ProductID int64  `json:"product_id"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Quantity  int32  `json:"quantity"`
	UnitPrice string `json:"unit_price"`
}

type Order struct {
	ID           string      `json:"id"`
	Code         string      `json:"code"`
	CheckoutID   string      `json:"checkout_id"`
	Status       string      `json:"status"`
	Email        string      `json:"email"`
	DeliveryMode string      `json:"delivery_mode"`
	Items        []OrderItem `json:"items"`
	Subtotal     string      `json:"subtotal"`
	Shipping     string      `json:"shipping"`
	Tax          string      `json:"tax"`
	Total        string      `json:"total"`
	CreatedAt    string      `json:"created_at"`
}

type OrderResponse struct {
	Order *Order `json:"order"`
}

// OrdersServer is the server API for the orders service.
type OrdersServer interface {
	GetOrder(context.Context, *GetOrderRequest) (*OrderResponse, error)
	GetOrderByCode(context.Context, *GetOrderByCodeRequest) (*OrderResponse, error)
}

func RegisterOrdersServer(s grpc.ServiceRegistrar, srv OrdersServer) {
	s.RegisterService(&ordersServiceDesc, srv)
}

func getOrderHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetOrderRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrdersServer).GetOrder(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/GetOrder",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OrdersServer).GetOrder(ctx, req.(*GetOrderRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getOrderByCodeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetOrderByCodeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OrdersServer).GetOrderByCode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: "/" + serviceName + "/GetOrderByCode",
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(OrdersServer).GetOrderByCode(ctx, req.(*GetOrderByCodeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var ordersServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*OrdersServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetOrder", Handler: getOrderHandler},
		{MethodName: "GetOrderByCode", Handler: getOrderByCodeHandler},
	},
	Streams: []grpc.StreamDesc{},
}

// OrdersClient calls the orders service using the JSON codec.
type OrdersClient struct {
	cc grpc.ClientConnInterface
}

func NewOrdersClient(cc grpc.ClientConnInterface) *OrdersClient {
	return &OrdersClient{cc: cc}
}

func (c *OrdersClient) GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	out := new(OrderResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetOrder", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *OrdersClient) GetOrderByCode(ctx context.Context, in *GetOrderByCodeRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	out := new(OrderResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/GetOrderByCode", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
