package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	indexOrderCode     = "uniq_code"
	indexOrderCheckout = "uniq_checkout_id"
)

type MongoRepository struct {
	collection *mongo.Collection
}

func NewMongoRepository(db *mongo.Database) *MongoRepository {
	return &MongoRepository{
		collection: db.Collection("orders"),
	}
}

func (m *MongoRepository) CreateIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(indexOrderCode),
		},
		{
			Keys:    bson.D{{Key: "checkout_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName(indexOrderCheckout),
		},
		{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		},
	}

	_, err := m.collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

type orderItemDocument struct {
	ProductID int64                `bson:"product_id"`
	SKU       string               `bson:"sku"`
	Name      string               `bson:"name"`
	UnitPrice primitive.Decimal128 `bson:"unit_price"`
	SizeCode  string               `bson:"size_code,omitempty"`
	ColorName string               `bson:"color_name,omitempty"`
	Quantity  int                  `bson:"quantity"`
}

type addressDocument struct {
	Street     string `bson:"address"`
	District   string `bson:"district"`
	Province   string `bson:"province"`
	Department string `bson:"department"`
	Reference  string `bson:"reference,omitempty"`
}

type customerDocument struct {
	Name    string `bson:"name"`
	Surname string `bson:"surname"`
	Email   string `bson:"email"`
	Phone   string `bson:"phone"`
}

type paymentDocument struct {
	Method          string `bson:"method"`
	CardLast4       string `bson:"card_last4,omitempty"`
	CardholderName  string `bson:"cardholder_name,omitempty"`
	OperationCode   string `bson:"operation_code,omitempty"`
	BankName        string `bson:"bank_name,omitempty"`
	OperationNumber string `bson:"operation_number,omitempty"`
}

type orderDocument struct {
	ID           string               `bson:"_id"`
	Code         string               `bson:"code"`
	CheckoutID   string               `bson:"checkout_id"`
	Status       string               `bson:"status"`
	Customer     customerDocument     `bson:"customer"`
	DeliveryMode string               `bson:"delivery_mode"`
	Address      *addressDocument     `bson:"address,omitempty"`
	Payment      paymentDocument      `bson:"payment"`
	Items        []orderItemDocument  `bson:"items"`
	Subtotal     primitive.Decimal128 `bson:"subtotal"`
	Shipping     primitive.Decimal128 `bson:"shipping"`
	Tax          primitive.Decimal128 `bson:"tax"`
	Total        primitive.Decimal128 `bson:"total"`
	CreatedAt    time.Time            `bson:"created_at"`
}

func (m *MongoRepository) SaveOrder(ctx context.Context, order *domain.Order) error {
	doc, err := toDocument(order)
	if err != nil {
		return err
	}

	_, err = m.collection.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		switch {
		case strings.Contains(err.Error(), indexOrderCheckout):
			return ErrDuplicateCheckout
		case strings.Contains(err.Error(), indexOrderCode):
			return ErrDuplicateOrderCode
		}
	}
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (m *MongoRepository) LoadOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return m.findOne(ctx, bson.M{"_id": id.String()})
}

func (m *MongoRepository) LoadOrderByCode(ctx context.Context, code string) (*domain.Order, error) {
	return m.findOne(ctx, bson.M{"code": code})
}

func (m *MongoRepository) LoadOrderByCheckout(ctx context.Context, checkoutID uuid.UUID) (*domain.Order, error) {
	return m.findOne(ctx, bson.M{"checkout_id": checkoutID.String()})
}

func (m *MongoRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus) (bool, error) {
	res, err := m.collection.UpdateOne(ctx,
		bson.M{"_id": id.String(), "status": string(from)},
		bson.M{"$set": bson.M{"status": string(to)}})
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	if res.ModifiedCount == 1 {
		return true, nil
	}

	if _, err := m.LoadOrder(ctx, id); err != nil {
		return false, err
	}
	return false, nil
}

func (m *MongoRepository) findOne(ctx context.Context, filter bson.M) (*domain.Order, error) {
	var doc orderDocument
	err := m.collection.FindOne(ctx, filter).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return fromDocument(&doc)
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("convert %s to decimal128: %w", d, err)
	}
	return v, nil
}

func fromDecimal128(v primitive.Decimal128) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("convert decimal128 %s: %w", v, err)
	}
	return d, nil
}

func toDocument(o *domain.Order) (*orderDocument, error) {
	doc := &orderDocument{
		ID:           o.ID.String(),
		Code:         o.Code,
		CheckoutID:   o.CheckoutID.String(),
		Status:       string(o.Status),
		Customer:     customerDocument(o.Customer),
		DeliveryMode: string(o.DeliveryMode),
		Payment: paymentDocument{
			Method:          string(o.Payment.Method),
			CardLast4:       o.Payment.CardLast4,
			CardholderName:  o.Payment.CardholderName,
			OperationCode:   o.Payment.OperationCode,
			BankName:        o.Payment.BankName,
			OperationNumber: o.Payment.OperationNumber,
		},
		CreatedAt: o.CreatedAt,
	}
	if o.Address != nil {
		a := addressDocument(*o.Address)
		doc.Address = &a
	}

	for _, it := range o.Items {
		price, err := toDecimal128(it.UnitPrice)
		if err != nil {
			return nil, err
		}
		doc.Items = append(doc.Items, orderItemDocument{
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Name:      it.Name,
			UnitPrice: price,
			SizeCode:  it.SizeCode,
			ColorName: it.ColorName,
			Quantity:  it.Quantity,
		})
	}

	var err error
	if doc.Subtotal, err = toDecimal128(o.Totals.Subtotal); err != nil {
		return nil, err
	}
	if doc.Shipping, err = toDecimal128(o.Totals.Shipping); err != nil {
		return nil, err
	}
	if doc.Tax, err = toDecimal128(o.Totals.Tax); err != nil {
		return nil, err
	}
	if doc.Total, err = toDecimal128(o.Totals.Total); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDocument(doc *orderDocument) (*domain.Order, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return nil, fmt.Errorf("parse order id: %w", err)
	}
	checkoutID, err := uuid.Parse(doc.CheckoutID)
	if err != nil {
		return nil, fmt.Errorf("parse checkout id: %w", err)
	}

	o := &domain.Order{
		ID:           id,
		Code:         doc.Code,
		CheckoutID:   checkoutID,
		Status:       domain.OrderStatus(doc.Status),
		Customer:     domain.CustomerInfo(doc.Customer),
		DeliveryMode: domain.DeliveryMode(doc.DeliveryMode),
		Payment: domain.OrderPayment{
			Method:          domain.PaymentMethod(doc.Payment.Method),
			CardLast4:       doc.Payment.CardLast4,
			CardholderName:  doc.Payment.CardholderName,
			OperationCode:   doc.Payment.OperationCode,
			BankName:        doc.Payment.BankName,
			OperationNumber: doc.Payment.OperationNumber,
		},
		CreatedAt: doc.CreatedAt.UTC(),
	}
	if doc.Address != nil {
		a := domain.Address(*doc.Address)
		o.Address = &a
	}

	for _, it := range doc.Items {
		price, err := fromDecimal128(it.UnitPrice)
		if err != nil {
			return nil, err
		}
		o.Items = append(o.Items, domain.OrderItem{
			ProductID: it.ProductID,
			SKU:       it.SKU,
			Name:      it.Name,
			UnitPrice: price,
			SizeCode:  it.SizeCode,
			ColorName: it.ColorName,
			Quantity:  it.Quantity,
		})
	}

	if o.Totals.Subtotal, err = fromDecimal128(doc.Subtotal); err != nil {
		return nil, err
	}
	if o.Totals.Shipping, err = fromDecimal128(doc.Shipping); err != nil {
		return nil, err
	}
	if o.Totals.Tax, err = fromDecimal128(doc.Tax); err != nil {
		return nil, err
	}
	if o.Totals.Total, err = fromDecimal128(doc.Total); err != nil {
		return nil, err
	}
	return o, nil
}
