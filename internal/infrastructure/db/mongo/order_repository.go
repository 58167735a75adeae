package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lankaship/courier-gateway/internal/core/domain"
	"github.com/lankaship/courier-gateway/internal/core/ports"
)

const collectionOrderShipments = "order_shipments"

// orderShipmentDoc is the persisted shape of an order's shipping slice. The
// document is keyed by (tenant_id, order_id); re-booking overwrites it.
type orderShipmentDoc struct {
	OrderID        string    `bson:"order_id"`
	TenantID       string    `bson:"tenant_id"`
	Provider       string    `bson:"provider"`
	ProviderName   string    `bson:"provider_name"`
	TrackingNumber string    `bson:"tracking_number"`
	Status         string    `bson:"status"`
	CreatedAt      time.Time `bson:"created_at"`
	LastCheckedAt  time.Time `bson:"last_checked_at"`
}

// OrderShipmentRepository stores tracking identifiers and polled statuses for
// orders. It implements ports.OrderShippingStore.
type OrderShipmentRepository struct {
	col *mongo.Collection
}

func NewOrderShipmentRepository(db *mongo.Database) *OrderShipmentRepository {
	return &OrderShipmentRepository{col: db.Collection(collectionOrderShipments)}
}

func (r *OrderShipmentRepository) ShipmentInfo(ctx context.Context, tenantID, orderID string) (*ports.OrderShipmentInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc orderShipmentDoc
	err := r.col.FindOne(ctx, bson.M{"tenant_id": tenantID, "order_id": orderID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return docToInfo(&doc), nil
}

// SetShipmentInfo upserts the order's shipping record. Booking writes this
// once per shipment; a manual re-entry for SL Post replaces the prior value.
func (r *OrderShipmentRepository) SetShipmentInfo(ctx context.Context, info *ports.OrderShipmentInfo) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := orderShipmentDoc{
		OrderID:        info.OrderID,
		TenantID:       info.TenantID,
		Provider:       string(info.Provider),
		ProviderName:   info.ProviderName,
		TrackingNumber: info.TrackingNumber,
		Status:         string(info.Status),
		CreatedAt:      info.CreatedAt,
		LastCheckedAt:  info.LastCheckedAt,
	}
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"tenant_id": info.TenantID, "order_id": info.OrderID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *OrderShipmentRepository) SetTrackingStatus(ctx context.Context, tenantID, orderID string, status domain.ShipmentStatus, checkedAt time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"tenant_id": tenantID, "order_id": orderID},
		bson.M{"$set": bson.M{"status": string(status), "last_checked_at": checkedAt}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// ListTracked returns orders still worth polling: a tracking number is
// present and the status is not terminal. Oldest checks first so stale orders
// refresh before recently polled ones.
func (r *OrderShipmentRepository) ListTracked(ctx context.Context, limit int) ([]*ports.OrderShipmentInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"tracking_number": bson.M{"$ne": ""},
		"status": bson.M{"$nin": bson.A{
			string(domain.StatusDelivered),
			string(domain.StatusReturned),
		}},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "last_checked_at", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var infos []*ports.OrderShipmentInfo
	for cursor.Next(ctx) {
		var doc orderShipmentDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		infos = append(infos, docToInfo(&doc))
	}
	return infos, cursor.Err()
}

// EnsureIndexes creates the lookup and polling indexes.
func (r *OrderShipmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "order_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "last_checked_at", Value: 1}}},
		{Keys: bson.D{{Key: "tracking_number", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func docToInfo(doc *orderShipmentDoc) *ports.OrderShipmentInfo {
	return &ports.OrderShipmentInfo{
		OrderID:        doc.OrderID,
		TenantID:       doc.TenantID,
		Provider:       domain.Provider(doc.Provider),
		ProviderName:   doc.ProviderName,
		TrackingNumber: doc.TrackingNumber,
		Status:         domain.ShipmentStatus(doc.Status),
		CreatedAt:      doc.CreatedAt,
		LastCheckedAt:  doc.LastCheckedAt,
	}
}

var _ ports.OrderShippingStore = (*OrderShipmentRepository)(nil)
