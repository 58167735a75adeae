package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lankaship/courier-gateway/internal/core/ports"
)

const collectionTenantSettings = "tenant_courier_settings"

// ErrTenantSettingsNotFound is returned when a tenant has no courier
// credentials configured yet.
var ErrTenantSettingsNotFound = errors.New("tenant courier settings not found")

type tenantSettingsDoc struct {
	TenantID         string `bson:"tenant_id"`
	FardaAPIKey      string `bson:"farda_api_key"`
	FardaClientID    string `bson:"farda_client_id"`
	TransAPIKey      string `bson:"trans_api_key"`
	RoyalCredentials string `bson:"royal_credentials"`
	RoyalTenant      string `bson:"royal_tenant"`
	OrderPrefix      string `bson:"order_prefix"`
}

// TenantSettingsRepository reads and writes per-tenant courier credentials.
// It implements ports.TenantConfigStore.
type TenantSettingsRepository struct {
	col *mongo.Collection
}

func NewTenantSettingsRepository(db *mongo.Database) *TenantSettingsRepository {
	return &TenantSettingsRepository{col: db.Collection(collectionTenantSettings)}
}

func (r *TenantSettingsRepository) CourierConfig(ctx context.Context, tenantID string) (*ports.TenantCourierConfig, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc tenantSettingsDoc
	err := r.col.FindOne(ctx, bson.M{"tenant_id": tenantID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTenantSettingsNotFound
		}
		return nil, err
	}
	return &ports.TenantCourierConfig{
		TenantID:         doc.TenantID,
		FardaAPIKey:      doc.FardaAPIKey,
		FardaClientID:    doc.FardaClientID,
		TransAPIKey:      doc.TransAPIKey,
		RoyalCredentials: doc.RoyalCredentials,
		RoyalTenant:      doc.RoyalTenant,
		OrderPrefix:      doc.OrderPrefix,
	}, nil
}

// SaveCourierConfig upserts a tenant's courier credentials.
func (r *TenantSettingsRepository) SaveCourierConfig(ctx context.Context, cfg *ports.TenantCourierConfig) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := tenantSettingsDoc{
		TenantID:         cfg.TenantID,
		FardaAPIKey:      cfg.FardaAPIKey,
		FardaClientID:    cfg.FardaClientID,
		TransAPIKey:      cfg.TransAPIKey,
		RoyalCredentials: cfg.RoyalCredentials,
		RoyalTenant:      cfg.RoyalTenant,
		OrderPrefix:      cfg.OrderPrefix,
	}
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"tenant_id": cfg.TenantID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

// EnsureIndexes creates the tenant lookup index.
func (r *TenantSettingsRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenant_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

var _ ports.TenantConfigStore = (*TenantSettingsRepository)(nil)
