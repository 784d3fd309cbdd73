package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tekblok/fieldtask/internal/core/domain"
)

const (
	collectionWorkTypes = "work_types"
	collectionVoltages  = "voltages"
)

// CatalogRepository stores the work type and voltage reference lists.
type CatalogRepository struct {
	workTypes *mongo.Collection
	voltages  *mongo.Collection
}

func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		workTypes: db.Collection(collectionWorkTypes),
		voltages:  db.Collection(collectionVoltages),
	}
}

// --- Work types ---

func (r *CatalogRepository) CreateWorkType(ctx context.Context, wt *domain.WorkType) error {
	return insertUnique(ctx, r.workTypes, wt)
}

func (r *CatalogRepository) FindWorkType(ctx context.Context, id string) (*domain.WorkType, error) {
	var wt domain.WorkType
	if err := findByID(ctx, r.workTypes, id, &wt, domain.ErrWorkTypeNotFound); err != nil {
		return nil, err
	}
	return &wt, nil
}

func (r *CatalogRepository) ListWorkTypes(ctx context.Context) ([]*domain.WorkType, error) {
	out := make([]*domain.WorkType, 0)
	if err := listSorted(ctx, r.workTypes, "title", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CatalogRepository) DeleteWorkType(ctx context.Context, id string) error {
	return deleteByID(ctx, r.workTypes, id, domain.ErrWorkTypeNotFound)
}

// --- Voltages ---

func (r *CatalogRepository) CreateVoltage(ctx context.Context, v *domain.Voltage) error {
	return insertUnique(ctx, r.voltages, v)
}

func (r *CatalogRepository) FindVoltage(ctx context.Context, id string) (*domain.Voltage, error) {
	var v domain.Voltage
	if err := findByID(ctx, r.voltages, id, &v, domain.ErrVoltageNotFound); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *CatalogRepository) ListVoltages(ctx context.Context) ([]*domain.Voltage, error) {
	out := make([]*domain.Voltage, 0)
	if err := listSorted(ctx, r.voltages, "volt", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *CatalogRepository) DeleteVoltage(ctx context.Context, id string) error {
	return deleteByID(ctx, r.voltages, id, domain.ErrVoltageNotFound)
}

// EnsureIndexes keeps titles and voltage values unique.
func (r *CatalogRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	unique := options.Index().SetUnique(true)
	if _, err := r.workTypes.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "title", Value: 1}}, Options: unique}); err != nil {
		return err
	}
	_, err := r.voltages.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "volt", Value: 1}}, Options: unique})
	return err
}

func insertUnique(ctx context.Context, col *mongo.Collection, doc any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrCatalogDuplicate
		}
		return fmt.Errorf("insert %s: %w", col.Name(), err)
	}
	return nil
}

func findByID(ctx context.Context, col *mongo.Collection, id string, out any, notFound error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return notFound
		}
		return fmt.Errorf("find %s: %w", col.Name(), err)
	}
	return nil
}

func listSorted(ctx context.Context, col *mongo.Collection, field string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: field, Value: 1}}))
	if err != nil {
		return fmt.Errorf("list %s: %w", col.Name(), err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", col.Name(), err)
	}
	return nil
}

func deleteByID(ctx context.Context, col *mongo.Collection, id string, notFound error) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", col.Name(), err)
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}
