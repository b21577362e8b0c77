package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medishare/donation-gateway/internal/core/domain"
	"github.com/medishare/donation-gateway/internal/core/ports"
)

const collectionMedicines = "medicines"

// MedicineRepository persists donation aggregates.
type MedicineRepository struct {
	col *mongo.Collection
}

func NewMedicineRepository(db *mongo.Database) *MedicineRepository {
	return &MedicineRepository{col: db.Collection(collectionMedicines)}
}

// Create inserts a new donation document.
func (r *MedicineRepository) Create(ctx context.Context, m *domain.Medicine) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return fmt.Errorf("insert medicine: %w", err)
	}
	return nil
}

// FindByReference retrieves a donation by its public reference.
func (r *MedicineRepository) FindByReference(ctx context.Context, reference string) (*domain.Medicine, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m domain.Medicine
	if err := r.col.FindOne(ctx, bson.M{"reference": reference}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrMedicineNotFound
		}
		return nil, fmt.Errorf("find medicine: %w", err)
	}
	return &m, nil
}

// Update replaces the mutable fields of a donation document.
func (r *MedicineRepository) Update(ctx context.Context, m *domain.Medicine) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":            m.Status,
		"requested_by":      m.RequestedBy,
		"requested_by_role": m.RequestedByRole,
		"status_history":    m.StatusHistory,
		"updated_at":        m.UpdatedAt,
	}}

	res, err := r.col.UpdateOne(ctx, bson.M{"reference": m.Reference}, update)
	if err != nil {
		return fmt.Errorf("update medicine: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrMedicineNotFound
	}
	return nil
}

// List returns a page of donations matching the filter, newest first.
func (r *MedicineRepository) List(ctx context.Context, filter ports.MedicineFilter, page, limit int) ([]domain.Medicine, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildFilter(filter)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count medicines: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list medicines: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.Medicine
	if err := cursor.All(ctx, &items); err != nil {
		return nil, 0, fmt.Errorf("decode medicines: %w", err)
	}
	return items, total, nil
}

// CountByStatus aggregates donation counts per status under the given filter.
func (r *MedicineRepository) CountByStatus(ctx context.Context, filter ports.MedicineFilter) (map[domain.DonationStatus]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := []bson.M{
		{"$match": buildFilter(filter)},
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Status domain.DonationStatus `bson:"_id"`
		Count  int64                 `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode counts: %w", err)
	}

	counts := make(map[domain.DonationStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// EnsureIndexes creates necessary indexes on the medicines collection.
func (r *MedicineRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "donor_id", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "requested_by", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func buildFilter(filter ports.MedicineFilter) bson.M {
	query := bson.M{}
	if filter.DonorID != "" {
		query["donor_id"] = filter.DonorID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.VisibleTo != "" {
		query["$or"] = []bson.M{
			{"status": domain.StatusAvailable},
			{"requested_by": filter.VisibleTo},
		}
	}
	return query
}
