package walletRepo

import (
	"context"
	"fmt"
	"time"

	"washlane/database"
	"washlane/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoWalletRepo implements WalletRepository using MongoDB. It also holds
// the booking collection so settlement can flip paid flags and zero the
// wallet in a single transaction.
type MongoWalletRepo struct {
	walletColl  *mongo.Collection
	systemColl  *mongo.Collection
	bookingColl *mongo.Collection
}

// NewMongoWalletRepo creates a new instance of WalletRepository using MongoDB.
func NewMongoWalletRepo() WalletRepository {
	db := database.DB()
	repo := &MongoWalletRepo{
		walletColl:  db.Collection("wallets"),
		systemColl:  db.Collection("system_wallet"),
		bookingColl: db.Collection("bookings"),
	}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoWalletRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "attendantId", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.walletColl.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByAttendant retrieves the attendant's wallet.
func (r *MongoWalletRepo) GetByAttendant(attendantID string) (*models.Wallet, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var w models.Wallet
	if err := r.walletColl.FindOne(ctx, bson.M{"attendantId": attendantID}).Decode(&w); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch wallet for attendant %s: %w", attendantID, err)
	}
	return &w, nil
}

// Create inserts a new wallet document.
func (r *MongoWalletRepo) Create(w *models.Wallet) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	w.CreatedAt = now
	w.UpdatedAt = now

	_, err := r.walletColl.InsertOne(ctx, w)
	if err != nil {
		return fmt.Errorf("failed to create wallet for attendant %s: %w", w.AttendantID, err)
	}
	return nil
}

// walletSetDoc builds the $set document for a wallet aggregate write.
func walletSetDoc(w *models.Wallet, now time.Time) bson.M {
	return bson.M{
		"balance":           w.Balance,
		"totalEarnings":     w.TotalEarnings,
		"totalCommission":   w.TotalCommission,
		"totalCompanyShare": w.TotalCompanyShare,
		"companyDebt":       w.CompanyDebt,
		"isPaid":            w.IsPaid,
		"lastPaymentDate":   w.LastPaymentDate,
		"adjustments":       w.Adjustments,
		"updatedAt":         now,
	}
}

// UpdateVersioned writes the wallet aggregate guarded by its version.
func (r *MongoWalletRepo) UpdateVersioned(w *models.Wallet) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"attendantId": w.AttendantID, "version": w.Version}
	update := bson.M{
		"$set": walletSetDoc(w, now),
		"$inc": bson.M{"version": 1},
	}

	result, err := r.walletColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update wallet for attendant %s: %w", w.AttendantID, err)
	}
	if result.MatchedCount == 0 {
		return ErrVersionConflict
	}
	w.Version++
	w.UpdatedAt = now
	return nil
}

// GetAll retrieves every wallet.
func (r *MongoWalletRepo) GetAll() ([]models.Wallet, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.walletColl.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve wallets: %w", err)
	}
	defer cursor.Close(ctx)

	var wallets []models.Wallet
	for cursor.Next(ctx) {
		var w models.Wallet
		if err := cursor.Decode(&w); err != nil {
			return nil, fmt.Errorf("failed to decode wallet: %w", err)
		}
		wallets = append(wallets, w)
	}
	return wallets, nil
}

// GetSystem retrieves the company-wide aggregate.
func (r *MongoWalletRepo) GetSystem() (*models.SystemWallet, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var sw models.SystemWallet
	if err := r.systemColl.FindOne(ctx, bson.M{"id": models.SystemWalletID}).Decode(&sw); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch system wallet: %w", err)
	}
	return &sw, nil
}

// CreateSystem inserts the singleton company aggregate.
func (r *MongoWalletRepo) CreateSystem(sw *models.SystemWallet) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	sw.ID = models.SystemWalletID
	sw.UpdatedAt = time.Now()

	_, err := r.systemColl.InsertOne(ctx, sw)
	if err != nil {
		return fmt.Errorf("failed to create system wallet: %w", err)
	}
	return nil
}

// UpdateSystemVersioned writes the company aggregate guarded by its version.
func (r *MongoWalletRepo) UpdateSystemVersioned(sw *models.SystemWallet) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"id": models.SystemWalletID, "version": sw.Version}
	update := bson.M{
		"$set": bson.M{
			"totalRevenue":              sw.TotalRevenue,
			"totalCompanyShare":         sw.TotalCompanyShare,
			"totalAttendantPayments":    sw.TotalAttendantPayments,
			"totalAdminCollections":     sw.TotalAdminCollections,
			"totalAttendantCollections": sw.TotalAttendantCollections,
			"currentBalance":            sw.CurrentBalance,
			"updatedAt":                 now,
		},
		"$inc": bson.M{"version": 1},
	}

	result, err := r.systemColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update system wallet: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrVersionConflict
	}
	sw.Version++
	sw.UpdatedAt = now
	return nil
}

// SettleAttendant marks the attendant's completed, unpaid bookings as paid
// and zeroes the wallet inside one transaction.
func (r *MongoWalletRepo) SettleAttendant(attendantID string, version int64, settledAt time.Time) (int64, error) {
	ctx, cancel := newContext(15 * time.Second)
	defer cancel()

	client := r.walletColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return 0, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	var covered int64
	txnFn := func(sc mongo.SessionContext) error {
		bookingFilter := bson.M{
			"attendantId":   attendantID,
			"status":        models.StatusCompleted,
			"attendantPaid": false,
		}
		bookingUpdate := bson.M{
			"$set": bson.M{
				"attendantPaid": true,
				"updatedAt":     settledAt,
			},
			// Bump the booking versions so in-flight edits lose the race.
			"$inc": bson.M{"version": 1},
		}
		res, err := r.bookingColl.UpdateMany(sc, bookingFilter, bookingUpdate)
		if err != nil {
			return fmt.Errorf("mark bookings paid failed: %w", err)
		}
		covered = res.ModifiedCount

		walletFilter := bson.M{"attendantId": attendantID, "version": version}
		walletUpdate := bson.M{
			"$set": bson.M{
				"balance":           int64(0),
				"totalEarnings":     int64(0),
				"totalCommission":   int64(0),
				"totalCompanyShare": int64(0),
				"companyDebt":       int64(0),
				"isPaid":            true,
				"lastPaymentDate":   settledAt,
				"adjustments":       []models.WalletAdjustment{},
				"updatedAt":         settledAt,
			},
			"$inc": bson.M{"version": 1},
		}
		wres, err := r.walletColl.UpdateOne(sc, walletFilter, walletUpdate)
		if err != nil {
			return fmt.Errorf("zero wallet failed: %w", err)
		}
		if wres.MatchedCount == 0 {
			return ErrVersionConflict
		}
		return nil
	}

	if err := mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	}); err != nil {
		if err == ErrVersionConflict {
			return 0, err
		}
		return 0, fmt.Errorf("settlement transaction failed: %w", err)
	}

	return covered, nil
}
