// Package mongo stores snapshots as one document per record
// in the foods and meals collections of a MongoDB database.
package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jd-116/fooddb/db"
	"github.com/jd-116/fooddb/env"
	"github.com/jd-116/fooddb/types"
)

const (
	foodsCollection = "foods"
	mealsCollection = "meals"
)

// Provider implements a snapshot provider against MongoDB
type Provider struct {
	connectionURI string
	databaseName  string
	logger        zerolog.Logger
	client        *mongo.Client
}

// NewProvider creates a new provider and loads values in from the environment
func NewProvider(logger zerolog.Logger) (*Provider, error) {
	connectionURI, err := env.GetEnv("database connection URI", "MONGO_DB_URI")
	if err != nil {
		return nil, err
	}

	dbName, err := env.GetEnv("database name", "MONGO_DB_NAME")
	if err != nil {
		return nil, err
	}

	return &Provider{
		connectionURI: connectionURI,
		databaseName:  dbName,
		logger:        logger,
		client:        nil,
	}, nil
}

// Connect connects to and pings the primary, then creates the indices
func (p *Provider) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(p.connectionURI))
	if err != nil {
		return err
	}

	// Ping the primary
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return err
	}

	p.client = client

	// Initialize any collections/indices
	err = p.initialize(ctx)
	if err != nil {
		return err
	}

	return nil
}

// Disconnect closes the client
func (p *Provider) Disconnect(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	return p.client.Disconnect(ctx)
}

// Create anything needed for the database,
// like indices
func (p *Provider) initialize(ctx context.Context) error {
	p.logger.Info().Str("database", p.databaseName).Msg("initializing the MongoDB database")

	for _, collection := range []*mongo.Collection{p.foods(), p.meals()} {
		_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    bson.M{"id": 1},
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return errors.Wrapf(err, "create id index on %s", collection.Name())
		}
	}

	return nil
}

func (p *Provider) foods() *mongo.Collection {
	return p.client.Database(p.databaseName).Collection(foodsCollection)
}

func (p *Provider) meals() *mongo.Collection {
	return p.client.Database(p.databaseName).Collection(mealsCollection)
}

// Load reads both collections, sorted by id
func (p *Provider) Load(ctx context.Context) (*types.Snapshot, error) {
	var foods []types.Food
	if err := findAllSorted(ctx, p.foods(), &foods); err != nil {
		return nil, errors.Wrap(err, "load foods")
	}

	var meals []types.Meal
	if err := findAllSorted(ctx, p.meals(), &meals); err != nil {
		return nil, errors.Wrap(err, "load meals")
	}

	if len(foods) == 0 && len(meals) == 0 {
		return nil, db.NewNoSnapshotError("mongodb database " + p.databaseName)
	}

	// Return non-nil slices so the store and JSON serialization are nice
	if foods == nil {
		foods = []types.Food{}
	}
	if meals == nil {
		meals = []types.Meal{}
	}
	for i := range foods {
		if foods[i].Ingredients == nil {
			foods[i].Ingredients = []types.Ingredient{}
		}
	}
	for i := range meals {
		if meals[i].Foods == nil {
			meals[i].Foods = []types.Ingredient{}
		}
	}

	return &types.Snapshot{Foods: foods, Meals: meals}, nil
}

func findAllSorted(ctx context.Context, collection *mongo.Collection, results interface{}) error {
	opts := options.Find()
	opts.SetSort(bson.D{{Key: "id", Value: 1}})
	cursor, err := collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return err
	}

	return cursor.All(ctx, results)
}

// Save replaces the contents of both collections with the snapshot
func (p *Provider) Save(ctx context.Context, snapshot types.Snapshot) error {
	foods := make([]interface{}, len(snapshot.Foods))
	for i, food := range snapshot.Foods {
		foods[i] = food
	}
	if err := replaceAll(ctx, p.foods(), foods); err != nil {
		return errors.Wrap(err, "save foods")
	}

	meals := make([]interface{}, len(snapshot.Meals))
	for i, meal := range snapshot.Meals {
		meals[i] = meal
	}
	if err := replaceAll(ctx, p.meals(), meals); err != nil {
		return errors.Wrap(err, "save meals")
	}

	p.logger.Debug().
		Int("food_count", len(foods)).
		Int("meal_count", len(meals)).
		Msg("saved snapshot to MongoDB")
	return nil
}

// TODO wrap both collections in a session transaction once deployments
// are guaranteed to run as a replica set
func replaceAll(ctx context.Context, collection *mongo.Collection, documents []interface{}) error {
	if _, err := collection.DeleteMany(ctx, bson.D{}); err != nil {
		return err
	}

	// InsertMany rejects an empty document list
	if len(documents) == 0 {
		return nil
	}

	_, err := collection.InsertMany(ctx, documents)
	return err
}
