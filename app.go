package main

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type App struct {
	cfg         Config
	mongo       *mongo.Client
	db          *mongo.Database
	users       *mongo.Collection
	fields      *mongo.Collection
	predictions *mongo.Collection
	events      *mongo.Collection
	analyses    *mongo.Collection
	tasks       *mongo.Collection
	soil        *mongo.Collection

	weather *WeatherClient
	advisor *Advisor
}

func newApp(ctx context.Context, cfg Config) (*App, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.MongoDB)

	advisor, err := newAdvisor(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:         cfg,
		mongo:       client,
		db:          db,
		users:       db.Collection("users"),
		fields:      db.Collection("fields"),
		predictions: db.Collection("irrigation_predictions"),
		events:      db.Collection("irrigation_events"),
		analyses:    db.Collection("crop_analyses"),
		tasks:       db.Collection("tasks"),
		soil:        db.Collection("soil_health"),
		weather:     newWeatherClient(cfg.GeocodingURL, cfg.ForecastURL, cfg.ReverseGeocodeURL),
		advisor:     advisor,
	}

	// Indexes
	if _, err := app.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return nil, err
	}
	if _, err := app.fields.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return nil, err
	}
	if _, err := app.events.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "date", Value: -1}},
	}); err != nil {
		return nil, err
	}
	if _, err := app.analyses.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return nil, err
	}
	if _, err := app.tasks.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	}); err != nil {
		return nil, err
	}
	if _, err := app.soil.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "ownerId", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) close(ctx context.Context) { _ = a.mongo.Disconnect(ctx) }
