// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/maisonheirbloom/storefront-api/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrProductNotFound is returned when a product lookup misses
var ErrProductNotFound = errors.New("product not found")

// ErrRecipeNotFound is returned when a recipe lookup misses
var ErrRecipeNotFound = errors.New("recipe not found")

// Service handles catalog reads over the document store
type Service struct {
	products *mongo.Collection
	recipes  *mongo.Collection
	config   *config.Config
}

// NewService creates a new catalog service
func NewService(db *mongo.Database, cfg *config.Config) *Service {
	return &Service{
		products: db.Collection("products"),
		recipes:  db.Collection("recipes"),
		config:   cfg,
	}
}

// ListProducts returns active products, optionally filtered by category
func (s *Service) ListProducts(ctx context.Context, category string, limit int64) ([]Product, error) {
	filter := bson.M{"active": true}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.products.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	var items []Product
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return items, nil
}

// GetProductBySlug returns a single active product by slug
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (*Product, error) {
	var p Product
	err := s.products.FindOne(ctx, bson.M{"slug": slug, "active": true}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// ResolveProduct returns a product matched by id or slug. Cart bodies carry a
// variantId that may be either form.
func (s *Service) ResolveProduct(ctx context.Context, idOrSlug string) (*Product, error) {
	var p Product
	filter := bson.M{
		"active": true,
		"$or":    []bson.M{{"_id": idOrSlug}, {"slug": idOrSlug}},
	}
	err := s.products.FindOne(ctx, filter).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to resolve product: %w", err)
	}
	return &p, nil
}

// ListRecipes returns active recipes
func (s *Service) ListRecipes(ctx context.Context, limit int64) ([]Recipe, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := s.recipes.Find(ctx, bson.M{"active": true}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer cursor.Close(ctx)

	var items []Recipe
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode recipes: %w", err)
	}

	return items, nil
}

// GetRecipeBySlug returns a single active recipe by slug
func (s *Service) GetRecipeBySlug(ctx context.Context, slug string) (*Recipe, error) {
	var r Recipe
	err := s.recipes.FindOne(ctx, bson.M{"slug": slug, "active": true}).Decode(&r)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRecipeNotFound
		}
		return nil, fmt.Errorf("failed to get recipe: %w", err)
	}
	return &r, nil
}

// ListCategories returns the distinct categories present in the catalog
func (s *Service) ListCategories(ctx context.Context) ([]string, error) {
	values, err := s.products.Distinct(ctx, "category", bson.M{"active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	categories := make([]string, 0, len(values))
	for _, v := range values {
		if c, ok := v.(string); ok {
			categories = append(categories, c)
		}
	}

	return categories, nil
}

// CreateIndexes creates catalog indexes
func (s *Service) CreateIndexes(ctx context.Context) error {
	productIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "category", Value: 1}, {Key: "active", Value: 1}},
		},
	}
	if _, err := s.products.Indexes().CreateMany(ctx, productIndexes); err != nil {
		return fmt.Errorf("failed to create product indexes: %w", err)
	}

	recipeIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	if _, err := s.recipes.Indexes().CreateMany(ctx, recipeIndexes); err != nil {
		return fmt.Errorf("failed to create recipe indexes: %w", err)
	}

	return nil
}

// SeedCatalog inserts the default catalog when the collection is empty
func (s *Service) SeedCatalog(ctx context.Context) error {
	count, err := s.products.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}

	now := time.Now().UTC()
	seed := make([]interface{}, 0, len(defaultProducts))
	for _, p := range defaultProducts {
		p.CreatedAt = now
		p.UpdatedAt = now
		seed = append(seed, p)
	}

	if _, err := s.products.InsertMany(ctx, seed); err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}

	recipeCount, err := s.recipes.CountDocuments(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to count recipes: %w", err)
	}
	if recipeCount > 0 {
		return nil
	}

	recipeSeed := make([]interface{}, 0, len(defaultRecipes))
	for _, r := range defaultRecipes {
		r.CreatedAt = now
		r.UpdatedAt = now
		recipeSeed = append(recipeSeed, r)
	}

	if _, err := s.recipes.InsertMany(ctx, recipeSeed); err != nil {
		return fmt.Errorf("failed to seed recipes: %w", err)
	}

	return nil
}

// defaultProducts is the built-in catalog used until real inventory is loaded
var defaultProducts = []Product{
	{
		ID:              "p_1001",
		Name:            "Sourdough Starter",
		Slug:            "sourdough-starter",
		Price:           19.99,
		DiscountedPrice: 14.99,
		Currency:        "CAD",
		Image:           "/starter.jpg",
		Images:          []string{"/starter.jpg"},
		Category:        "products",
		Description:     "Premium sourdough starter for making artisan bread.",
		Ingredients:     "Organic flour, water, wild yeast culture",
		WeightGrams:     50,
		BestSeller:      true,
		InStock:         true,
		Active:          true,
	},
	{
		ID:          "p_1002",
		Name:        "Basic Sourdough Guide",
		Slug:        "basic-sourdough-guide",
		Price:       19.99,
		Currency:    "CAD",
		Image:       "/guide.jpg",
		Images:      []string{"/guide.jpg"},
		Category:    "products",
		Description: "Complete step-by-step guide for sourdough beginners.",
		WeightGrams: 120,
		InStock:     true,
		Active:      true,
	},
	{
		ID:          "p_1003",
		Name:        "Advanced Techniques Manual",
		Slug:        "advanced-techniques-manual",
		Price:       29.99,
		Currency:    "CAD",
		Image:       "/manual.jpg",
		Images:      []string{"/manual.jpg"},
		Category:    "products",
		Description: "Master advanced sourdough techniques and troubleshooting.",
		WeightGrams: 180,
		InStock:     true,
		Active:      true,
	},
	{
		ID:          "p_1004",
		Name:        "Pizza Dough Kit",
		Slug:        "pizza-dough-kit",
		Price:       39.99,
		Currency:    "CAD",
		Image:       "/pizza-kit.jpg",
		Images:      []string{"/pizza-kit.jpg"},
		Category:    "products",
		Description: "Everything you need for perfect sourdough pizza.",
		WeightGrams: 350,
		InStock:     true,
		Active:      true,
	},
}

var defaultRecipes = []Recipe{
	{
		ID:          "r_2001",
		Name:        "Classic Country Loaf",
		Slug:        "classic-country-loaf",
		Image:       "/country-loaf.jpg",
		Images:      []string{"/country-loaf.jpg"},
		Category:    "recipes",
		Description: "An everyday open-crumb loaf built on an overnight levain.",
		Active:      true,
	},
	{
		ID:          "r_2002",
		Name:        "Sourdough Pizza Base",
		Slug:        "sourdough-pizza-base",
		Image:       "/pizza-base.jpg",
		Images:      []string{"/pizza-base.jpg"},
		Category:    "recipes",
		Description: "Naturally leavened pizza dough with a 48 hour cold ferment.",
		Active:      true,
	},
}
