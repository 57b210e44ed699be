package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/repo"
	"github.com/Skotchmaster/restaurant/internal/search"
	"github.com/Skotchmaster/restaurant/internal/storage"
	"github.com/Skotchmaster/restaurant/pkg/events"
	"github.com/Skotchmaster/restaurant/pkg/logging"
)

const Uncategorized = "Uncategorized"

// displayCategory maps legacy subcategory spellings onto the names shown on the menu.
var displayCategory = map[string]string{
	"Coffee Based":              "Coffee-based",
	"Marinduque & Pinoy Dishes": "Marinduque Pinoy Dishes",
	"Beer & Liquour":            "Beer & Liquor",
	"Soda & Juice in Can":       "Soda & Juice",
}

func DisplayCategory(subcategory string) string {
	sub := strings.TrimSpace(subcategory)
	if sub == "" {
		return Uncategorized
	}
	if name, ok := displayCategory[sub]; ok {
		return name
	}
	return sub
}

type MenuSection struct {
	Name  string           `json:"name"`
	Items []models.Product `json:"items"`
}

type CatalogService struct {
	Repo   *repo.GormRepo
	Search search.Engine
	Images storage.Store
	Events events.Publisher
	Now    func() time.Time
}

func (s *CatalogService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Menu groups available products by display category. Sections keep the
// order in which their first product appears.
func (s *CatalogService) Menu(ctx context.Context) ([]MenuSection, error) {
	products, err := s.Repo.ListAvailableProducts(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var sections []MenuSection
	for _, p := range products {
		name := DisplayCategory(p.Subcategory)
		i, ok := index[name]
		if !ok {
			i = len(sections)
			index[name] = i
			sections = append(sections, MenuSection{Name: name})
		}
		sections[i].Items = append(sections[i].Items, p)
	}
	return sections, nil
}

func (s *CatalogService) SearchMenu(ctx context.Context, q string, offset, limit int) (search.Results, error) {
	return s.Search.Search(ctx, q, offset, limit)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	return s.Repo.ListProducts(ctx)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, notFound(err, "Product not found")
	}
	return p, nil
}

// Upload is an image attached to a product form.
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type ProductInput struct {
	Name        string
	Description string
	Price       string
	Category    string
	Subcategory string
	Variant     string
	ImageURL    string
	Available   *bool
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, validationf("Price must be a number")
	}
	if price.IsNegative() {
		return decimal.Decimal{}, validationf("Price must not be negative")
	}
	return price.Round(2), nil
}

func (s *CatalogService) storeImage(ctx context.Context, up *Upload) (string, error) {
	if up == nil || up.Filename == "" {
		return "", nil
	}
	if s.Images == nil {
		return "", errors.New("image storage is not configured")
	}
	url, err := s.Images.Save(ctx, up.Filename, up.Body, up.Size)
	if errors.Is(err, storage.ErrUnsupportedType) {
		return "", validationf("Image must be a jpg, png, gif or webp file")
	}
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput, up *Upload) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	if in.Name == "" || in.Category == "" || strings.TrimSpace(in.Price) == "" {
		return nil, validationf("Name, price and category are required")
	}
	price, err := parsePrice(in.Price)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, up)
	if err != nil {
		return nil, err
	}
	if imageURL == "" {
		imageURL = strings.TrimSpace(in.ImageURL)
	}

	available := true
	if in.Available != nil {
		available = *in.Available
	}
	prod := &models.Product{
		Name:        in.Name,
		Description: strings.TrimSpace(in.Description),
		Price:       price,
		Category:    in.Category,
		Subcategory: strings.TrimSpace(in.Subcategory),
		Variant:     strings.TrimSpace(in.Variant),
		ImageURL:    imageURL,
		Available:   available,
	}
	if _, err := s.Repo.CreateProduct(ctx, prod); err != nil {
		return nil, err
	}
	// gorm skips the zero value when a column has a default
	if !available {
		prod.Available = false
		if err := s.Repo.SaveProduct(ctx, prod); err != nil {
			return nil, err
		}
	}

	l.Info("product_created", "product_id", prod.ID)
	s.productChanged(ctx, events.ProductCreated, *prod)
	return prod, nil
}

// ProductPatch carries the fields an update form may change; nil means keep.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *string
	Category    *string
	Subcategory *string
	Variant     *string
	ImageURL    *string
	Available   *bool
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, in ProductPatch, up *Upload) (*models.Product, error) {
	prod, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, validationf("Name must not be empty")
		}
		prod.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		prod.Description = strings.TrimSpace(*in.Description)
	}
	if in.Price != nil {
		price, err := parsePrice(*in.Price)
		if err != nil {
			return nil, err
		}
		prod.Price = price
	}
	if in.Category != nil {
		if strings.TrimSpace(*in.Category) == "" {
			return nil, validationf("Category must not be empty")
		}
		prod.Category = strings.TrimSpace(*in.Category)
	}
	if in.Subcategory != nil {
		prod.Subcategory = strings.TrimSpace(*in.Subcategory)
	}
	if in.Variant != nil {
		prod.Variant = strings.TrimSpace(*in.Variant)
	}
	if in.Available != nil {
		prod.Available = *in.Available
	}

	oldImage := prod.ImageURL
	newImage, err := s.storeImage(ctx, up)
	if err != nil {
		return nil, err
	}
	switch {
	case newImage != "":
		prod.ImageURL = newImage
	case in.ImageURL != nil:
		prod.ImageURL = strings.TrimSpace(*in.ImageURL)
	}

	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, err
	}
	if oldImage != "" && oldImage != prod.ImageURL {
		s.dropImage(ctx, oldImage)
	}

	s.productChanged(ctx, events.ProductUpdated, *prod)
	return prod, nil
}

// DeleteProduct removes the product. Order items keep their own copy of
// name and price, so order history is unaffected.
func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	prod, err := s.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return notFound(err, "Product not found")
	}
	if prod.ImageURL != "" {
		s.dropImage(ctx, prod.ImageURL)
	}

	l := logging.FromContext(ctx)
	if err := s.Search.Remove(ctx, id); err != nil {
		l.Warn("search_remove_error", "product_id", id, "error", err)
	}
	s.publish(ctx, events.ProductEvent{
		Type:      events.ProductDeleted,
		ProductID: id,
		Name:      prod.Name,
		At:        s.now(),
	})
	return nil
}

func (s *CatalogService) ToggleAvailability(ctx context.Context, id uint) (*models.Product, error) {
	prod, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	prod.Available = !prod.Available
	if err := s.Repo.SaveProduct(ctx, prod); err != nil {
		return nil, err
	}
	s.productChanged(ctx, events.ProductUpdated, *prod)
	return prod, nil
}

func (s *CatalogService) productChanged(ctx context.Context, kind string, p models.Product) {
	if err := s.Search.Index(ctx, p); err != nil {
		logging.FromContext(ctx).Warn("search_index_error", "product_id", p.ID, "error", err)
	}
	s.publish(ctx, events.ProductEvent{
		Type:      kind,
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price.StringFixed(2),
		Available: p.Available,
		At:        s.now(),
	})
}

func (s *CatalogService) publish(ctx context.Context, ev events.ProductEvent) {
	if s.Events == nil {
		return
	}
	key := fmt.Sprint(ev.ProductID)
	if err := s.Events.PublishEvent(ctx, events.TopicProducts, key, ev); err != nil {
		logging.FromContext(ctx).Warn("publish_error", "topic", events.TopicProducts, "error", err)
	}
}

func (s *CatalogService) dropImage(ctx context.Context, url string) {
	if s.Images == nil {
		return
	}
	if err := s.Images.Delete(ctx, url); err != nil {
		logging.FromContext(ctx).Warn("image_delete_error", "url", url, "error", err)
	}
}
