package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/restaurant/internal/models"
	"github.com/Skotchmaster/restaurant/internal/storage"
	"github.com/Skotchmaster/restaurant/pkg/events"
)

type mockImages struct {
	mock.Mock
}

func (m *mockImages) Save(ctx context.Context, filename string, r io.Reader, size int64) (string, error) {
	args := m.Called(ctx, filename, r, size)
	return args.String(0), args.Error(1)
}

func (m *mockImages) Delete(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

func TestDisplayCategory(t *testing.T) {
	assert.Equal(t, "Coffee-based", DisplayCategory("Coffee Based"))
	assert.Equal(t, "Coffee-based", DisplayCategory("Coffee-based"))
	assert.Equal(t, "Beer & Liquor", DisplayCategory("Beer & Liquour"))
	assert.Equal(t, "Soda & Juice", DisplayCategory("Soda & Juice in Can"))
	assert.Equal(t, "Marinduque Pinoy Dishes", DisplayCategory("Marinduque & Pinoy Dishes"))
	assert.Equal(t, Uncategorized, DisplayCategory("  "))
	assert.Equal(t, "Desserts", DisplayCategory("Desserts"))
}

func TestMenu_GroupsAvailableProducts(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)

	mk := func(name, cat, sub string, available bool) {
		f := false
		in := ProductInput{Name: name, Price: "3.00", Category: cat, Subcategory: sub}
		if !available {
			in.Available = &f
		}
		_, err := e.catalog.CreateProduct(ctx, in, nil)
		require.NoError(t, err)
	}
	mk("Latte", "Drinks", "Coffee Based", true)
	mk("Americano", "Drinks", "Coffee-based", true)
	mk("San Miguel", "Drinks", "Beer & Liquour", true)
	mk("Kare-kare", "Food", "", true)
	mk("Hidden", "Food", "Mains", false)

	sections, err := e.catalog.Menu(ctx)
	require.NoError(t, err)

	names := make([]string, 0, len(sections))
	for _, s := range sections {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"Beer & Liquor", "Coffee-based", Uncategorized}, names)
	require.Len(t, sections[1].Items, 2)
	// "Coffee Based" sorts before "Coffee-based", so Latte leads
	assert.Equal(t, "Latte", sections[1].Items[0].Name)
	assert.Equal(t, "Americano", sections[1].Items[1].Name)
}

func TestCreateProduct_ValidatesAndStoresImage(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	images := &mockImages{}
	e.catalog.Images = images

	_, err := e.catalog.CreateProduct(ctx, ProductInput{Name: "x", Price: "-1", Category: "Food"}, nil)
	require.ErrorIs(t, err, ErrValidation)
	_, err = e.catalog.CreateProduct(ctx, ProductInput{Name: "x", Price: "abc", Category: "Food"}, nil)
	require.ErrorIs(t, err, ErrValidation)
	_, err = e.catalog.CreateProduct(ctx, ProductInput{Price: "1", Category: "Food"}, nil)
	require.ErrorIs(t, err, ErrValidation)

	body := strings.NewReader("img")
	images.On("Save", mock.Anything, "lumpia.png", body, int64(3)).Return("/static/uploads/abc.png", nil).Once()
	p, err := e.catalog.CreateProduct(ctx,
		ProductInput{Name: "Lumpia", Price: "4.5", Category: "Food", Subcategory: "Starters"},
		&Upload{Filename: "lumpia.png", Size: 3, Body: body})
	require.NoError(t, err)
	assert.Equal(t, "/static/uploads/abc.png", p.ImageURL)
	assert.Equal(t, "4.50", p.Price.StringFixed(2))
	assert.True(t, p.Available)

	images.On("Save", mock.Anything, "notes.txt", mock.Anything, int64(1)).Return("", storage.ErrUnsupportedType).Once()
	_, err = e.catalog.CreateProduct(ctx,
		ProductInput{Name: "Bad", Price: "1", Category: "Food"},
		&Upload{Filename: "notes.txt", Size: 1, Body: strings.NewReader("x")})
	require.ErrorIs(t, err, ErrValidation)

	images.AssertExpectations(t)
	require.NotEmpty(t, e.events.Events)
	ev, ok := e.events.Events[0].Event.(events.ProductEvent)
	require.True(t, ok)
	assert.Equal(t, events.ProductCreated, ev.Type)
}

func TestUpdateProduct_ReplacesImage(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	images := &mockImages{}
	e.catalog.Images = images

	old := "/static/uploads/old.png"
	p, err := e.catalog.CreateProduct(ctx, ProductInput{Name: "Pancit", Price: "6", Category: "Food", ImageURL: old}, nil)
	require.NoError(t, err)

	images.On("Save", mock.Anything, "new.jpg", mock.Anything, int64(2)).Return("/static/uploads/new.jpg", nil).Once()
	images.On("Delete", mock.Anything, old).Return(nil).Once()

	name := "Pancit Canton"
	got, err := e.catalog.UpdateProduct(ctx, p.ID, ProductPatch{Name: &name},
		&Upload{Filename: "new.jpg", Size: 2, Body: strings.NewReader("jp")})
	require.NoError(t, err)
	assert.Equal(t, "Pancit Canton", got.Name)
	assert.Equal(t, "/static/uploads/new.jpg", got.ImageURL)
	images.AssertExpectations(t)

	_, err = e.catalog.UpdateProduct(ctx, 9999, ProductPatch{Name: &name}, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestToggleAvailability(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	p := e.product42(t)

	got, err := e.catalog.ToggleAvailability(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.Available)

	var stored models.Product
	require.NoError(t, e.db.First(&stored, p.ID).Error)
	assert.False(t, stored.Available)

	got, err = e.catalog.ToggleAvailability(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.Available)
}

func TestSearchMenu_DatabaseEngine(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t, tuesday2pm)
	_, err := e.catalog.CreateProduct(ctx, ProductInput{Name: "Bulalo", Description: "Beef marrow soup", Price: "9", Category: "Food"}, nil)
	require.NoError(t, err)
	_, err = e.catalog.CreateProduct(ctx, ProductInput{Name: "Sinigang", Description: "Sour tamarind SOUP", Price: "8", Category: "Food"}, nil)
	require.NoError(t, err)
	_, err = e.catalog.CreateProduct(ctx, ProductInput{Name: "Leche flan", Description: "custard", Price: "3", Category: "Dessert"}, nil)
	require.NoError(t, err)

	res, err := e.catalog.SearchMenu(ctx, "soup", 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, res.Total)

	res, err = e.catalog.SearchMenu(ctx, "100%", 0, 10)
	require.NoError(t, err)
	assert.Zero(t, res.Total)
}
