package services_test

import (
	"context"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/priyamehta/aarohi/app/models"
	"github.com/priyamehta/aarohi/app/services"
)

// dupKeyErr mimics the error shape the driver returns when a unique index
// rejects a write; mongo.IsDuplicateKeyError recognises code 11000.
func dupKeyErr() error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
}

// ── fakeProducts ──────────────────────────────────────────────────────────────

type fakeProducts struct {
	byID map[primitive.ObjectID]*models.Product

	// canned Search response and the last plan it received
	searchResult []models.Product
	searchTotal  int64
	lastPlan     *services.QueryPlan

	// fail the next N inserts with a duplicate-key error
	dupInserts  int
	insertCalls int
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{byID: map[primitive.ObjectID]*models.Product{}}
}

func (f *fakeProducts) add(p models.Product) *models.Product {
	cp := p
	f.byID[cp.ID] = &cp
	return &cp
}

func (f *fakeProducts) Search(_ context.Context, plan services.QueryPlan) ([]models.Product, int64, error) {
	f.lastPlan = &plan
	return f.searchResult, f.searchTotal, nil
}

func (f *fakeProducts) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProducts) FindActiveBySlug(_ context.Context, slug string) (*models.Product, error) {
	for _, p := range f.byID {
		if p.Slug == slug && p.IsActive {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProducts) SlugExists(_ context.Context, slug string, exclude primitive.ObjectID) (bool, error) {
	for _, p := range f.byID {
		if p.Slug == slug && p.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProducts) SKUExists(_ context.Context, sku string, exclude primitive.ObjectID) (bool, error) {
	for _, p := range f.byID {
		if strings.EqualFold(p.SKU, sku) && p.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeProducts) Insert(_ context.Context, p *models.Product) error {
	f.insertCalls++
	if f.dupInserts > 0 {
		f.dupInserts--
		return dupKeyErr()
	}
	cp := *p
	f.byID[cp.ID] = &cp
	return nil
}

func (f *fakeProducts) Replace(_ context.Context, p *models.Product) error {
	cp := *p
	f.byID[cp.ID] = &cp
	return nil
}

func (f *fakeProducts) SetReviews(_ context.Context, id primitive.ObjectID, reviews []models.Review, rating float64, numReviews int) error {
	p := f.byID[id]
	p.Reviews = reviews
	p.Rating = rating
	p.NumReviews = numReviews
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeProducts) CountByCategory(_ context.Context, categoryID primitive.ObjectID) (int64, error) {
	var n int64
	for _, p := range f.byID {
		if p.Category == categoryID {
			n++
		}
	}
	return n, nil
}

func (f *fakeProducts) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) (*models.Product, error) {
	p, ok := f.byID[id]
	if !ok || p.Stock < qty {
		return nil, nil
	}
	p.Stock -= qty
	cp := *p
	return &cp, nil
}

// ── fakeCategories ────────────────────────────────────────────────────────────

type fakeCategories struct {
	byID map[primitive.ObjectID]*models.Category
}

func newFakeCategories() *fakeCategories {
	return &fakeCategories{byID: map[primitive.ObjectID]*models.Category{}}
}

func (f *fakeCategories) add(c models.Category) *models.Category {
	cp := c
	f.byID[cp.ID] = &cp
	return &cp
}

func (f *fakeCategories) List(_ context.Context, activeOnly bool) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.byID {
		if !activeOnly || c.IsActive {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (f *fakeCategories) FindByID(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	c, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	for _, c := range f.byID {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) NameExists(_ context.Context, name string, exclude primitive.ObjectID) (bool, error) {
	for _, c := range f.byID {
		if strings.EqualFold(c.Name, name) && c.ID != exclude {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategories) Insert(_ context.Context, c *models.Category) error {
	cp := *c
	f.byID[cp.ID] = &cp
	return nil
}

func (f *fakeCategories) Replace(_ context.Context, c *models.Category) error {
	cp := *c
	f.byID[cp.ID] = &cp
	return nil
}

func (f *fakeCategories) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(f.byID, id)
	return nil
}

// ── fakeUsers ─────────────────────────────────────────────────────────────────

type fakeUsers struct {
	byID map[primitive.ObjectID]*models.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[primitive.ObjectID]*models.User{}}
}

func (f *fakeUsers) add(u models.User) *models.User {
	cp := u
	f.byID[cp.ID] = &cp
	return &cp
}

func (f *fakeUsers) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if u, ok := f.byID[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) Insert(_ context.Context, u *models.User) error {
	cp := *u
	f.byID[cp.ID] = &cp
	return nil
}

func (f *fakeUsers) Replace(_ context.Context, u *models.User) error {
	cp := *u
	f.byID[cp.ID] = &cp
	return nil
}

// ── fakeOrders ────────────────────────────────────────────────────────────────

type fakeOrders struct {
	byID map[primitive.ObjectID]*models.Order
}

func newFakeOrders() *fakeOrders {
	return &fakeOrders{byID: map[primitive.ObjectID]*models.Order{}}
}

func (f *fakeOrders) Insert(_ context.Context, o *models.Order) error {
	cp := *o
	f.byID[cp.ID] = &cp
	return nil
}

func (f *fakeOrders) FindByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	o, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrders) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.byID {
		if o.User == userID {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeOrders) List(_ context.Context) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.byID {
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeOrders) SetStatus(_ context.Context, id primitive.ObjectID, status string) error {
	f.byID[id].Status = status
	return nil
}
