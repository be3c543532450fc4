package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-booking/cache"
	"github.com/yeremiapane/restaurant-booking/events"
	"github.com/yeremiapane/restaurant-booking/models"
	"github.com/yeremiapane/restaurant-booking/utils"
	"gorm.io/gorm"
)

// CategoryAll is the catch-all tab shown before the real categories.
const CategoryAll = "All"

type MenuInput struct {
	Name        string  `json:"name" binding:"required" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Category    string  `json:"category" binding:"required" validate:"required"`
	ImageURL    *string `json:"image_url"`
	IsAvailable *bool   `json:"is_available"`
}

type PublicMenu struct {
	Categories []string          `json:"categories"`
	Items      []models.MenuItem `json:"items"`
}

type MenuService struct {
	DB       *gorm.DB
	Cache    cache.Store
	Events   events.Publisher
	CacheTTL time.Duration
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{DB: db, Cache: cache.NewMemory(), Events: events.Noop{}, CacheTTL: time.Minute}
}

// Public returns the available items and the category tabs, All first.
func (s *MenuService) Public(ctx context.Context) (*PublicMenu, error) {
	if raw, ok, err := s.Cache.Get(ctx, cache.KeyPublicMenu); err == nil && ok {
		var cached PublicMenu
		if json.Unmarshal([]byte(raw), &cached) == nil {
			return &cached, nil
		}
	}

	var items []models.MenuItem
	if err := s.DB.WithContext(ctx).
		Where("is_available = ?", true).
		Order("category ASC").
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}

	menu := &PublicMenu{Categories: MenuCategories(items), Items: items}
	if raw, err := json.Marshal(menu); err == nil {
		if err := s.Cache.Set(ctx, cache.KeyPublicMenu, string(raw), s.CacheTTL); err != nil {
			utils.ErrorLogger.Printf("Error caching menu: %v", err)
		}
	}
	return menu, nil
}

// MenuCategories returns the distinct sorted categories with CategoryAll prepended.
func MenuCategories(items []models.MenuItem) []string {
	seen := make(map[string]bool)
	var cats []string
	for _, item := range items {
		if item.Category == "" || seen[item.Category] {
			continue
		}
		seen[item.Category] = true
		cats = append(cats, item.Category)
	}
	sort.Strings(cats)
	return append([]string{CategoryAll}, cats...)
}

func (s *MenuService) List(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.DB.WithContext(ctx).Order("category ASC").Order("name ASC").Find(&items).Error
	return items, err
}

func (s *MenuService) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.DB.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (s *MenuService) Create(ctx context.Context, in MenuInput) (*models.MenuItem, error) {
	in = normalizeMenu(in)
	if err := validate(in); err != nil {
		return nil, err
	}
	item := models.MenuItem{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Category:    in.Category,
		ImageURL:    in.ImageURL,
		IsAvailable: in.IsAvailable == nil || *in.IsAvailable,
	}
	if err := s.DB.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	s.changed(ctx, item.ID, "created")
	return &item, nil
}

// Update replaces the editable fields. A nil IsAvailable keeps the current flag.
func (s *MenuService) Update(ctx context.Context, id string, in MenuInput) (*models.MenuItem, error) {
	in = normalizeMenu(in)
	if err := validate(in); err != nil {
		return nil, err
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Name = in.Name
	item.Description = in.Description
	item.Price = in.Price
	item.Category = in.Category
	item.ImageURL = in.ImageURL
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if err := s.DB.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	s.changed(ctx, item.ID, "updated")
	return item, nil
}

func (s *MenuService) Delete(ctx context.Context, id string) error {
	item, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.DB.WithContext(ctx).Delete(item).Error; err != nil {
		return err
	}
	s.changed(ctx, id, "deleted")
	return nil
}

func (s *MenuService) changed(ctx context.Context, id, what string) {
	utils.InfoLogger.WithFields(logrus.Fields{"menu_item_id": id}).Printf("Menu item %s", what)
	if err := s.Cache.DeletePrefix(ctx, cache.PrefixMenu); err != nil {
		utils.ErrorLogger.Printf("Error invalidating menu cache: %v", err)
	}
	if err := s.Events.Publish(ctx, events.EventMenuChanged, id, map[string]string{"menu_item_id": id, "change": what}); err != nil {
		utils.ErrorLogger.Printf("Error publishing %s: %v", events.EventMenuChanged, err)
	}
}

func normalizeMenu(in MenuInput) MenuInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Price = math.Round(in.Price*100) / 100
	if in.ImageURL != nil && strings.TrimSpace(*in.ImageURL) == "" {
		in.ImageURL = nil
	}
	return in
}
