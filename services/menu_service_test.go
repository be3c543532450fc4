package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/restaurant-booking/models"
)

func boolPtr(v bool) *bool { return &v }

func TestMenuCategories(t *testing.T) {
	items := []models.MenuItem{{Category: "Main"}, {Category: "Dessert"}, {Category: "Main"}, {Category: "Drink"}}
	assert.Equal(t, []string{"All", "Dessert", "Drink", "Main"}, MenuCategories(items))
	assert.Equal(t, []string{"All"}, MenuCategories(nil))
}

func TestPublicMenuHidesUnavailableAndCaches(t *testing.T) {
	svc := NewMenuService(setupTestDB(t))

	_, err := svc.Create(bg, MenuInput{Name: "Tiramisu", Category: "Dessert", Price: 6.499})
	assert.NoError(t, err)
	pasta, _ := svc.Create(bg, MenuInput{Name: "Carbonara", Category: "Main", Price: 14})
	svc.Create(bg, MenuInput{Name: "Secret", Category: "Main", Price: 1, IsAvailable: boolPtr(false)})

	menu, err := svc.Public(bg)
	assert.NoError(t, err)
	assert.Equal(t, []string{"All", "Dessert", "Main"}, menu.Categories)
	assert.Len(t, menu.Items, 2)
	assert.Equal(t, "Tiramisu", menu.Items[0].Name)
	assert.Equal(t, 6.5, menu.Items[0].Price)

	// a write drops the cached view
	_, err = svc.Update(bg, pasta.ID, MenuInput{Name: "Carbonara", Category: "Main", Price: 15, IsAvailable: boolPtr(false)})
	assert.NoError(t, err)
	menu, _ = svc.Public(bg)
	assert.Len(t, menu.Items, 1)

	all, _ := svc.List(bg)
	assert.Len(t, all, 3)
}

func TestMenuUpdateKeepsAvailabilityAndDelete(t *testing.T) {
	svc := NewMenuService(setupTestDB(t))
	item, _ := svc.Create(bg, MenuInput{Name: "Soup", Category: "Starter", Price: 5})

	updated, err := svc.Update(bg, item.ID, MenuInput{Name: "Soup of the day", Category: "Starter", Price: 5.5})
	assert.NoError(t, err)
	assert.True(t, updated.IsAvailable)

	assert.NoError(t, svc.Delete(bg, item.ID))
	assert.ErrorIs(t, svc.Delete(bg, item.ID), ErrNotFound)

	_, err = svc.Create(bg, MenuInput{Name: "Free?", Category: "Main", Price: -1})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
