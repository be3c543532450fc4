package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-booking/services"
	"github.com/yeremiapane/restaurant-booking/storage"
	"github.com/yeremiapane/restaurant-booking/utils"
)

// menuBucket is the upload folder for dish photos.
const menuBucket = "menu_images"

type MenuController struct {
	Menu     *services.MenuService
	Store    storage.ObjectStore
	MaxBytes int64
}

func NewMenuController(menu *services.MenuService, store storage.ObjectStore, maxBytes int64) *MenuController {
	return &MenuController{Menu: menu, Store: store, MaxBytes: maxBytes}
}

// GetPublicMenu lists available dishes with the category tabs.
func (mc *MenuController) GetPublicMenu(c *gin.Context) {
	menu, err := mc.Menu.Public(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", menu)
}

func (mc *MenuController) GetAllMenus(c *gin.Context) {
	items, err := mc.Menu.List(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of menus", items)
}

func (mc *MenuController) GetMenuByID(c *gin.Context) {
	item, err := mc.Menu.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu detail", item)
}

func (mc *MenuController) CreateMenu(c *gin.Context) {
	var input services.MenuInput
	if !bindJSON(c, &input) {
		return
	}
	item, err := mc.Menu.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Menu created", item)
}

func (mc *MenuController) UpdateMenu(c *gin.Context) {
	var input services.MenuInput
	if !bindJSON(c, &input) {
		return
	}
	item, err := mc.Menu.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", item)
}

func (mc *MenuController) DeleteMenu(c *gin.Context) {
	if err := mc.Menu.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", nil)
}

// UploadImage stores one image from the "image" form field and returns its public URL.
func (mc *MenuController) UploadImage(c *gin.Context) {
	if mc.MaxBytes > 0 {
		// multipart overhead on top of the file itself
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, mc.MaxBytes+1<<20)
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("image file is required"))
		return
	}
	if !storage.AllowedImage(file.Filename) {
		respondServiceError(c, storage.ErrUnsupportedType)
		return
	}

	src, err := file.Open()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	defer src.Close()

	url, err := mc.Store.Put(c.Request.Context(), menuBucket, file.Filename, src)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Menu image uploaded: %s", url)
	utils.RespondJSON(c, http.StatusCreated, "Image uploaded", gin.H{"url": url})
}
