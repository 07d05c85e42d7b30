package handlers

import (
	"net/http"

	"fooddelight/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type RestaurantRequest struct {
	Name      string              `json:"name" binding:"required,max=100"`
	Address   string              `json:"address" binding:"max=255"`
	Rating    decimal.NullDecimal `json:"rating" binding:"omitempty,gte=0,lte=5"`
	PartnerID *uint               `json:"partner_id"`
}

type MenuItemRequest struct {
	RestID   uint            `json:"rest_id" binding:"required"`
	Name     string          `json:"name" binding:"required,max=100"`
	Price    decimal.Decimal `json:"price" binding:"required,gt=0"`
	Quantity *int            `json:"quantity" binding:"omitempty,gte=0"`
}

type PartnerRequest struct {
	Name   string              `json:"name" binding:"required,max=100"`
	Phone  string              `json:"phone" binding:"required,min=5,max=20"`
	Rating decimal.NullDecimal `json:"rating" binding:"omitempty,gte=0,lte=5"`
}

func (r MenuItemRequest) quantity() int {
	if r.Quantity == nil {
		return models.DefaultMenuItemQuantity
	}
	return *r.Quantity
}

// AdminListRestaurants lists restaurants with their linked partner
func (h *Handler) AdminListRestaurants(c *gin.Context) {
	var list []models.Restaurant
	if err := h.db.WithContext(c.Request.Context()).Preload("Partner").Order("rest_id").Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "restaurants": list})
}

// CreateRestaurant adds a restaurant (admin)
func (h *Handler) CreateRestaurant(c *gin.Context) {
	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r := models.Restaurant{Name: req.Name, Address: req.Address, Rating: req.Rating, PartnerID: req.PartnerID}
	if err := h.db.WithContext(c.Request.Context()).Create(&r).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Restaurant created", "restaurant": r})
}

// UpdateRestaurant replaces a restaurant's fields; an omitted rating or partner clears it
func (h *Handler) UpdateRestaurant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req RestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	db := h.db.WithContext(c.Request.Context())
	var r models.Restaurant
	if err := db.First(&r, id).Error; err != nil {
		respondError(c, err)
		return
	}
	r.Name, r.Address, r.Rating, r.PartnerID = req.Name, req.Address, req.Rating, req.PartnerID
	if err := db.Model(&r).Select("name", "address", "rating", "partner_id").Updates(&r).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Restaurant updated", "restaurant": r})
}

// DeleteRestaurant removes a restaurant and, through the schema, its menu
func (h *Handler) DeleteRestaurant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.deleteByID(c, &models.Restaurant{}, id, "Restaurant deleted")
}

// AdminGetMenu lists every item of a restaurant, including sold-out ones
func (h *Handler) AdminGetMenu(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var items []models.MenuItem
	if err := h.db.WithContext(c.Request.Context()).Where("rest_id = ?", id).Order("item_id").Find(&items).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(items), "menu": items})
}

// AddMenuItem adds a dish; stock defaults to one unit
func (h *Handler) AddMenuItem(c *gin.Context) {
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item := models.MenuItem{RestaurantID: req.RestID, Name: req.Name, Price: req.Price, Quantity: req.quantity()}
	if err := h.db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Menu item added", "item": item})
}

// UpdateMenuItem changes a dish's name, price, stock or restaurant
func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	var req MenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	db := h.db.WithContext(c.Request.Context())
	var item models.MenuItem
	if err := db.First(&item, id).Error; err != nil {
		respondError(c, err)
		return
	}
	item.RestaurantID, item.Name, item.Price = req.RestID, req.Name, req.Price
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}
	if err := db.Model(&item).Select("rest_id", "name", "price", "quantity").Updates(&item).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item updated", "item": item})
}

// DeleteMenuItem removes a dish; order lines referencing it go with it
func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, ok := paramID(c, "itemId")
	if !ok {
		return
	}
	h.deleteByID(c, &models.MenuItem{}, id, "Menu item deleted")
}

// AdminListPartners lists delivery partners
func (h *Handler) AdminListPartners(c *gin.Context) {
	var list []models.DeliveryPartner
	if err := h.db.WithContext(c.Request.Context()).Order("partner_id").Find(&list).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "partners": list})
}

// CreatePartner adds a delivery partner; without a rating it starts unrated
func (h *Handler) CreatePartner(c *gin.Context) {
	var req PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := models.DeliveryPartner{Name: req.Name, Phone: req.Phone, Rating: req.Rating}
	if err := h.db.WithContext(c.Request.Context()).Create(&p).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Partner created", "partner": p})
}

func (h *Handler) UpdatePartner(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req PartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	db := h.db.WithContext(c.Request.Context())
	var p models.DeliveryPartner
	if err := db.First(&p, id).Error; err != nil {
		respondError(c, err)
		return
	}
	p.Name, p.Phone, p.Rating = req.Name, req.Phone, req.Rating
	if err := db.Model(&p).Select("name", "phone", "rating").Updates(&p).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Partner updated", "partner": p})
}

// DeletePartner removes a partner; their orders and restaurants become unassigned
func (h *Handler) DeletePartner(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.deleteByID(c, &models.DeliveryPartner{}, id, "Partner deleted")
}
