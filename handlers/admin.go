package handlers

import (
	"net/http"

	"github.com/Bips27/tiffinly-daily-bites/config"
	"github.com/Bips27/tiffinly-daily-bites/models"

	"github.com/gin-gonic/gin"
)

// ── Catalog management ─────────────────────────────────────────────

type ExtraItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	UnitPrice   float64 `json:"unit_price" binding:"required,gte=0"`
	IsAvailable *bool   `json:"is_available"`
}

// AdminCreateExtra adds an extra item to the catalog
func AdminCreateExtra(c *gin.Context) {
	var req ExtraItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item := models.ExtraItem{Name: req.Name, UnitPrice: req.UnitPrice, IsAvailable: true}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if err := config.DB.Create(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create extra item"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"extra": item})
}

// AdminUpdateExtra edits price or availability of an extra item
func AdminUpdateExtra(c *gin.Context) {
	var item models.ExtraItem
	if err := config.DB.First(&item, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Extra item not found"})
		return
	}
	var req ExtraItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item.Name = req.Name
	item.UnitPrice = req.UnitPrice
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}
	if err := config.DB.Save(&item).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update extra item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"extra": item})
}

type AlternativeMealRequest struct {
	Name           string  `json:"name" binding:"required"`
	SurchargePrice float64 `json:"surcharge_price" binding:"required,gte=0"`
	IsAvailable    *bool   `json:"is_available"`
}

// AdminCreateAlternative adds an alternative meal to the catalog
func AdminCreateAlternative(c *gin.Context) {
	var req AlternativeMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	alt := models.AlternativeMeal{Name: req.Name, SurchargePrice: req.SurchargePrice, IsAvailable: true}
	if req.IsAvailable != nil {
		alt.IsAvailable = *req.IsAvailable
	}
	if err := config.DB.Create(&alt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create alternative meal"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"alternative": alt})
}

type PlanRequest struct {
	Code         string  `json:"code" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Price        float64 `json:"price" binding:"required,gte=0"`
	DurationDays int     `json:"duration_days" binding:"required,min=1"`
	MealsPerDay  int     `json:"meals_per_day" binding:"required,min=1,max=3"`
	Popular      bool    `json:"popular"`
}

// AdminCreatePlan adds a subscription plan
func AdminCreatePlan(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	plan := models.SubscriptionPlan{
		Code:         req.Code,
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		MealsPerDay:  req.MealsPerDay,
		Popular:      req.Popular,
	}
	if err := config.DB.Create(&plan).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create plan"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"plan": plan})
}

type MenuTemplateRequest struct {
	Weekday        int             `json:"weekday" binding:"min=0,max=6"`
	MealType       models.MealType `json:"meal_type" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	Items          []string        `json:"items" binding:"required,min=1"`
	Calories       int             `json:"calories" binding:"gte=0"`
	DeliveryHour   int             `json:"delivery_hour" binding:"min=0,max=23"`
	DeliveryMinute int             `json:"delivery_minute" binding:"min=0,max=59"`
}

// AdminCreateMenuTemplate adds one cell to the weekly menu grid
func AdminCreateMenuTemplate(c *gin.Context) {
	var req MenuTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tpl := models.MenuTemplate{
		Weekday:        req.Weekday,
		MealType:       req.MealType,
		Name:           req.Name,
		Items:          req.Items,
		Calories:       req.Calories,
		DeliveryHour:   req.DeliveryHour,
		DeliveryMinute: req.DeliveryMinute,
	}
	if err := config.DB.Create(&tpl).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create menu template"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"template": tpl})
}

// ── Oversight ──────────────────────────────────────────────────────

// AdminGetAllUsers returns all users — admin only
func AdminGetAllUsers(c *gin.Context) {
	var users []models.User
	query := config.DB
	if role := c.Query("role"); role != "" {
		query = query.Where("role = ?", role)
	}
	query.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminGetAllMeals returns all meals with full detail — admin only
func AdminGetAllMeals(c *gin.Context) {
	var meals []models.Meal
	query := config.DB.Preload("Extras").Preload("StatusHistory").Preload("User")

	if status := c.Query("status"); status != "" {
		query = query.Where("delivery_status = ?", status)
	}
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if customized := c.Query("customized"); customized == "true" {
		query = query.Where("is_customized = ?", true)
	}

	query.Order("delivery_time desc").Find(&meals)

	// Admin dashboard: aggregate by status plus customization revenue
	summary := map[string]int{}
	var customizationRevenue float64
	for _, m := range meals {
		summary[string(m.DeliveryStatus)]++
		if m.IsCustomized {
			customizationRevenue += m.CustomizationFee
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"meal_summary":          summary,
		"customization_revenue": customizationRevenue,
		"count":                 len(meals),
		"meals":                 meals,
	})
}

// AdminForceMealStatus lets admin override any delivery state (emergency use)
func AdminForceMealStatus(c *gin.Context) {
	var req struct {
		Status models.DeliveryStatus `json:"status" binding:"required"`
		Reason string                `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var meal models.Meal
	if err := config.DB.First(&meal, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found"})
		return
	}
	prevStatus := meal.DeliveryStatus
	config.DB.Model(&meal).Update("delivery_status", req.Status)

	history := models.MealStatusHistory{
		MealID:     meal.ID,
		FromStatus: prevStatus,
		ToStatus:   req.Status,
		Note:       "[ADMIN OVERRIDE] " + req.Reason,
	}
	config.DB.Create(&history)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Meal status force-updated by admin",
		"meal_id":         meal.ID,
		"previous_status": prevStatus,
		"new_status":      req.Status,
	})
}
