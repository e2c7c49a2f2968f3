package handlers

import (
	"net/http"
	"time"

	"github.com/Bips27/tiffinly-daily-bites/config"
	"github.com/Bips27/tiffinly-daily-bites/middleware"
	"github.com/Bips27/tiffinly-daily-bites/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SubscribeRequest struct {
	PlanID    uint   `json:"plan_id" binding:"required"`
	StartDate string `json:"start_date"` // YYYY-MM-DD, defaults to tomorrow
}

// SubscribeToPlan activates a plan for the customer and provisions one meal
// record per delivery slot for the plan horizon, copied from the weekly menu
// templates. Meals start in SCHEDULED with customization open.
func SubscribeToPlan(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var plan models.SubscriptionPlan
	if err := config.DB.First(&plan, req.PlanID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}

	var active models.Subscription
	if err := config.DB.Where("user_id = ? AND active = ?", userID, true).
		First(&active).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have an active subscription"})
		return
	}

	start := time.Now().AddDate(0, 0, 1)
	if req.StartDate != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.StartDate, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start_date must be YYYY-MM-DD"})
			return
		}
		start = parsed
	}
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local)
	end := start.AddDate(0, 0, plan.DurationDays)

	var templates []models.MenuTemplate
	config.DB.Find(&templates)
	if len(templates) == 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "No menu templates configured yet"})
		return
	}

	meals := provisionMeals(userID, plan, start, templates)

	sub := models.Subscription{
		UserID:    userID,
		PlanID:    plan.ID,
		StartDate: start,
		EndDate:   end,
		Active:    true,
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}
		return tx.Create(&meals).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate subscription"})
		return
	}

	Log.Infow("subscription provisioned",
		"user_id", userID, "plan", plan.Code, "meals", len(meals))

	c.JSON(http.StatusCreated, gin.H{
		"message":           "Subscription activated",
		"subscription":      sub,
		"meals_provisioned": len(meals),
	})
}

// provisionMeals expands the plan horizon into concrete meal slots. Slots are
// filled from the weekday × meal-type template grid; days with no template
// for a slot simply skip it.
func provisionMeals(userID uint, plan models.SubscriptionPlan, start time.Time, templates []models.MenuTemplate) []models.Meal {
	type slotKey struct {
		weekday  int
		mealType models.MealType
	}
	grid := make(map[slotKey]models.MenuTemplate, len(templates))
	for _, t := range templates {
		grid[slotKey{t.Weekday, t.MealType}] = t
	}

	slotOrder := []models.MealType{models.MealBreakfast, models.MealLunch, models.MealDinner}
	if plan.MealsPerDay < len(slotOrder) {
		slotOrder = slotOrder[:plan.MealsPerDay]
	}

	var meals []models.Meal
	for day := 0; day < plan.DurationDays; day++ {
		date := start.AddDate(0, 0, day)
		for _, mealType := range slotOrder {
			tpl, ok := grid[slotKey{int(date.Weekday()), mealType}]
			if !ok {
				continue
			}
			deliveryTime := time.Date(date.Year(), date.Month(), date.Day(),
				tpl.DeliveryHour, tpl.DeliveryMinute, 0, 0, time.Local)
			meals = append(meals, models.Meal{
				UserID:         userID,
				MealType:       mealType,
				Name:           tpl.Name,
				Items:          tpl.Items,
				Calories:       tpl.Calories,
				DisplayTime:    deliveryTime.Format("3:04 PM"),
				DeliveryTime:   deliveryTime,
				DeliveryStatus: models.StatusScheduled,
			})
		}
	}
	return meals
}

// GetMySubscription returns the caller's active subscription, if any
func GetMySubscription(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var sub models.Subscription
	if err := config.DB.Preload("Plan").
		Where("user_id = ? AND active = ?", userID, true).
		First(&sub).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active subscription"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}
