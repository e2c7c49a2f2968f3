package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Bips27/tiffinly-daily-bites/config"
	"github.com/Bips27/tiffinly-daily-bites/customization"
	"github.com/Bips27/tiffinly-daily-bites/eligibility"
	"github.com/Bips27/tiffinly-daily-bites/middleware"
	"github.com/Bips27/tiffinly-daily-bites/models"
	"github.com/Bips27/tiffinly-daily-bites/realtime"

	"github.com/gin-gonic/gin"
)

// mealView is a meal annotated with its customization eligibility, computed
// against a fresh clock on every request — the countdown is never decremented
// from a cached value.
type mealView struct {
	models.Meal
	Customization eligibility.Result `json:"customization"`
	// Action is a UI hint: track-live wins over customize once the kitchen
	// has started on the meal
	Action string `json:"action"`
}

func annotate(meal models.Meal, now time.Time) mealView {
	result := eligibility.Evaluate(&meal, now, config.CutoffWindow())
	action := "NONE"
	switch {
	case meal.DeliveryStatus == models.StatusPreparing || meal.DeliveryStatus == models.StatusOutForDelivery:
		action = "TRACK_LIVE"
	case result.CanCustomize:
		action = "CUSTOMIZE"
	}
	return mealView{Meal: meal, Customization: result, Action: action}
}

// GetMyMeals returns the customer's upcoming meals with eligibility annotations
func GetMyMeals(c *gin.Context) {
	userID := middleware.GetUserID(c)
	now := time.Now()

	var meals []models.Meal
	query := config.DB.Preload("Extras").
		Where("user_id = ?", userID)

	// Default to today-and-later; ?all=true returns the whole horizon
	if c.Query("all") != "true" {
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		query = query.Where("delivery_time >= ?", startOfDay)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("delivery_status = ?", status)
	}
	query.Order("delivery_time asc").Find(&meals)

	views := make([]mealView, 0, len(meals))
	for _, m := range meals {
		views = append(views, annotate(m, now))
	}

	c.JSON(http.StatusOK, gin.H{"count": len(views), "meals": views})
}

// GetNextMeal returns the next undelivered meal, the dashboard hero card
func GetNextMeal(c *gin.Context) {
	userID := middleware.GetUserID(c)
	now := time.Now()

	var meal models.Meal
	err := config.DB.Preload("Extras").
		Where("user_id = ? AND delivery_time > ?", userID, now).
		Order("delivery_time asc").
		First(&meal).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No upcoming meal scheduled"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal": annotate(meal, now)})
}

// GetMealDetail returns a single meal with status history and eligibility
func GetMealDetail(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var meal models.Meal
	if err := config.DB.Preload("Extras").Preload("StatusHistory").
		First(&meal, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found"})
		return
	}
	if meal.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This meal does not belong to you"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"meal": annotate(meal, time.Now())})
}

// CustomizeMeal commits a customization request against one of the caller's
// meals: eligibility re-check, pricing, wallet debit and durable write all
// happen inside the applicator.
func CustomizeMeal(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var meal models.Meal
	if err := config.DB.First(&meal, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found"})
		return
	}
	if meal.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This meal does not belong to you"})
		return
	}

	var req models.CustomizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var extras []models.ExtraItem
	config.DB.Where("is_available = ?", true).Find(&extras)
	var alternatives []models.AlternativeMeal
	config.DB.Where("is_available = ?", true).Find(&alternatives)

	if err := App.Apply(c.Request.Context(), &meal, req, extras, alternatives); err != nil {
		status, payload := applyErrorResponse(err)
		c.JSON(status, payload)
		return
	}

	Hub.Broadcast(userID, realtime.MealUpdate{
		MealID:   meal.ID,
		Event:    "customized",
		Status:   meal.DeliveryStatus,
		Message:  "Meal customized for ₹" + formatAmount(meal.CustomizationFee),
		Occurred: time.Now(),
	})

	c.JSON(http.StatusOK, gin.H{
		"message":           "Meal customized successfully",
		"meal":              annotate(meal, time.Now()),
		"customization_fee": meal.CustomizationFee,
	})
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// applyErrorResponse maps typed apply errors to specific HTTP outcomes so the
// app can render an actionable message
func applyErrorResponse(err error) (int, gin.H) {
	ae, ok := customization.AsApplyError(err)
	if !ok {
		return http.StatusInternalServerError, gin.H{"error": "Customization failed"}
	}
	payload := gin.H{"error": ae.Reason, "code": string(ae.Kind)}
	switch ae.Kind {
	case customization.KindNotEligible:
		return http.StatusUnprocessableEntity, payload
	case customization.KindEmptyRequest:
		return http.StatusBadRequest, payload
	case customization.KindPaymentFailed:
		return http.StatusPaymentRequired, payload
	default:
		return http.StatusInternalServerError, payload
	}
}

// GetOrderHistory returns past meals within the retention window, newest first
func GetOrderHistory(c *gin.Context) {
	userID := middleware.GetUserID(c)
	now := time.Now()
	oldest := now.Add(-config.HistoryRetention())

	var meals []models.Meal
	config.DB.Preload("Extras").
		Where("user_id = ? AND delivery_time < ? AND delivery_time >= ?", userID, now, oldest).
		Order("delivery_time desc").
		Find(&meals)

	var customizedCount int
	var totalFees float64
	for _, m := range meals {
		if m.IsCustomized {
			customizedCount++
			totalFees += m.CustomizationFee
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":            len(meals),
		"customized_count": customizedCount,
		"total_fees":       totalFees,
		"meals":            meals,
	})
}
