package handlers

import (
	"net/http"
	"time"

	"github.com/Bips27/tiffinly-daily-bites/config"
	"github.com/Bips27/tiffinly-daily-bites/middleware"
	"github.com/Bips27/tiffinly-daily-bites/models"
	"github.com/Bips27/tiffinly-daily-bites/realtime"
	"github.com/Bips27/tiffinly-daily-bites/statemachine"

	"github.com/gin-gonic/gin"
)

// GetKitchenQueue lists today's meals for the kitchen board, grouped by status
func GetKitchenQueue(c *gin.Context) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	var meals []models.Meal
	query := config.DB.Preload("Extras").
		Where("delivery_time >= ? AND delivery_time < ?", startOfDay, endOfDay)
	if status := c.Query("status"); status != "" {
		query = query.Where("delivery_status = ?", status)
	}
	query.Order("delivery_time asc").Find(&meals)

	summary := map[string]int{}
	for _, m := range meals {
		summary[string(m.DeliveryStatus)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"summary": summary,
		"count":   len(meals),
		"meals":   meals,
	})
}

// GetCourierDeliveries lists meals that are out for delivery or ready to go out
func GetCourierDeliveries(c *gin.Context) {
	var meals []models.Meal
	config.DB.Preload("User").
		Where("delivery_status IN ?", []models.DeliveryStatus{
			models.StatusPreparing, models.StatusOutForDelivery,
		}).
		Order("delivery_time asc").
		Find(&meals)
	c.JSON(http.StatusOK, gin.H{"count": len(meals), "meals": meals})
}

type UpdateMealStatusRequest struct {
	Status models.DeliveryStatus `json:"status" binding:"required"`
	Note   string                `json:"note"`
}

// UpdateMealStatus advances a meal through the delivery state machine. The
// caller's role is the acting party, so a kitchen account cannot mark a meal
// delivered and a courier cannot start preparation. Every change is recorded
// in status history and pushed to the owner's tracking socket.
func UpdateMealStatus(c *gin.Context) {
	actorID := middleware.GetUserID(c)
	actor := string(middleware.GetRole(c))

	var meal models.Meal
	if err := config.DB.First(&meal, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Meal not found"})
		return
	}

	var req UpdateMealStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := statemachine.CanTransition(meal.DeliveryStatus, req.Status, actor); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":             "Invalid state transition",
			"current_status":    meal.DeliveryStatus,
			"requested":         req.Status,
			"reason":            err.Error(),
			"valid_next_states": statemachine.ValidTransitionsFrom(meal.DeliveryStatus),
		})
		return
	}

	prevStatus := meal.DeliveryStatus
	config.DB.Model(&meal).Update("delivery_status", req.Status)

	history := models.MealStatusHistory{
		MealID:     meal.ID,
		FromStatus: prevStatus,
		ToStatus:   req.Status,
		ChangedBy:  actorID,
		Note:       req.Note,
	}
	config.DB.Create(&history)

	Hub.Broadcast(meal.UserID, realtime.MealUpdate{
		MealID:   meal.ID,
		Event:    "status_change",
		Status:   req.Status,
		Message:  statusMessage(req.Status, meal.Name),
		Occurred: time.Now(),
	})

	Log.Infow("meal status updated",
		"meal_id", meal.ID, "from", prevStatus, "to", req.Status, "actor", actor)

	c.JSON(http.StatusOK, gin.H{
		"message":         "Meal status updated",
		"meal_id":         meal.ID,
		"previous_status": string(prevStatus),
		"current_status":  string(req.Status),
	})
}

func statusMessage(status models.DeliveryStatus, name string) string {
	switch status {
	case models.StatusPreparing:
		return "Your " + name + " is being prepared"
	case models.StatusOutForDelivery:
		return "Your " + name + " is out for delivery"
	case models.StatusDelivered:
		return "Your " + name + " has been delivered"
	default:
		return "Your " + name + " is scheduled"
	}
}
