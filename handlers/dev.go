package handlers

import (
	"net/http"

	"github.com/Bips27/tiffinly-daily-bites/config"
	"github.com/Bips27/tiffinly-daily-bites/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// SeedDemoData loads a demo catalog: plans, a full week of menu templates,
// extras, alternatives, and a demo customer with a funded wallet. Idempotent
// enough for local use — it refuses to run twice.
func SeedDemoData(c *gin.Context) {
	var count int64
	config.DB.Model(&models.SubscriptionPlan{}).Count(&count)
	if count > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Demo data already seeded"})
		return
	}

	plans := []models.SubscriptionPlan{
		{Code: "weekly", Name: "Weekly Plan", Price: 999, DurationDays: 7, MealsPerDay: 3},
		{Code: "monthly", Name: "Monthly Plan", Price: 3499, DurationDays: 30, MealsPerDay: 3, Popular: true},
	}
	config.DB.Create(&plans)

	extras := []models.ExtraItem{
		{Name: "Extra Roti", UnitPrice: 15, IsAvailable: true},
		{Name: "Papad", UnitPrice: 10, IsAvailable: true},
		{Name: "Raita", UnitPrice: 20, IsAvailable: true},
		{Name: "Extra Dal", UnitPrice: 25, IsAvailable: true},
	}
	config.DB.Create(&extras)

	alternatives := []models.AlternativeMeal{
		{Name: "Chole Rice Bowl", SurchargePrice: 30, IsAvailable: true},
		{Name: "Paneer Rice Bowl", SurchargePrice: 50, IsAvailable: true},
	}
	config.DB.Create(&alternatives)

	// Same menu every weekday; a real deployment manages these per cycle
	var templates []models.MenuTemplate
	for weekday := 0; weekday < 7; weekday++ {
		templates = append(templates,
			models.MenuTemplate{
				Weekday: weekday, MealType: models.MealBreakfast,
				Name:  "Poha Bowl",
				Items: []string{"Poha", "Masala Tea", "Fresh Fruits"},
				Calories: 320, DeliveryHour: 8, DeliveryMinute: 30,
			},
			models.MenuTemplate{
				Weekday: weekday, MealType: models.MealLunch,
				Name:  "Dal Rice Bowl",
				Items: []string{"Dal Rice", "Mixed Vegetables", "Roti", "Pickle"},
				Calories: 450, DeliveryHour: 13,
			},
			models.MenuTemplate{
				Weekday: weekday, MealType: models.MealDinner,
				Name:  "Paneer Curry Bowl",
				Items: []string{"Paneer Curry", "Jeera Rice", "Chapati", "Salad"},
				Calories: 420, DeliveryHour: 20,
			},
		)
	}
	config.DB.Create(&templates)

	hash, _ := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	demo := models.User{
		Name:         "Demo Customer",
		Email:        "demo@tiffinly.app",
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
	}
	config.DB.Create(&demo)
	config.DB.Create(&models.Wallet{UserID: demo.ID, Balance: 1250})

	Log.Infow("demo data seeded",
		"plans", len(plans), "extras", len(extras),
		"alternatives", len(alternatives), "templates", len(templates))

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Demo data seeded",
		"demo_login": gin.H{"email": demo.Email, "password": "demo1234"},
	})
}
