package handlers

import (
	"net/http"

	"github.com/Bips27/tiffinly-daily-bites/config"
	"github.com/Bips27/tiffinly-daily-bites/models"
	"github.com/Bips27/tiffinly-daily-bites/statemachine"

	"github.com/gin-gonic/gin"
)

// ListPlans returns all subscription plans (public)
func ListPlans(c *gin.Context) {
	var plans []models.SubscriptionPlan
	config.DB.Order("duration_days asc").Find(&plans)
	c.JSON(http.StatusOK, gin.H{"count": len(plans), "plans": plans})
}

// ListExtras returns the extra-item catalog (public)
func ListExtras(c *gin.Context) {
	var extras []models.ExtraItem
	query := config.DB
	if c.Query("all") != "true" {
		query = query.Where("is_available = ?", true)
	}
	query.Find(&extras)
	c.JSON(http.StatusOK, gin.H{"count": len(extras), "extras": extras})
}

// ListAlternatives returns the alternative-meal catalog (public)
func ListAlternatives(c *gin.Context) {
	var alternatives []models.AlternativeMeal
	query := config.DB
	if c.Query("all") != "true" {
		query = query.Where("is_available = ?", true)
	}
	query.Find(&alternatives)
	c.JSON(http.StatusOK, gin.H{"count": len(alternatives), "alternatives": alternatives})
}

// GetWeeklyMenu returns the menu-template grid the weekly menu screen renders
func GetWeeklyMenu(c *gin.Context) {
	var templates []models.MenuTemplate
	query := config.DB
	if weekday := c.Query("weekday"); weekday != "" {
		query = query.Where("weekday = ?", weekday)
	}
	query.Order("weekday asc, delivery_hour asc").Find(&templates)
	c.JSON(http.StatusOK, gin.H{"count": len(templates), "menu": templates})
}

// GetStateMachineInfo returns the delivery state machine for informational
// purposes
func GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.GetAllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []string{string(models.StatusDelivered)},
		"description":     "Meal Delivery Lifecycle State Machine",
	})
}
