package handlers

import (
	"github.com/Bips27/tiffinly-daily-bites/customization"
	"github.com/Bips27/tiffinly-daily-bites/logger"
	"github.com/Bips27/tiffinly-daily-bites/realtime"
	"github.com/Bips27/tiffinly-daily-bites/wallet"
)

// Package-level collaborators, wired once from main before routes are served
var (
	App    *customization.Applicator
	Wallet *wallet.Service
	Hub    *realtime.Hub
	Log    *logger.Logger
)

// Setup injects the service dependencies the handlers share
func Setup(app *customization.Applicator, walletSvc *wallet.Service, hub *realtime.Hub, log *logger.Logger) {
	App = app
	Wallet = walletSvc
	Hub = hub
	Log = log
}
