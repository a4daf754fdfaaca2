package handlers

import (
	"log/slog"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/sales-dashboard/internal/response"
)

type Deps struct {
	Log             *slog.Logger
	ResponseHandler response.ResponseHandler
	SalesSvc        SalesService
	// Firebase is nil when authentication is disabled.
	Firebase *auth.Client
}
