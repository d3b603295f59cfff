package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gold-assistant-go/internal/i18n"
	"github.com/gold-assistant-go/internal/models"
	"github.com/gold-assistant-go/internal/responder"
	"github.com/sirupsen/logrus"
)

// HandlePurchase serves POST /purchase
func (h *Handler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	var req models.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.UserName == "" || req.Email == "" || req.Phone == "" || req.DeliveryAddress == "" {
		h.writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if req.Quantity <= 0 {
		h.writeError(w, http.StatusBadRequest, "Quantity must be positive")
		return
	}

	quote := h.priceChain.Fetch(r.Context())

	cost, err := responder.EstimateCost(req.GoldType, req.Quantity, quote.CurrentPrice)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	purchaseID := responder.NewPurchaseID(req.Email, time.Now())

	h.logger.WithFields(logrus.Fields{
		"purchase_id": purchaseID,
		"gold_type":   req.GoldType,
		"quantity":    req.Quantity,
		"cost":        cost,
	}).Info("Purchase request initiated")

	message := h.localizer.Get(h.localizer.DefaultLanguage(), i18n.MsgPurchaseInitiated, map[string]interface{}{
		"Quantity": req.Quantity,
		"UnitWord": responder.QuantityUnit(req.GoldType),
		"GoldType": req.GoldType,
	})

	h.writeJSON(w, http.StatusOK, models.PurchaseResponse{
		PurchaseID:    purchaseID,
		RedirectURL:   responder.RedirectURL(req.GoldType),
		EstimatedCost: cost,
		GoldType:      req.GoldType,
		Quantity:      req.Quantity,
		Message:       message,
	})
}
