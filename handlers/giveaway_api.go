package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"giveaway-system/config"
	"giveaway-system/giveaway"
)

var (
	svc            *giveaway.Service
	requestTimeout = 10 * time.Second
)

// InitGiveawayHandlers wires the service into the handler package.
func InitGiveawayHandlers(s *giveaway.Service, cfg *config.Config) {
	svc = s
	if cfg.RequestTimeout > 0 {
		requestTimeout = cfg.RequestTimeout
	}
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}

type EnterGiveawayRequest struct {
	Phone                string `json:"phone"`
	Email                string `json:"email"`
	FirstName            string `json:"first_name" binding:"required"`
	LastName             string `json:"last_name" binding:"required"`
	State                string `json:"state" binding:"required"`
	ZipCode              string `json:"zip_code" binding:"required"`
	Consent              bool   `json:"consent"`
	SecondaryContact     string `json:"secondary_contact"`
	SecondaryContactType string `json:"secondary_contact_type"`
	ReferralCode         string `json:"referral_code"`
}

// EnterGiveawayHandler handles POST /api/giveaways/:id/entries
func EnterGiveawayHandler(c *gin.Context) {
	var req EnterGiveawayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "bad_request"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := svc.SubmitEntry(ctx, giveaway.SubmitInput{
		GiveawayID:           c.Param("id"),
		Phone:                req.Phone,
		Email:                req.Email,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		State:                req.State,
		ZipCode:              req.ZipCode,
		Consent:              req.Consent,
		SourceIP:             c.ClientIP(),
		SecondaryContact:     req.SecondaryContact,
		SecondaryContactType: req.SecondaryContactType,
		ReferralCode:         req.ReferralCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type LookupEntryRequest struct {
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// LookupEntryHandler handles POST /api/giveaways/:id/lookup
func LookupEntryHandler(c *gin.Context) {
	var req LookupEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "bad_request"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := svc.Lookup(ctx, c.Param("id"), req.Phone, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type ClaimBonusRequest struct {
	EntryID              string `json:"entry_id" binding:"required"`
	SecondaryContact     string `json:"secondary_contact" binding:"required"`
	SecondaryContactType string `json:"secondary_contact_type" binding:"required"`
}

// ClaimBonusHandler handles POST /api/giveaways/:id/bonus
func ClaimBonusHandler(c *gin.Context) {
	var req ClaimBonusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "bad_request"})
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := svc.ClaimBonus(ctx, c.Param("id"), req.EntryID, req.SecondaryContact, req.SecondaryContactType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
