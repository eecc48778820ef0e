package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"giveaway-system/models"
)

type CreateGiveawayRequest struct {
	Name               string    `json:"name" binding:"required"`
	StartAt            time.Time `json:"start_at" binding:"required"`
	EndAt              time.Time `json:"end_at" binding:"required"`
	DrawingAt          time.Time `json:"drawing_at" binding:"required"`
	RestrictedStates   []string  `json:"restricted_states"`
	EntryType          string    `json:"entry_type" binding:"required,oneof=phone email both"`
	BonusEnabled       bool      `json:"bonus_enabled"`
	BonusCount         int       `json:"bonus_count"`
	ReferralEnabled    bool      `json:"referral_enabled"`
	BonusPerReferral   int       `json:"bonus_per_referral"`
	MaxReferralBonus   int       `json:"max_referral_bonus"`
	MaxReferralsPerIP  int       `json:"max_referrals_per_ip"`
	NumWinners         int       `json:"num_winners" binding:"required,min=1"`
	AlternateWinners   int       `json:"alternate_winners"`
	AlternateSelection string    `json:"alternate_selection" binding:"required,oneof=auto manual"`
}

// CreateGiveawayHandler handles POST /api/admin/giveaways
func CreateGiveawayHandler(c *gin.Context) {
	var req CreateGiveawayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "bad_request"})
		return
	}

	g := &models.Giveaway{
		Name:             req.Name,
		StartAt:          req.StartAt,
		EndAt:            req.EndAt,
		DrawingAt:        req.DrawingAt,
		RestrictedStates: req.RestrictedStates,
		EntryType:        req.EntryType,
		Bonus: models.BonusPolicy{
			Enabled: req.BonusEnabled,
			Count:   req.BonusCount,
		},
		Referral: models.ReferralPolicy{
			Enabled:           req.ReferralEnabled,
			BonusPerReferral:  req.BonusPerReferral,
			MaxReferralBonus:  req.MaxReferralBonus,
			MaxReferralsPerIP: req.MaxReferralsPerIP,
		},
		Winner: models.WinnerPolicy{
			NumWinners:         req.NumWinners,
			AlternateWinners:   req.AlternateWinners,
			AlternateSelection: req.AlternateSelection,
		},
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := svc.CreateGiveaway(ctx, g); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"giveaway": g})
}

// GetGiveawayHandler handles GET /api/admin/giveaways/:id
func GetGiveawayHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	g, err := svc.Giveaway(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"giveaway": g})
}

// ListEntriesHandler handles GET /api/admin/giveaways/:id/entries
func ListEntriesHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	entries, err := svc.Entries(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// SelectWinnersHandler handles POST /api/admin/giveaways/:id/select-winners
func SelectWinnersHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	result, err := svc.SelectWinners(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListWinnersHandler handles GET /api/admin/giveaways/:id/winners
func ListWinnersHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	winners, err := svc.Winners(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if winners == nil {
		winners = []models.WinnerRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"winners": winners, "count": len(winners)})
}
