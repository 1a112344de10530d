package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taprate/backend/internal/repository"
	"github.com/taprate/backend/internal/service"
)

// CouponHandler handles coupon-related HTTP requests
type CouponHandler struct {
	coupons *service.CouponService
}

// NewCouponHandler creates a new CouponHandler
func NewCouponHandler(coupons *service.CouponService) *CouponHandler {
	return &CouponHandler{coupons: coupons}
}

type generateCouponsRequest struct {
	Count int `json:"count" binding:"required,gt=0,lte=50000"`
}

// GenerateCoupons handles POST /api/v1/companies/:id/coupons
func (h *CouponHandler) GenerateCoupons(c *gin.Context) {
	var req generateCouponsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be between 1 and 50000"})
		return
	}

	created, err := h.coupons.GenerateCoupons(c.Request.Context(), c.Param("id"), req.Count)
	if err != nil {
		status := couponErrorStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"company_id": c.Param("id"),
		"created":    created,
	})
}

// IssueCoupon handles POST /api/v1/companies/:id/coupons/issue
func (h *CouponHandler) IssueCoupon(c *gin.Context) {
	code, err := h.coupons.IssueCoupon(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := couponErrorStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company_id": c.Param("id"),
		"code":       code,
	})
}

// GetCompanyCoupons handles GET /api/v1/companies/:id/coupons
func (h *CouponHandler) GetCompanyCoupons(c *gin.Context) {
	company, issued, available, err := h.coupons.GetCompanyCoupons(c.Request.Context(), c.Param("id"))
	if err != nil {
		status := couponErrorStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"company":      company,
		"issued_codes": issued,
		"available":    available,
	})
}

func couponErrorStatus(err error) int {
	switch {
	case errors.Is(err, repository.ErrCompanyNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNotCouponMode):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNoAvailableCoupons):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
