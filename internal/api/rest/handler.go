package rest

import (
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/loyaltytoken/loyalty-platform/internal/domain"
	"github.com/loyaltytoken/loyalty-platform/internal/ledger"
	"github.com/loyaltytoken/loyalty-platform/internal/logger"
	"github.com/loyaltytoken/loyalty-platform/internal/providers/pinata"
	"github.com/loyaltytoken/loyalty-platform/internal/redemption"
	"github.com/loyaltytoken/loyalty-platform/internal/store"
	"github.com/loyaltytoken/loyalty-platform/internal/store/schema"
)

// Handler defines the REST API handlers
type Handler interface {
	HealthCheck(c *gin.Context)
	IssueTokens(c *gin.Context)
	RegisterCustomer(c *gin.Context)
	GetCustomer(c *gin.Context)
	ApproveAllowance(c *gin.Context)
	UpdateReward(c *gin.Context)
	GetReward(c *gin.Context)
	Redeem(c *gin.Context)
	ResumeRedemption(c *gin.Context)
	ListCertificates(c *gin.Context)
	GetCertificate(c *gin.Context)
}

// HandlerConfig holds handler configuration
type HandlerConfig struct {
	// Operator is the ledger owner on whose behalf operator routes act
	Operator domain.Address
	// GatewayURL builds public download URLs for published certificates
	GatewayURL string
}

type handler struct {
	config  HandlerConfig
	ledger  *ledger.Ledger
	engine  *redemption.Engine
	content pinata.ContentStore
	store   store.Store
}

// NewHandler creates a new REST API handler
func NewHandler(cfg HandlerConfig, l *ledger.Ledger, engine *redemption.Engine, content pinata.ContentStore, st store.Store) Handler {
	return &handler{
		config:  cfg,
		ledger:  l,
		engine:  engine,
		content: content,
		store:   st,
	}
}

// HealthCheck returns the service health status
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// IssueTokens converts an order value into tokens and issues them to a
// registered customer. 1 currency unit buys 1 whole token.
func (h *handler) IssueTokens(c *gin.Context) {
	var req issueTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	customer, err := domain.ParseAddress(req.CustomerAddress)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	amount, err := domain.ToBaseUnits(req.OrderValue, h.ledger.Decimals())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	receipt, err := h.ledger.Issue(c.Request.Context(), h.config.Operator, customer, amount)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	logger.InfoCtx(c.Request.Context(), "Issued tokens",
		zap.String("customer", customer.Short()),
		zap.String("order_value", req.OrderValue),
		zap.String("tx_id", string(receipt.TxID)),
	)
	c.JSON(http.StatusOK, issueTokensResponse{
		Status: "success",
		TxHash: string(receipt.TxID),
	})
}

// RegisterCustomer registers a customer address on the ledger
func (h *handler) RegisterCustomer(c *gin.Context) {
	var req registerCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	customer, err := domain.ParseAddress(req.Address)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	if _, err := h.ledger.Register(c.Request.Context(), h.config.Operator, customer); err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, customerResponse{
		Address:    customer.String(),
		Registered: true,
		Balance:    domain.FromBaseUnits(h.ledger.BalanceOf(customer), h.ledger.Decimals()),
	})
}

// GetCustomer returns registration status, balance and certificate count
func (h *handler) GetCustomer(c *gin.Context) {
	customer, err := domain.ParseAddress(c.Param("address"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	balance := h.ledger.BalanceOf(customer)
	c.JSON(http.StatusOK, customerResponse{
		Address:          customer.String(),
		Registered:       h.ledger.IsRegistered(customer),
		Balance:          domain.FromBaseUnits(balance, h.ledger.Decimals()),
		BalanceBaseUnits: balance.String(),
		CertificateCount: h.ledger.CertificateCount(customer),
	})
}

// ApproveAllowance sets the amount the redemption engine may debit from the
// customer's balance. On chain this is the customer wallet's approve call;
// the custodial API submits it on the customer's behalf. The new allowance
// replaces any previous approval.
func (h *handler) ApproveAllowance(c *gin.Context) {
	customer, err := domain.ParseAddress(c.Param("address"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	var req approveAllowanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	amount, err := domain.ToBaseUnits(req.Amount, h.ledger.Decimals())
	if err != nil {
		respondDomainError(c, err)
		return
	}

	spender := h.engine.Address()
	receipt, err := h.ledger.Approve(c.Request.Context(), customer, spender, amount)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	logger.InfoCtx(c.Request.Context(), "Approved redemption allowance",
		zap.String("customer", customer.Short()),
		zap.String("spender", spender.Short()),
		zap.String("amount", req.Amount),
	)
	allowance := h.ledger.Allowance(customer, spender)
	c.JSON(http.StatusOK, allowanceResponse{
		Status:             "success",
		TxHash:             string(receipt.TxID),
		Spender:            spender.String(),
		Allowance:          domain.FromBaseUnits(allowance, h.ledger.Decimals()),
		AllowanceBaseUnits: allowance.String(),
	})
}

// UpdateReward sets any subset of a reward's cost, metadata and image.
// Metadata documents are published to the content store and linked by CID.
func (h *handler) UpdateReward(c *gin.Context) {
	rewardID, ok := parseRewardID(c)
	if !ok {
		return
	}

	var req updateRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}
	if req.Cost == nil && req.Metadata == nil && req.ImageCID == nil {
		respondBadRequest(c, "Nothing to update")
		return
	}

	ctx := c.Request.Context()

	if req.Cost != nil {
		cost, err := domain.ToBaseUnits(*req.Cost, h.ledger.Decimals())
		if err != nil {
			respondDomainError(c, err)
			return
		}
		if _, err := h.ledger.SetRewardCost(ctx, h.config.Operator, rewardID, cost); err != nil {
			respondDomainError(c, err)
			return
		}
	}

	if req.Metadata != nil {
		cid, err := h.content.UploadJSON(ctx, req.Metadata, fmt.Sprintf("reward-%d-metadata.json", rewardID))
		if err != nil {
			respondDomainError(c, err)
			return
		}
		if _, err := h.ledger.SetRewardMetadata(ctx, h.config.Operator, rewardID, cid); err != nil {
			respondDomainError(c, err)
			return
		}
	}

	if req.ImageCID != nil {
		if _, err := h.ledger.SetRewardImage(ctx, h.config.Operator, rewardID, domain.CID(*req.ImageCID)); err != nil {
			respondDomainError(c, err)
			return
		}
	}

	h.respondReward(c, rewardID)
}

// GetReward returns the catalog view of a reward
func (h *handler) GetReward(c *gin.Context) {
	rewardID, ok := parseRewardID(c)
	if !ok {
		return
	}
	h.respondReward(c, rewardID)
}

func (h *handler) respondReward(c *gin.Context, rewardID domain.RewardID) {
	reward := h.ledger.Reward(rewardID)
	if reward == nil || (!reward.Exists() && reward.MetadataCID == "" && reward.ImageCID == "") {
		respondNotFound(c, "Reward not found")
		return
	}

	cost := reward.Cost
	if cost == nil {
		cost = new(big.Int)
	}
	c.JSON(http.StatusOK, rewardResponse{
		ID:            uint64(rewardID),
		Cost:          domain.FromBaseUnits(cost, h.ledger.Decimals()),
		CostBaseUnits: cost.String(),
		Redeemable:    reward.Exists(),
		MetadataCID:   reward.MetadataCID.String(),
		ImageCID:      reward.ImageCID.String(),
	})
}

// Redeem runs a redemption attempt for a customer
func (h *handler) Redeem(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	customer, err := domain.ParseAddress(req.CustomerAddress)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	receipt, err := h.engine.Redeem(c.Request.Context(), customer, domain.RewardID(req.RewardID))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.respondRedemption(c, receipt)
}

// ResumeRedemption re-drives certificate publication for a pending redemption
func (h *handler) ResumeRedemption(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		respondBadRequest(c, "Idempotency key is required")
		return
	}

	receipt, err := h.engine.Resume(c.Request.Context(), key)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	h.respondRedemption(c, receipt)
}

func (h *handler) respondRedemption(c *gin.Context, receipt *redemption.Receipt) {
	resp := redemptionResponse{
		Status:         string(receipt.Status),
		IdempotencyKey: receipt.IdempotencyKey,
		TxID:           string(receipt.DebitTx),
	}
	if receipt.Certificate != nil {
		cert := h.toCertificateResponse(receipt.Certificate)
		resp.Certificate = &cert
	}

	status := http.StatusOK
	if receipt.Status == domain.RedemptionCertificatePending {
		// The debit committed; the certificate arrives via resume
		status = http.StatusAccepted
	}
	c.JSON(status, resp)
}

// ListCertificates returns the published certificates of a customer
func (h *handler) ListCertificates(c *gin.Context) {
	customer, err := domain.ParseAddress(c.Param("address"))
	if err != nil {
		respondDomainError(c, err)
		return
	}

	certs, err := h.store.ListCertificatesByCustomer(c.Request.Context(), customer)
	if err != nil {
		respondInternalError(c, err, "Failed to list certificates")
		return
	}

	resp := certificateListResponse{
		Certificates: make([]certificateResponse, 0, len(certs)),
		Count:        len(certs),
	}
	for i := range certs {
		resp.Certificates = append(resp.Certificates, h.toSchemaCertificateResponse(&certs[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// GetCertificate returns a single certificate by voucher code
func (h *handler) GetCertificate(c *gin.Context) {
	voucher := c.Param("voucher")
	if voucher == "" {
		respondBadRequest(c, "Voucher code is required")
		return
	}

	cert, err := h.store.GetCertificateByVoucher(c.Request.Context(), voucher)
	if err != nil {
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.toSchemaCertificateResponse(cert))
}

func (h *handler) toCertificateResponse(cert *domain.Certificate) certificateResponse {
	return certificateResponse{
		VoucherCode:      cert.VoucherCode,
		VerificationHash: cert.VerificationHash,
		CustomerAddress:  cert.Customer.String(),
		RewardID:         uint64(cert.RewardID),
		RewardName:       cert.RewardName,
		RedeemedAt:       cert.RedeemedAt,
		CID:              cert.CID.String(),
		URL:              h.gatewayURL(cert.CID),
	}
}

func (h *handler) toSchemaCertificateResponse(cert *schema.Certificate) certificateResponse {
	return certificateResponse{
		VoucherCode:      cert.VoucherCode,
		VerificationHash: cert.VerificationHash,
		CustomerAddress:  cert.CustomerAddress,
		RewardID:         cert.RewardID,
		RewardName:       cert.RewardName,
		RedeemedAt:       cert.RedeemedAt,
		CID:              cert.CID,
		URL:              h.gatewayURL(domain.CID(cert.CID)),
	}
}

func (h *handler) gatewayURL(cid domain.CID) string {
	if h.config.GatewayURL == "" || cid == "" {
		return ""
	}
	return fmt.Sprintf("%s/ipfs/%s", h.config.GatewayURL, cid)
}

func parseRewardID(c *gin.Context) (domain.RewardID, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		respondBadRequest(c, "Invalid reward id")
		return 0, false
	}
	return domain.RewardID(id), true
}
