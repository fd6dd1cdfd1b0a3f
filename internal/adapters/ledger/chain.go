package ledger

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	portssvc "github.com/SscSPs/heartchain_backend/internal/core/ports/services"
	"github.com/SscSPs/heartchain_backend/internal/middleware"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ModeChain is reported by ChainRecorder.
const ModeChain = "chain"

const (
	defaultConfirmTimeout = 120 * time.Second
	defaultPollInterval   = 2 * time.Second
	// gasHeadroomPercent is added on top of the node's gas estimate.
	gasHeadroomPercent = 20
)

// ChainBackend is the subset of *ethclient.Client the recorder needs.
type ChainBackend interface {
	ChainID(ctx context.Context) (*big.Int, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
}

// ChainOption configures a ChainRecorder.
type ChainOption func(*ChainRecorder)

// WithConfirmTimeout bounds how long Record waits for a receipt.
func WithConfirmTimeout(d time.Duration) ChainOption {
	return func(r *ChainRecorder) {
		if d > 0 {
			r.confirmTimeout = d
		}
	}
}

// WithPollInterval sets how often the receipt is polled.
func WithPollInterval(d time.Duration) ChainOption {
	return func(r *ChainRecorder) {
		if d > 0 {
			r.pollInterval = d
		}
	}
}

// WithContractAddress sends records to addr instead of the signer's own address.
func WithContractAddress(addr string) ChainOption {
	return func(r *ChainRecorder) {
		if addr != "" && common.IsHexAddress(addr) {
			r.to = common.HexToAddress(addr)
		}
	}
}

// ChainRecorder writes each record as calldata of a signed transaction and
// waits for it to be mined. Confirmed records are indexed in a Store.
type ChainRecorder struct {
	backend        ChainBackend
	store          Store
	key            *ecdsa.PrivateKey
	from           common.Address
	to             common.Address
	signer         types.Signer
	explorerURL    string
	confirmTimeout time.Duration
	pollInterval   time.Duration
	now            func() time.Time

	// submitMu serialises nonce allocation and submission.
	submitMu sync.Mutex
}

// NewChainRecorder resolves the chain id and builds a recorder signing with privateKeyHex.
func NewChainRecorder(ctx context.Context, backend ChainBackend, store Store, privateKeyHex, explorerBaseURL string, opts ...ChainOption) (*ChainRecorder, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid chain private key: %v", apperrors.ErrNotConfigured, err)
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, apperrors.Downstream("chain id lookup", err)
	}

	from := crypto.PubkeyToAddress(key.PublicKey)
	r := &ChainRecorder{
		backend:        backend,
		store:          store,
		key:            key,
		from:           from,
		to:             from,
		signer:         types.LatestSignerForChainID(chainID),
		explorerURL:    explorerBaseURL,
		confirmTimeout: defaultConfirmTimeout,
		pollInterval:   defaultPollInterval,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

var _ portssvc.LedgerRecorder = (*ChainRecorder)(nil)

// Address is the account records are signed with.
func (r *ChainRecorder) Address() common.Address { return r.from }

func (r *ChainRecorder) Record(ctx context.Context, req domain.LedgerEntryRequest) (string, error) {
	if err := validateEntry(req); err != nil {
		return "", err
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	rec := newRecord(req, r.now())
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("failed to encode ledger record: %w", err)
	}

	signed, err := r.submit(ctx, data)
	if err != nil {
		return "", err
	}
	logger.Info("Ledger transaction submitted", slog.String("tx_hash", signed.Hash().Hex()), slog.Uint64("nonce", signed.Nonce()))

	receipt, err := r.waitForReceipt(ctx, signed.Hash())
	if err != nil {
		return "", err
	}

	rec.TxID = signed.Hash().Hex()
	block := receipt.BlockNumber.Uint64()
	rec.BlockNumber = &block

	// The transaction is final at this point. An index failure must not make
	// the caller write the record a second time.
	if err := r.store.Append(ctx, rec); err != nil {
		logger.Error("Confirmed ledger record could not be indexed", slog.String("tx_hash", rec.TxID), slog.String("error", err.Error()))
	}

	logger.Info("Ledger record confirmed",
		slog.String("mode", ModeChain),
		slog.String("tx_hash", rec.TxID),
		slog.Uint64("block", block),
		slog.String("campaign_id", rec.CampaignID),
		slog.Int64("amount_paise", rec.AmountMinor),
		slog.String("donor_id", rec.DonorIdentity),
	)
	return rec.TxID, nil
}

func (r *ChainRecorder) submit(ctx context.Context, data []byte) (*types.Transaction, error) {
	r.submitMu.Lock()
	defer r.submitMu.Unlock()

	nonce, err := r.backend.PendingNonceAt(ctx, r.from)
	if err != nil {
		return nil, apperrors.Downstream("pending nonce lookup", err)
	}
	gasPrice, err := r.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, apperrors.Downstream("gas price lookup", err)
	}
	to := r.to
	gas, err := r.backend.EstimateGas(ctx, ethereum.CallMsg{From: r.from, To: &to, Data: data})
	if err != nil {
		return nil, apperrors.Downstream("gas estimation", err)
	}
	gas += gas * gasHeadroomPercent / 100

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    big.NewInt(0),
		Gas:      gas,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, r.signer, r.key)
	if err != nil {
		return nil, fmt.Errorf("failed to sign ledger transaction: %w", err)
	}
	if err := r.backend.SendTransaction(ctx, signed); err != nil {
		return nil, apperrors.Downstream("send ledger transaction", err)
	}
	return signed, nil
}

// waitForReceipt polls until the transaction is mined or the confirmation
// timeout elapses. Both a timeout and a reverted receipt are hard failures.
func (r *ChainRecorder) waitForReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	waitCtx, cancel := context.WithTimeout(ctx, r.confirmTimeout)
	defer cancel()

	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := r.backend.TransactionReceipt(waitCtx, hash)
		switch {
		case err == nil && receipt != nil:
			if receipt.Status != types.ReceiptStatusSuccessful {
				return nil, fmt.Errorf("%w: ledger transaction %s reverted", apperrors.ErrDownstream, hash.Hex())
			}
			return receipt, nil
		case err != nil && !errors.Is(err, ethereum.NotFound) && waitCtx.Err() == nil:
			return nil, apperrors.Downstream("receipt lookup", err)
		}

		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("%w: ledger transaction %s not confirmed within %s", apperrors.ErrDownstream, hash.Hex(), r.confirmTimeout)
		case <-ticker.C:
		}
	}
}

// Read serves from the store and falls back to decoding the transaction calldata.
func (r *ChainRecorder) Read(ctx context.Context, txID string) (*domain.LedgerRecord, error) {
	rec, err := r.store.Get(ctx, txID)
	if err == nil || !errors.Is(err, apperrors.ErrNotFound) {
		return rec, err
	}

	if len(strings.TrimPrefix(txID, "0x")) != 2*common.HashLength {
		return nil, apperrors.ErrNotFound
	}
	hash := common.HexToHash(txID)
	tx, pending, err := r.backend.TransactionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Downstream("transaction lookup", err)
	}
	if pending {
		return nil, apperrors.ErrNotFound
	}

	var onChain domain.LedgerRecord
	if err := json.Unmarshal(tx.Data(), &onChain); err != nil || onChain.CampaignID == "" {
		return nil, apperrors.ErrNotFound
	}
	onChain.TxID = hash.Hex()
	return &onChain, nil
}

func (r *ChainRecorder) Recent(ctx context.Context, limit int) ([]domain.LedgerRecord, error) {
	return r.store.Recent(ctx, limit)
}

func (r *ChainRecorder) Count(ctx context.Context) (int64, error) {
	return r.store.Count(ctx)
}

func (r *ChainRecorder) TotalAmount(ctx context.Context) (int64, error) {
	return r.store.TotalAmount(ctx)
}

func (r *ChainRecorder) ExplorerURL(txID string) string {
	return explorerURL(r.explorerURL, txID)
}

func (r *ChainRecorder) Mode() string { return ModeChain }
