package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/cinemavault/internal/model"
)

// DefaultPollInterval is how often a pending transaction's receipt is
// requested.
const DefaultPollInterval = 2 * time.Second

// Recorder stores a paid rental with the storefront API.
type Recorder interface {
	RecordRental(ctx context.Context, movieID string, price float64, txHash, wallet string) (model.Rental, error)
}

// TxStatus is the terminal state of a tracked transaction.
type TxStatus string

const (
	TxSuccess TxStatus = "success"
	TxFailed  TxStatus = "failed"
	TxError   TxStatus = "error"
)

// Outcome reports how a tracked transaction ended.  Err is set when
// Status is TxError.
type Outcome struct {
	Hash   string
	Status TxStatus
	Err    error
}

// RentResult is returned by Rent once the payment has been submitted.
// Outcome delivers exactly one value when the receipt is known.
type RentResult struct {
	Hash    string
	Rental  model.Rental
	Outcome <-chan Outcome
}

// Orchestrator pays for rentals from one wallet to one contract.
type Orchestrator struct {
	provider Provider
	recorder Recorder
	mirror   *Mirror
	contract string
	wallet   string
	poll     time.Duration
	now      func() time.Time
}

// Options configures an Orchestrator.  PollInterval defaults to
// DefaultPollInterval and Now to time.Now.
type Options struct {
	Contract     string
	Wallet       string
	PollInterval time.Duration
	Now          func() time.Time
}

func NewOrchestrator(p Provider, r Recorder, m *Mirror, opts Options) *Orchestrator {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if m == nil {
		m = NewMirror()
	}
	return &Orchestrator{
		provider: p,
		recorder: r,
		mirror:   m,
		contract: opts.Contract,
		wallet:   opts.Wallet,
		poll:     opts.PollInterval,
		now:      opts.Now,
	}
}

// Mirror returns the local rental mirror fed by Rent.
func (o *Orchestrator) Mirror() *Mirror { return o.mirror }

type txParams struct {
	To       string         `json:"to"`
	From     string         `json:"from"`
	Value    *hexutil.Big   `json:"value"`
	GasPrice *hexutil.Big   `json:"gasPrice"`
	ChainID  *hexutil.Big   `json:"chainId"`
	Nonce    hexutil.Uint64 `json:"nonce"`
	Data     hexutil.Bytes  `json:"data"`
}

// Rent pays m.Price to the contract, starts tracking the transaction and
// records the rental right away without waiting for it to be mined.  A
// recording failure is returned together with the submitted hash and
// outcome channel since the payment is already on its way.
func (o *Orchestrator) Rent(ctx context.Context, m model.Movie) (RentResult, error) {
	if err := ValidateAddress(o.contract, "contract address"); err != nil {
		return RentResult{}, err
	}
	if err := ValidateAddress(o.wallet, "user address"); err != nil {
		return RentResult{}, err
	}
	price, err := ToWei(m.Price)
	if err != nil {
		return RentResult{}, err
	}

	data, err := RentMovieData(m.ID)
	if err != nil {
		return RentResult{}, fmt.Errorf("encode rentMovie: %w", err)
	}

	var (
		chainID, gasPrice, balance hexutil.Big
		nonce                      hexutil.Uint64
	)
	if err := o.provider.Call(ctx, "eth_chainId", nil, &chainID); err != nil {
		return RentResult{}, err
	}
	if err := o.provider.Call(ctx, "eth_gasPrice", nil, &gasPrice); err != nil {
		return RentResult{}, err
	}
	if err := o.provider.Call(ctx, "eth_getTransactionCount", []any{o.wallet, "latest"}, &nonce); err != nil {
		return RentResult{}, err
	}
	if err := o.provider.Call(ctx, "eth_getBalance", []any{o.wallet, "latest"}, &balance); err != nil {
		return RentResult{}, err
	}
	if balance.ToInt().Cmp(price) < 0 {
		return RentResult{}, ErrInsufficientBalance
	}
	log.Debug().Str("component", "wallet").Stringer("chain_id", &chainID).Stringer("gas_price", &gasPrice).
		Uint64("nonce", uint64(nonce)).Stringer("balance", &balance).Msg("wallet state")

	tx := txParams{
		To:       o.contract,
		From:     o.wallet,
		Value:    (*hexutil.Big)(price),
		GasPrice: &gasPrice,
		ChainID:  &chainID,
		Nonce:    nonce,
		Data:     data,
	}
	var hash string
	if err := o.provider.Call(ctx, "eth_sendTransaction", []any{tx}, &hash); err != nil {
		return RentResult{}, err
	}
	if hash == "" {
		return RentResult{}, ErrNoTransactionHash
	}
	log.Info().Str("component", "wallet").Str("tx", hash).Str("movie_id", m.ID).Msg("payment submitted")

	res := RentResult{Hash: hash, Outcome: o.Track(ctx, hash)}

	rental, err := o.recorder.RecordRental(ctx, m.ID, m.Price, hash, o.wallet)
	if err != nil {
		return res, fmt.Errorf("record rental: %w", err)
	}
	res.Rental = rental

	end := rental.EndTime
	if end.IsZero() {
		end = o.now().Add(model.RentalWindow)
	}
	o.mirror.Add(MirrorEntry{MovieID: m.ID, Title: m.Title, TransactionHash: hash, EndTime: end})
	return res, nil
}

type receipt struct {
	Status string `json:"status"`
}

// Track polls for the receipt of hash until it is mined, the provider
// fails or ctx ends.  The returned channel receives one Outcome.
func (o *Orchestrator) Track(ctx context.Context, hash string) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		out <- o.waitReceipt(ctx, hash)
	}()
	return out
}

func (o *Orchestrator) waitReceipt(ctx context.Context, hash string) Outcome {
	t := time.NewTicker(o.poll)
	defer t.Stop()
	for {
		var r *receipt
		if err := o.provider.Call(ctx, "eth_getTransactionReceipt", []any{hash}, &r); err != nil {
			log.Warn().Str("component", "wallet").Str("tx", hash).Err(err).Msg("receipt lookup failed")
			return Outcome{Hash: hash, Status: TxError, Err: err}
		}
		if r != nil {
			if r.Status == "0x1" {
				return Outcome{Hash: hash, Status: TxSuccess}
			}
			return Outcome{Hash: hash, Status: TxFailed}
		}
		select {
		case <-ctx.Done():
			return Outcome{Hash: hash, Status: TxError, Err: ctx.Err()}
		case <-t.C:
		}
	}
}
