package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"donationflow/internal/concurrency/fanin"
	"donationflow/internal/domain/convert"
	"donationflow/internal/domain/model"
	"donationflow/internal/domain/port"
)

var (
	ErrUnknownChain = errors.New("unknown chain")
	ErrNoFeed       = errors.New("no price feed configured")
)

// ModeSource reports the active price source.
type ModeSource interface {
	GetCurrentMode() model.DataMode
}

type PriceUseCase struct {
	chains  []model.Chain
	live    map[string]port.PriceFeedPort
	test    port.PriceFeedPort
	mode    ModeSource
	timeout time.Duration
	log     zerolog.Logger
	now     func() time.Time
}

// NewPriceUseCase wires the live feeds (keyed by feed name) and the test
// feed. timeout bounds each upstream fetch; zero leaves it to the caller's
// context.
func NewPriceUseCase(chains []model.Chain, live []port.PriceFeedPort, test port.PriceFeedPort, mode ModeSource, timeout time.Duration, log zerolog.Logger) *PriceUseCase {
	feeds := make(map[string]port.PriceFeedPort, len(live))
	for _, f := range live {
		feeds[f.Name()] = f
	}
	return &PriceUseCase{
		chains:  chains,
		live:    feeds,
		test:    test,
		mode:    mode,
		timeout: timeout,
		log:     log,
		now:     time.Now,
	}
}

func (uc *PriceUseCase) Chains() []model.Chain {
	return uc.chains
}

// Chain resolves a preset by name, case-insensitively.
func (uc *PriceUseCase) Chain(name string) (model.Chain, error) {
	c, ok := model.ChainByName(uc.chains, name)
	if !ok {
		return model.Chain{}, fmt.Errorf("%w: %q", ErrUnknownChain, name)
	}
	return c, nil
}

func (uc *PriceUseCase) feedFor(c model.Chain) (port.PriceFeedPort, error) {
	if uc.mode != nil && uc.mode.GetCurrentMode() == model.TestMode && uc.test != nil {
		return uc.test, nil
	}
	f, ok := uc.live[c.Feed]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoFeed, c.Feed)
	}
	return f, nil
}

func (uc *PriceUseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.timeout > 0 {
		return context.WithTimeout(ctx, uc.timeout)
	}
	return ctx, func() {}
}

// GetPrice returns the current price of the chain's native token on the given
// network. A failed fetch yields a price of 0, not an error.
func (uc *PriceUseCase) GetPrice(ctx context.Context, chainName string, networkID int64) (model.Price, error) {
	c, err := uc.Chain(chainName)
	if err != nil {
		return model.Price{}, err
	}
	feed, err := uc.feedFor(c)
	if err != nil {
		return model.Price{}, err
	}
	return uc.fetch(ctx, feed, c, c.PriceKey(networkID)), nil
}

func (uc *PriceUseCase) fetch(ctx context.Context, feed port.PriceFeedPort, c model.Chain, assetID string) model.Price {
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	p, err := feed.FetchPrice(ctx, assetID)
	if err != nil {
		uc.log.Warn().Err(err).Str("chain", c.Name).Str("asset", assetID).Str("feed", feed.Name()).Msg("price unavailable")
		p = model.Price{
			AssetID:   assetID,
			Source:    feed.Name(),
			FetchedAt: uc.now().UTC(),
		}
	}
	p.Symbol = c.SymbolForAsset(assetID)
	return p
}

// GetBoard prices every asset of every preset concurrently.
func (uc *PriceUseCase) GetBoard(ctx context.Context) []model.Price {
	var results []<-chan model.Price

	for _, c := range uc.chains {
		feed, err := uc.feedFor(c)
		if err != nil {
			uc.log.Error().Err(err).Str("chain", c.Name).Msg("skipping chain on board")
			continue
		}
		for _, assetID := range c.AssetIDs() {
			ch := make(chan model.Price, 1)
			go func(c model.Chain, feed port.PriceFeedPort, assetID string) {
				defer close(ch)
				ch <- uc.fetch(ctx, feed, c, assetID)
			}(c, feed, assetID)
			results = append(results, ch)
		}
	}

	board := make([]model.Price, 0, len(results))
	for p := range fanin.FanIn(results...) {
		board = append(board, p)
	}
	sort.Slice(board, func(i, j int) bool { return board[i].AssetID < board[j].AssetID })
	return board
}

type QuoteRequest struct {
	Chain     string
	NetworkID int64
	USDAmount float64
	// Balance is the donor's native balance, when the wallet is connected.
	Balance *float64
}

// Quote converts a USD amount to the chain's native token. When the price is
// unavailable the quote carries a zero token amount and cannot be donated.
func (uc *PriceUseCase) Quote(ctx context.Context, req QuoteRequest) (model.Quote, error) {
	c, err := uc.Chain(req.Chain)
	if err != nil {
		return model.Quote{}, err
	}
	feed, err := uc.feedFor(c)
	if err != nil {
		return model.Quote{}, err
	}

	fetchCtx, cancel := uc.withTimeout(ctx)
	price := feed.FetchUSDPrice(fetchCtx, c.PriceKey(req.NetworkID))
	cancel()

	token := convert.USDToToken(req.USDAmount, price)

	q := model.Quote{
		Chain:          c.Name,
		NetworkID:      req.NetworkID,
		Symbol:         c.SymbolFor(req.NetworkID),
		USDAmount:      req.USDAmount,
		Price:          price,
		PriceAvailable: price != 0,
		TokenAmount:    token,
		TokenDisplay:   convert.RoundToken(token),
		BaseUnits:      convert.ToBaseUnits(token, c.Decimals).String(),
		BalanceUSD:     decimal.Zero,
		QuotedAt:       uc.now().UTC(),
	}

	canDonate := req.USDAmount > 0 && price != 0 && token > 0
	if req.Balance != nil {
		balance := *req.Balance
		q.Balance = &balance
		q.BalanceUSD = convert.RoundUSD(convert.TokenToUSD(balance, price))
		if token > balance {
			canDonate = false
			if req.USDAmount > 0 {
				q.Shortfall = token - balance
			}
		}
	}
	q.CanDonate = canDonate
	return q, nil
}

// MaxAmount is the USD value of the whole balance, rounded to cents. It is
// zero when the balance is empty or the price is unavailable.
func (uc *PriceUseCase) MaxAmount(ctx context.Context, chainName string, networkID int64, balance float64) (decimal.Decimal, float64, error) {
	c, err := uc.Chain(chainName)
	if err != nil {
		return decimal.Zero, 0, err
	}
	feed, err := uc.feedFor(c)
	if err != nil {
		return decimal.Zero, 0, err
	}

	fetchCtx, cancel := uc.withTimeout(ctx)
	defer cancel()
	price := feed.FetchUSDPrice(fetchCtx, c.PriceKey(networkID))

	if balance <= 0 || price == 0 {
		return decimal.Zero, price, nil
	}
	return convert.RoundUSD(convert.TokenToUSD(balance, price)), price, nil
}
