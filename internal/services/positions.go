package services

import (
	"context"
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/publu/gearbox-sentinel/internal/clients/chainclient"
	"github.com/publu/gearbox-sentinel/internal/observability/metrics"
	"github.com/publu/gearbox-sentinel/internal/types"
	"github.com/publu/gearbox-sentinel/pkg"
)

var one = decimal.NewFromInt(1)

// ScanPositions enumerates every credit manager on the chain and reports the
// wallet's credit accounts, USD-valued and ordered by descending debt.
// A single manager failing is recorded as a warning and never aborts the
// scan; an unreachable RPC endpoint does, since no partial data would mean
// anything then.
func (s *Service) ScanPositions(ctx context.Context, walletAddr, chainID string) (*types.PositionScan, error) {
	logger := log.Ctx(ctx)

	wallet, err := pkg.ValidateAddress(walletAddr)
	if err != nil {
		return nil, err
	}
	chain, err := s.registry.Resolve(chainID)
	if err != nil {
		return nil, err
	}

	chainClient, err := s.dialChain(chain, s.cfg.ChainConfig(chain.ID))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrChainUnreachable, chain.ID, err)
	}
	if err := chainClient.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrChainUnreachable, chain.ID, err)
	}

	start := time.Now()
	logger.Info().
		Str("chain", chain.ID).
		Str("wallet", wallet.Hex()).
		Int("manager_count", len(chain.Managers)).
		Msg("Scanning CreditManagers")

	type managerResult struct {
		accounts []types.CreditAccount
		err      error
	}
	results := make([]managerResult, len(chain.Managers))

	// Managers are independent; fan out with bounded concurrency and put the
	// results back in manager order so output stays deterministic.
	var g errgroup.Group
	g.SetLimit(s.cfg.Scan.Concurrency)
	for i, manager := range chain.Managers {
		g.Go(func() error {
			accounts, err := s.scanManager(ctx, chainClient, chain, manager, wallet)
			results[i] = managerResult{accounts: accounts, err: err}
			return nil
		})
	}
	// Errors are carried in results, never through the group.
	_ = g.Wait()

	scan := &types.PositionScan{Chain: chain, Wallet: wallet}
	for i, res := range results {
		if res.err != nil {
			metrics.RecordManagerScanFailure()
			logger.Warn().
				Err(res.err).
				Str("manager", chain.Managers[i].Hex()).
				Msg("Skipping unreachable CreditManager")
			scan.Warnings = append(scan.Warnings, types.ManagerWarning{
				Manager: chain.Managers[i],
				Err:     res.err,
			})
			continue
		}
		scan.Scanned++
		for _, acct := range res.accounts {
			scan.Reports = append(scan.Reports, s.valueAccount(ctx, chain, acct))
		}
	}

	sortReports(scan.Reports)

	metrics.RecordScanDuration(chain.ID, metrics.Success, time.Since(start))
	logger.Info().
		Int("scanned", scan.Scanned).
		Int("manager_count", len(chain.Managers)).
		Int("accounts", len(scan.Reports)).
		Int("warnings", len(scan.Warnings)).
		Msg("Scan complete")

	return scan, nil
}

// scanManager reads every credit account a manager has issued and keeps the
// ones the wallet owns.
func (s *Service) scanManager(
	ctx context.Context,
	chainClient chainclient.ChainInterface,
	chain *types.Chain,
	manager, wallet common.Address,
) ([]types.CreditAccount, error) {
	logger := log.Ctx(ctx)

	accounts, err := chainClient.CreditAccounts(ctx, manager)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, nil
	}

	// The underlying is display metadata; a failed lookup degrades the
	// report rather than dropping the manager.
	underlying := types.Token{Symbol: "?", Decimals: 18}
	if addr, err := chainClient.Underlying(ctx, manager); err != nil {
		logger.Warn().Err(err).Str("manager", manager.Hex()).Msg("Could not resolve underlying token")
	} else {
		underlying = chain.Token(addr)
	}

	var owned []types.CreditAccount
	for _, acct := range accounts {
		info, err := chainClient.CreditAccountInfo(ctx, manager, acct)
		if err != nil {
			logger.Debug().Err(err).Str("account", acct.Hex()).Msg("Skipping unreadable credit account")
			continue
		}
		if info.Borrower != wallet {
			continue
		}
		owned = append(owned, types.CreditAccount{
			Account:        acct,
			Owner:          info.Borrower,
			Manager:        manager,
			Underlying:     underlying,
			DebtRaw:        info.Debt,
			LastDebtUpdate: info.LastDebtUpdate,
			Collateral:     s.readCollateral(ctx, chainClient, chain, manager, acct, info.EnabledTokensMask),
		})
	}
	return owned, nil
}

// readCollateral walks the enabled-tokens mask bit by bit. A set bit with a
// zero balance is still a holding: the account has the token enabled.
func (s *Service) readCollateral(
	ctx context.Context,
	chainClient chainclient.ChainInterface,
	chain *types.Chain,
	manager, account common.Address,
	mask *big.Int,
) []types.CollateralHolding {
	logger := log.Ctx(ctx)

	var holdings []types.CollateralHolding
	for i := 0; i < mask.BitLen(); i++ {
		if mask.Bit(i) == 0 {
			continue
		}
		bit := new(big.Int).Lsh(big.NewInt(1), uint(i))
		tokenAddr, lt, err := chainClient.CollateralTokenByMask(ctx, manager, bit)
		if err != nil {
			logger.Warn().Err(err).Int("bit", i).Str("manager", manager.Hex()).
				Msg("Could not resolve collateral token for mask bit")
			continue
		}
		raw, err := chainClient.BalanceOf(ctx, tokenAddr, account)
		if err != nil {
			// Reporting a zero here would be mistaken for a genuine empty
			// balance, so the token is skipped instead.
			logger.Warn().Err(err).Str("token", tokenAddr.Hex()).Str("account", account.Hex()).
				Msg("Could not read collateral balance")
			continue
		}
		holdings = append(holdings, types.CollateralHolding{
			Token:                chain.Token(tokenAddr),
			Raw:                  raw,
			LiquidationThreshold: lt,
		})
	}
	return holdings
}

// valueAccount prices the account's debt and collateral. Unavailable prices
// leave the affected value out of both ratio terms and flag the report
// incomplete, they are never counted as zero.
func (s *Service) valueAccount(ctx context.Context, chain *types.Chain, acct types.CreditAccount) types.PositionReport {
	report := types.PositionReport{Account: acct}

	if price, err := s.Price(ctx, chain.ID, acct.Underlying.Address); err != nil {
		report.Incomplete = true
	} else {
		report.DebtKnown = true
		report.DebtUSD = decimal.NewFromBigInt(acct.DebtRaw, -int32(acct.Underlying.Decimals)).Mul(price)
	}

	for i := range report.Account.Collateral {
		holding := &report.Account.Collateral[i]
		price, err := s.Price(ctx, chain.ID, holding.Token.Address)
		if err != nil {
			report.Incomplete = true
			continue
		}
		holding.PriceKnown = true
		holding.USDValue = decimal.NewFromBigInt(holding.Raw, -int32(holding.Token.Decimals)).Mul(price)
		report.CollateralUSD = report.CollateralUSD.Add(holding.USDValue)
	}

	// No open debt means no meaningful health ratio; that is "n/a", not 0.
	if report.DebtKnown && report.DebtUSD.IsPositive() {
		ratio := report.CollateralUSD.Div(report.DebtUSD)
		report.Ratio = &ratio
		report.AtRisk = ratio.LessThan(one)
	}
	return report
}

// sortReports orders by descending debt USD; zero-debt accounts end up last,
// stable among themselves in manager order.
func sortReports(reports []types.PositionReport) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].DebtUSD.GreaterThan(reports[j].DebtUSD)
	})
}
