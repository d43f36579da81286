package server

import (
	"github.com/shopspring/decimal"

	"github.com/publu/gearbox-sentinel/internal/types"
)

// Wire shapes for the position scan: errors become strings and unavailable
// USD values stay null instead of a misleading zero.
type scanResponse struct {
	Chain    string             `json:"chain"`
	Wallet   string             `json:"wallet"`
	Scanned  int                `json:"scanned_managers"`
	Total    int                `json:"total_managers"`
	Reports  []reportResponse   `json:"reports"`
	Warnings []warningResponse  `json:"warnings,omitempty"`
}

type reportResponse struct {
	Account        string             `json:"account"`
	Manager        string             `json:"manager"`
	Underlying     string             `json:"underlying"`
	DebtRaw        string             `json:"debt_raw"`
	DebtUSD        *decimal.Decimal   `json:"debt_usd"`
	CollateralUSD  decimal.Decimal    `json:"collateral_usd"`
	Ratio          *decimal.Decimal   `json:"collateral_ratio"`
	AtRisk         bool               `json:"at_risk"`
	Incomplete     bool               `json:"incomplete"`
	LastDebtUpdate uint64             `json:"last_debt_update,omitempty"`
	Collateral     []holdingResponse  `json:"collateral"`
}

type holdingResponse struct {
	Token                string           `json:"token"`
	Symbol               string           `json:"symbol"`
	Raw                  string           `json:"raw"`
	LiquidationThreshold decimal.Decimal  `json:"liquidation_threshold"`
	USDValue             *decimal.Decimal `json:"usd_value"`
}

type warningResponse struct {
	Manager string `json:"manager"`
	Error   string `json:"error"`
}

func positionScanResponse(scan *types.PositionScan) scanResponse {
	resp := scanResponse{
		Chain:   scan.Chain.ID,
		Wallet:  scan.Wallet.Hex(),
		Scanned: scan.Scanned,
		Total:   len(scan.Chain.Managers),
		Reports: make([]reportResponse, 0, len(scan.Reports)),
	}
	for _, report := range scan.Reports {
		rr := reportResponse{
			Account:        report.Account.Account.Hex(),
			Manager:        report.Account.Manager.Hex(),
			Underlying:     report.Account.Underlying.Symbol,
			DebtRaw:        report.Account.DebtRaw.String(),
			CollateralUSD:  report.CollateralUSD,
			Ratio:          report.Ratio,
			AtRisk:         report.AtRisk,
			Incomplete:     report.Incomplete,
			LastDebtUpdate: report.Account.LastDebtUpdate,
			Collateral:     make([]holdingResponse, 0, len(report.Account.Collateral)),
		}
		if report.DebtKnown {
			debt := report.DebtUSD
			rr.DebtUSD = &debt
		}
		for _, holding := range report.Account.Collateral {
			hr := holdingResponse{
				Token:                holding.Token.Address.Hex(),
				Symbol:               holding.Token.Symbol,
				Raw:                  holding.Raw.String(),
				LiquidationThreshold: holding.LiquidationThreshold,
			}
			if holding.PriceKnown {
				usd := holding.USDValue
				hr.USDValue = &usd
			}
			rr.Collateral = append(rr.Collateral, hr)
		}
		resp.Reports = append(resp.Reports, rr)
	}
	for _, warning := range scan.Warnings {
		resp.Warnings = append(resp.Warnings, warningResponse{
			Manager: warning.Manager.Hex(),
			Error:   warning.Err.Error(),
		})
	}
	return resp
}
