package portfolio

import (
	"github.com/shopspring/decimal"

	"TradeBench/internal/config"
	"TradeBench/internal/market"
)

// FeeSchedule models the asymmetric A-share fee structure: commission both
// ways, stamp duty on disposals only, transfer fee only on the Shanghai
// exchange.
type FeeSchedule struct {
	commission  decimal.Decimal
	stampDuty   decimal.Decimal
	transferFee decimal.Decimal
}

// NewFeeSchedule builds the schedule for one symbol's exchange.
func NewFeeSchedule(cfg *config.Config, exchange market.Exchange) FeeSchedule {
	s := FeeSchedule{
		commission: decimal.NewFromFloat(cfg.Market.CommissionRate),
		stampDuty:  decimal.NewFromFloat(cfg.Market.StampDutyRate),
	}
	if exchange == market.ExchangeShanghai {
		s.transferFee = decimal.NewFromFloat(cfg.Market.TransferFeeRate)
	}
	return s
}

// BuyRate is the total fee rate charged on a purchase.
func (s FeeSchedule) BuyRate() decimal.Decimal {
	return s.commission.Add(s.transferFee)
}

// SellRate is the total fee rate charged on a disposal.
func (s FeeSchedule) SellRate() decimal.Decimal {
	return s.commission.Add(s.stampDuty).Add(s.transferFee)
}

// BuyFee returns the fee charged on a purchase of the given gross amount.
func (s FeeSchedule) BuyFee(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(s.BuyRate())
}

// SellFee returns the fee charged on a disposal of the given gross amount.
func (s FeeSchedule) SellFee(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(s.SellRate())
}

// MaxBuyShares returns the largest lot-aligned share count the given cash
// can afford at price, with buy-side fees included in the cost.
func (s FeeSchedule) MaxBuyShares(cash, price decimal.Decimal, lot int64) int64 {
	if price.Sign() <= 0 || lot <= 0 {
		return 0
	}
	perLot := price.Mul(decimal.NewFromInt(lot)).Mul(decimal.NewFromInt(1).Add(s.BuyRate()))
	if perLot.Sign() <= 0 {
		return 0
	}
	lots := cash.Div(perLot).IntPart()
	if lots < 0 {
		return 0
	}
	return lots * lot
}
