package calculation

import (
	"github.com/quantfolio/taxalpha/internal/domain"
	"github.com/shopspring/decimal"
)

// waterfallInput is one year's netting problem: the current-year net
// short-term position and long-term gain, the three entering
// carryforward balances, and the cap inputs.
type waterfallInput struct {
	// NetShortTerm is generator gains minus collateral losses
	// harvested; negative means the year nets to a short-term loss.
	NetShortTerm decimal.Decimal
	LongTermGain decimal.Decimal

	ShortTermCF decimal.Decimal
	LongTermCF  decimal.Decimal
	NOLCF       decimal.Decimal

	Income             decimal.Decimal
	UsableOrdinaryLoss decimal.Decimal
	FilingStatus       domain.FilingStatus
	NOLFraction        decimal.Decimal
}

// waterfallResult is the outcome of the seven netting steps. All
// amounts are non-negative.
type waterfallResult struct {
	ShortTermCF decimal.Decimal // balance after the year
	LongTermCF  decimal.Decimal // balance after the year

	NOLUsed         decimal.Decimal
	CapitalLossUsed decimal.Decimal

	// STGainOffsetByCF is how much short-term gain steps 1 and 4
	// absorbed, needed for the conversion-benefit term.
	STGainOffsetByCF decimal.Decimal

	TaxableShortTerm decimal.Decimal
	TaxableLongTerm  decimal.Decimal
}

// runWaterfall executes the carryforward netting waterfall. The step
// order is load-bearing: it decides which bucket absorbs which offset
// first, and reordering changes the final balances.
func runWaterfall(in waterfallInput) waterfallResult {
	stCF := clampNonNeg(in.ShortTermCF)
	ltCF := clampNonNeg(in.LongTermCF)
	netST := in.NetShortTerm
	ltGain := clampNonNeg(in.LongTermGain)

	var offsetByCF decimal.Decimal

	// Step 1: short-term carryforward against a positive net
	// short-term gain.
	if netST.GreaterThan(decimal.Zero) {
		used := minDec(stCF, netST)
		stCF = stCF.Sub(used)
		netST = netST.Sub(used)
		offsetByCF = offsetByCF.Add(used)
	}

	// Step 2: long-term carryforward against long-term gain.
	used := minDec(ltCF, ltGain)
	ltCF = ltCF.Sub(used)
	ltGain = ltGain.Sub(used)

	// Step 3: remaining short-term carryforward cross-applied to
	// long-term gain.
	used = minDec(stCF, ltGain)
	stCF = stCF.Sub(used)
	ltGain = ltGain.Sub(used)

	// Step 4: remaining long-term carryforward cross-applied to
	// short-term gain.
	if netST.GreaterThan(decimal.Zero) {
		used = minDec(ltCF, netST)
		ltCF = ltCF.Sub(used)
		netST = netST.Sub(used)
		offsetByCF = offsetByCF.Add(used)
	}

	// Step 5: a current-year net short-term loss offsets remaining
	// long-term gain; the remainder becomes new short-term
	// carryforward merged into the running balance.
	if netST.LessThan(decimal.Zero) {
		curLoss := netST.Neg()
		used = minDec(curLoss, ltGain)
		ltGain = ltGain.Sub(used)
		stCF = stCF.Add(curLoss.Sub(used))
		netST = decimal.Zero
	}

	// Step 6: small-dollar cap draw-down against ordinary income,
	// short-term carryforward first, then long-term. There must be
	// ordinary income left after the usable ordinary loss to deduct
	// against.
	remainingIncome := clampNonNeg(in.Income.Sub(in.UsableOrdinaryLoss))
	capLimit := minDec(domain.CapitalLossCap(in.FilingStatus), remainingIncome)
	fromST := minDec(stCF, capLimit)
	stCF = stCF.Sub(fromST)
	fromLT := minDec(ltCF, capLimit.Sub(fromST))
	ltCF = ltCF.Sub(fromLT)
	capitalLossUsed := fromST.Add(fromLT)

	// Step 7: NOL usable this year, limited to the usable fraction of
	// taxable income before NOL. Usage draws on the entering balance;
	// the current year's contribution joins the balance afterwards.
	taxableBeforeNOL := clampNonNeg(in.Income.
		Add(clampNonNeg(netST)).
		Add(ltGain).
		Sub(in.UsableOrdinaryLoss).
		Sub(capitalLossUsed))
	nolUsed := minDec(clampNonNeg(in.NOLCF), in.NOLFraction.Mul(taxableBeforeNOL))

	return waterfallResult{
		ShortTermCF:      clampNonNeg(stCF),
		LongTermCF:       clampNonNeg(ltCF),
		NOLUsed:          clampNonNeg(nolUsed),
		CapitalLossUsed:  clampNonNeg(capitalLossUsed),
		STGainOffsetByCF: clampNonNeg(offsetByCF),
		TaxableShortTerm: clampNonNeg(netST),
		TaxableLongTerm:  clampNonNeg(ltGain),
	}
}
