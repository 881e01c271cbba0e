package luck

// Reference parameter values used by the balance proposals.
const (
	BaselinePerLevel = 10.0
	EnhancedPerLevel = 15.0

	TwoStageBreakpoint = 15
	TwoStageRate1      = 15.0
	TwoStageRate2      = 20.0

	SqrtScale = 50.0

	PowerExponent = 1.3
	PowerScale    = 5.0

	HybridAfter     = 20
	HybridExtraRate = 5.0
)

// BaselineLinear is the first uncapped +10%/level model.
func BaselineLinear() Linear { return Linear{PerLevel: BaselinePerLevel} }

// EnhancedLinear is proposal A: every tier strengthened x1.5.
func EnhancedLinear() Linear { return Linear{PerLevel: EnhancedPerLevel} }

// ShippedTwoStage is proposal B, the formula the game uses.
func ShippedTwoStage() TwoStage {
	return TwoStage{Breakpoint: TwoStageBreakpoint, Rate1: TwoStageRate1, Rate2: TwoStageRate2}
}

// ProposalSqrt is proposal C.
func ProposalSqrt() Sqrt { return Sqrt{Scale: SqrtScale} }

// ProposalPower is proposal D.
func ProposalPower() Power { return Power{Exponent: PowerExponent, Scale: PowerScale} }

// ProposalHybrid is the recommended hybrid with enhanced tiers.
func ProposalHybrid() Hybrid {
	return Hybrid{Rates: EnhancedTierRates(), After: HybridAfter, ExtraRate: HybridExtraRate}
}

// References returns one formula per kind, in Kinds order.
func References() []Formula {
	return []Formula{BaselineLinear(), ShippedTwoStage(), ProposalSqrt(), ProposalPower(), ProposalHybrid()}
}
