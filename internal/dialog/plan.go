package dialog

// ScreenKind names the screen a transition wants rendered. The session
// use case resolves each screen into concrete content (text, image,
// keyboard), pulling catalog data from the backend where needed.
type ScreenKind int

const (
	ScreenNone ScreenKind = iota
	ScreenCaptcha
	ScreenMainMenu
	ScreenCatalog
	ScreenProduct
	ScreenDepositGateways
	ScreenDepositAmounts
	ScreenDepositConfirm
	ScreenBalance
	ScreenOrders
	ScreenSubscriptions
	ScreenReferral
	ScreenReferralTokenPrompt
	ScreenSupport
)

// Effect is a side effect the session use case must run before (or
// instead of) rendering. The machine only names effects; it never
// performs them.
type Effect int

const (
	// EffectIssueChallenge requests a fresh captcha challenge and embeds
	// the solution into the new state.
	EffectIssueChallenge Effect = iota
	// EffectConfirmCaptcha marks the user verified on the backend.
	EffectConfirmCaptcha
	// EffectCreateInvoice asks the payment backend for an invoice and
	// caches the draft in state.
	EffectCreateInvoice
	// EffectPurchase buys the product carried by the current state.
	EffectPurchase
	// EffectRegisterReferralToken submits the free-text referral token.
	EffectRegisterReferralToken
)

// Plan is the side-effect plan a transition produces: which screen to
// show, which effects to execute first, and an optional transient notice
// (a callback alert that does not replace the main message).
type Plan struct {
	Screen  ScreenKind
	Effects []Effect
	Notice  string
}

// Empty reports whether the plan does nothing at all; the session layer
// then skips rendering entirely (ignored/stale input).
func (p Plan) Empty() bool {
	return p.Screen == ScreenNone && len(p.Effects) == 0 && p.Notice == ""
}
