package dialog

// Transition is the dialogue state machine: (state, event) -> (next
// state, plan). It is total — every pair is defined — and pure. Unknown
// or out-of-state input returns the input state unchanged with an empty
// plan, so malformed and stale button presses degrade to no-ops.
//
// Notice values in the returned plan are translation keys, not display
// text; the session layer localizes them.
func Transition(s *State, ev Event) (*State, Plan) {
	if s == nil {
		s = NewState()
	}

	switch ev.Kind {
	case EventCommand:
		return transitionCommand(s, ev)
	case EventAction:
		return transitionAction(s, ev)
	case EventText:
		return transitionText(s, ev)
	}
	return s, Plan{}
}

func transitionCommand(s *State, ev Event) (*State, Plan) {
	switch ev.Command {
	case CommandStart:
		if !ev.Verified {
			return s.clone(KindAwaitingCaptcha), Plan{
				Screen:  ScreenCaptcha,
				Effects: []Effect{EffectIssueChallenge},
			}
		}
		return s.clone(KindMainMenu), Plan{Screen: ScreenMainMenu}
	case CommandReferral:
		if !ev.Verified {
			// The captcha gate applies to every entry point.
			return s.clone(KindAwaitingCaptcha), Plan{
				Screen:  ScreenCaptcha,
				Effects: []Effect{EffectIssueChallenge},
			}
		}
		return s.clone(KindAwaitingToken), Plan{Screen: ScreenReferralTokenPrompt}
	}
	return s, Plan{}
}

func transitionText(s *State, ev Event) (*State, Plan) {
	if s.Kind != KindAwaitingToken || ev.Text == "" {
		return s, Plan{}
	}
	return s.clone(KindMainMenu), Plan{
		Screen:  ScreenMainMenu,
		Effects: []Effect{EffectRegisterReferralToken},
		Notice:  "referral.token_accepted",
	}
}

func transitionAction(s *State, ev Event) (*State, Plan) {
	a := ev.Action

	if a.Kind == ActAnswerCaptcha {
		return answerCaptcha(s, a)
	}

	// Everything past the captcha gate requires a verified user; a stale
	// button pressed before verification is ignored.
	if !ev.Verified {
		return s, Plan{}
	}

	switch a.Kind {
	case ActToMainMenu:
		return s.clone(KindMainMenu), Plan{Screen: ScreenMainMenu}
	case ActToCategory:
		next := s.clone(KindBrowsing)
		next.CategoryID = a.CategoryID
		return next, Plan{Screen: ScreenCatalog}
	case ActToProduct:
		next := s.clone(KindProduct)
		next.ProductID = a.ProductID
		return next, Plan{Screen: ScreenProduct}
	case ActBuy:
		return buyProduct(s, a)
	case ActToDepositGateways:
		return s.clone(KindDepositGateway), Plan{Screen: ScreenDepositGateways}
	case ActSelectGateway:
		return selectGateway(s, a)
	case ActSelectAmount:
		return selectAmount(s, a)
	case ActToBalance:
		return s.clone(KindBalance), Plan{Screen: ScreenBalance}
	case ActToOrders:
		return s.clone(KindOrders), Plan{Screen: ScreenOrders}
	case ActToSubscriptions:
		return s.clone(KindSubscriptions), Plan{Screen: ScreenSubscriptions}
	case ActToReferral:
		return s.clone(KindReferral), Plan{Screen: ScreenReferral}
	case ActToSupport:
		return s.clone(KindSupport), Plan{Screen: ScreenSupport}
	}
	return s, Plan{}
}

// buyProduct accepts the buy button only from the product screen that
// rendered it; anything else is a stale press.
func buyProduct(s *State, a Action) (*State, Plan) {
	if s.Kind != KindProduct || s.ProductID != a.ProductID {
		return s, Plan{}
	}
	next := s.clone(KindProduct)
	next.ProductID = a.ProductID
	return next, Plan{Screen: ScreenProduct, Effects: []Effect{EffectPurchase}}
}
