package dialog

// selectGateway starts stage two of the deposit wizard. The gateway is
// carried forward in state from here on; amount buttons encode only the
// amount.
func selectGateway(s *State, a Action) (*State, Plan) {
	if s.Kind != KindDepositGateway {
		return s, Plan{}
	}
	next := s.clone(KindDepositAmount)
	next.Gateway = a.Gateway
	return next, Plan{Screen: ScreenDepositAmounts}
}

// selectAmount enters the confirm stage. It is valid from the amount
// screen, and from the confirm screen itself only as the explicit retry
// after a failed invoice creation (invoice still nil, same amount).
// A repeated press with an invoice already cached is a stale button.
func selectAmount(s *State, a Action) (*State, Plan) {
	switch s.Kind {
	case KindDepositAmount:
		if s.Gateway == "" {
			return s, Plan{}
		}
	case KindDepositConfirm:
		if s.Invoice != nil || s.Amount != a.Amount {
			return s, Plan{}
		}
	default:
		return s, Plan{}
	}

	next := s.clone(KindDepositConfirm)
	next.Gateway = s.Gateway
	next.Amount = a.Amount
	next.Invoice = nil
	return next, Plan{
		Screen:  ScreenDepositConfirm,
		Effects: []Effect{EffectCreateInvoice},
	}
}
