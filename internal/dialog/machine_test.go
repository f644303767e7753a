//go:build !integration

package dialog_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"telegram-storefront-bot/internal/dialog"
)

func TestTransition_CaptchaGate(t *testing.T) {
	t.Run("start for an unverified user enters the captcha", func(t *testing.T) {
		next, plan := dialog.Transition(nil, dialog.Event{
			Kind: dialog.EventCommand, Command: dialog.CommandStart,
		})
		if next.Kind != dialog.KindAwaitingCaptcha {
			t.Fatalf("expected awaiting_captcha, got %s", next.Kind)
		}
		if plan.Screen != dialog.ScreenCaptcha {
			t.Errorf("expected captcha screen, got %d", plan.Screen)
		}
		if len(plan.Effects) != 1 || plan.Effects[0] != dialog.EffectIssueChallenge {
			t.Errorf("expected a single issue-challenge effect, got %v", plan.Effects)
		}
	})

	t.Run("start for a verified user goes straight to the menu", func(t *testing.T) {
		next, plan := dialog.Transition(nil, dialog.Event{
			Kind: dialog.EventCommand, Command: dialog.CommandStart, Verified: true,
		})
		if next.Kind != dialog.KindMainMenu {
			t.Fatalf("expected main_menu, got %s", next.Kind)
		}
		if plan.Screen != dialog.ScreenMainMenu || len(plan.Effects) != 0 {
			t.Errorf("unexpected plan: %+v", plan)
		}
	})

	t.Run("correct answer confirms and opens the menu", func(t *testing.T) {
		st := &dialog.State{Kind: dialog.KindAwaitingCaptcha, Expected: "7G3K"}
		next, plan := dialog.Transition(st, dialog.Event{
			Kind:   dialog.EventAction,
			Action: dialog.Action{Kind: dialog.ActAnswerCaptcha, Answer: "7G3K"},
		})
		if next.Kind != dialog.KindMainMenu {
			t.Fatalf("expected main_menu, got %s", next.Kind)
		}
		if next.Expected != "" {
			t.Error("expected solution to be dropped from state")
		}
		if len(plan.Effects) != 1 || plan.Effects[0] != dialog.EffectConfirmCaptcha {
			t.Errorf("expected confirm effect, got %v", plan.Effects)
		}
	})

	t.Run("wrong answer regenerates the challenge with a notice", func(t *testing.T) {
		st := &dialog.State{Kind: dialog.KindAwaitingCaptcha, Expected: "7G3K"}
		next, plan := dialog.Transition(st, dialog.Event{
			Kind:   dialog.EventAction,
			Action: dialog.Action{Kind: dialog.ActAnswerCaptcha, Answer: "XXXX"},
		})
		if next.Kind != dialog.KindAwaitingCaptcha {
			t.Fatalf("expected to stay in awaiting_captcha, got %s", next.Kind)
		}
		if len(plan.Effects) != 1 || plan.Effects[0] != dialog.EffectIssueChallenge {
			t.Errorf("expected a fresh challenge, got %v", plan.Effects)
		}
		if plan.Notice == "" {
			t.Error("expected a wrong-answer notice")
		}
	})

	t.Run("answer outside the captcha state is ignored", func(t *testing.T) {
		st := &dialog.State{Kind: dialog.KindMainMenu}
		next, plan := dialog.Transition(st, dialog.Event{
			Kind:     dialog.EventAction,
			Action:   dialog.Action{Kind: dialog.ActAnswerCaptcha, Answer: "7G3K"},
			Verified: true,
		})
		if next != st || !plan.Empty() {
			t.Errorf("expected a no-op, got state=%+v plan=%+v", next, plan)
		}
	})

	t.Run("menu buttons are ignored before verification", func(t *testing.T) {
		st := &dialog.State{Kind: dialog.KindAwaitingCaptcha, Expected: "7G3K"}
		next, plan := dialog.Transition(st, dialog.Event{
			Kind:   dialog.EventAction,
			Action: dialog.Action{Kind: dialog.ActToBalance},
		})
		if next != st || !plan.Empty() {
			t.Errorf("expected a no-op, got state=%+v plan=%+v", next, plan)
		}
	})
}

func TestTransition_DepositWizard(t *testing.T) {
	verified := func(a dialog.Action) dialog.Event {
		return dialog.Event{Kind: dialog.EventAction, Action: a, Verified: true}
	}

	t.Run("full happy path reaches confirm with one invoice effect", func(t *testing.T) {
		st := &dialog.State{Kind: dialog.KindMainMenu}

		st, plan := dialog.Transition(st, verified(dialog.Action{Kind: dialog.ActToDepositGateways}))
		if st.Kind != dialog.KindDepositGateway || plan.Screen != dialog.ScreenDepositGateways {
			t.Fatalf("unexpected gateway stage: %+v / %+v", st, plan)
		}

		st, plan = dialog.Transition(st, verified(dialog.Action{Kind: dialog.ActSelectGateway, Gateway: "stars"}))
		if st.Kind != dialog.KindDepositAmount || st.Gateway != "stars" {
			t.Fatalf("unexpected amount stage: %+v", st)
		}
		if plan.Screen != dialog.ScreenDepositAmounts {
			t.Fatalf("unexpected plan: %+v", plan)
		}

		st, plan = dialog.Transition(st, verified(dialog.Action{Kind: dialog.ActSelectAmount, Amount: 1000}))
		if st.Kind != dialog.KindDepositConfirm || st.Gateway != "stars" || st.Amount != 1000 {
			t.Fatalf("unexpected confirm stage: %+v", st)
		}
		if len(plan.Effects) != 1 || plan.Effects[0] != dialog.EffectCreateInvoice {
			t.Fatalf("expected one create-invoice effect, got %v", plan.Effects)
		}
		if st.Invoice != nil {
			t.Error("invoice must be nil until the effect runs")
		}
	})

	t.Run("amount press with a cached invoice is a stale no-op", func(t *testing.T) {
		st := &dialog.State{
			Kind: dialog.KindDepositConfirm, Gateway: "stars", Amount: 1000,
			Invoice: &dialog.Invoice{OrderID: "ord-1"},
		}
		next, plan := dialog.Transition(st, verified(dialog.Action{Kind: dialog.ActSelectAmount, Amount: 1000}))
		if next != st || !plan.Empty() {
			t.Errorf("expected a no-op, got %+v / %+v", next, plan)
		}
	})

	t.Run("same amount without an invoice is the explicit retry", func(t *testing.T) {
		st := &dialog.State{Kind: dialog.KindDepositConfirm, Gateway: "stars", Amount: 1000}
		next, plan := dialog.Transition(st, verified(dialog.Action{Kind: dialog.ActSelectAmount, Amount: 1000}))
		if next == st {
			t.Fatal("expected a fresh state")
		}
		if next.Kind != dialog.KindDepositConfirm || next.Amount != 1000 || next.Gateway != "stars" {
			t.Fatalf("unexpected retry state: %+v", next)
		}
		if len(plan.Effects) != 1 || plan.Effects[0] != dialog.EffectCreateInvoice {
			t.Errorf("expected create-invoice on retry, got %v", plan.Effects)
		}
	})

	t.Run("amount press without a gateway selection is ignored", func(t *testing.T) {
		st := &dialog.State{Kind: dialog.KindMainMenu}
		next, plan := dialog.Transition(st, verified(dialog.Action{Kind: dialog.ActSelectAmount, Amount: 500}))
		if next != st || !plan.Empty() {
			t.Errorf("expected a no-op, got %+v / %+v", next, plan)
		}
	})
}

func TestTransition_Purchase(t *testing.T) {
	verified := func(a dialog.Action) dialog.Event {
		return dialog.Event{Kind: dialog.EventAction, Action: a, Verified: true}
	}

	t.Run("buy from the matching product screen triggers the purchase", func(t *testing.T) {
		st := &dialog.State{Kind: dialog.KindProduct, ProductID: 42}
		next, plan := dialog.Transition(st, verified(dialog.Action{Kind: dialog.ActBuy, ProductID: 42}))
		if next.Kind != dialog.KindProduct || next.ProductID != 42 {
			t.Fatalf("unexpected state: %+v", next)
		}
		if len(plan.Effects) != 1 || plan.Effects[0] != dialog.EffectPurchase {
			t.Errorf("expected purchase effect, got %v", plan.Effects)
		}
	})

	t.Run("buy for a different product is a stale no-op", func(t *testing.T) {
		st := &dialog.State{Kind: dialog.KindProduct, ProductID: 42}
		next, plan := dialog.Transition(st, verified(dialog.Action{Kind: dialog.ActBuy, ProductID: 7}))
		if next != st || !plan.Empty() {
			t.Errorf("expected a no-op, got %+v / %+v", next, plan)
		}
	})

	t.Run("buy outside a product screen is a stale no-op", func(t *testing.T) {
		st := &dialog.State{Kind: dialog.KindMainMenu}
		next, plan := dialog.Transition(st, verified(dialog.Action{Kind: dialog.ActBuy, ProductID: 42}))
		if next != st || !plan.Empty() {
			t.Errorf("expected a no-op, got %+v / %+v", next, plan)
		}
	})
}

func TestTransition_ReferralToken(t *testing.T) {
	t.Run("free text in the token state registers and returns to the menu", func(t *testing.T) {
		st := &dialog.State{Kind: dialog.KindAwaitingToken}
		next, plan := dialog.Transition(st, dialog.Event{
			Kind: dialog.EventText, Text: "12345:token", Verified: true,
		})
		if next.Kind != dialog.KindMainMenu {
			t.Fatalf("expected main_menu, got %s", next.Kind)
		}
		if len(plan.Effects) != 1 || plan.Effects[0] != dialog.EffectRegisterReferralToken {
			t.Errorf("expected register effect, got %v", plan.Effects)
		}
	})

	t.Run("free text anywhere else is ignored", func(t *testing.T) {
		st := &dialog.State{Kind: dialog.KindMainMenu}
		next, plan := dialog.Transition(st, dialog.Event{
			Kind: dialog.EventText, Text: "hello", Verified: true,
		})
		if next != st || !plan.Empty() {
			t.Errorf("expected a no-op, got %+v / %+v", next, plan)
		}
	})
}

func TestTransition_Totality(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	properties.Property("an ignored event always returns the input state untouched", prop.ForAll(
		func(st *dialog.State, ev dialog.Event) bool {
			before := *st
			next, plan := dialog.Transition(st, ev)
			if *st != before {
				// The input state must never be mutated.
				return false
			}
			if next == st {
				return plan.Empty()
			}
			// A changed state must come with something to render.
			return plan.Screen != dialog.ScreenNone || len(plan.Effects) > 0
		},
		genState(),
		genEvent(),
	))

	properties.Property("clearing navigation never leaks wizard fields", prop.ForAll(
		func(st *dialog.State) bool {
			next, _ := dialog.Transition(st, dialog.Event{
				Kind: dialog.EventAction, Action: dialog.Action{Kind: dialog.ActToMainMenu}, Verified: true,
			})
			return next.Gateway == "" && next.Amount == 0 && next.Invoice == nil && next.Expected == ""
		},
		genState(),
	))

	properties.TestingRun(t)
}

func genState() gopter.Gen {
	kinds := gen.OneConstOf(
		dialog.KindInitial, dialog.KindAwaitingCaptcha, dialog.KindAwaitingToken,
		dialog.KindMainMenu, dialog.KindBrowsing, dialog.KindProduct,
		dialog.KindDepositGateway, dialog.KindDepositAmount, dialog.KindDepositConfirm,
		dialog.KindBalance, dialog.KindOrders, dialog.KindSubscriptions,
		dialog.KindReferral, dialog.KindSupport,
	)
	return kinds.Map(func(k dialog.Kind) *dialog.State {
		st := dialog.NewState()
		st.Kind = k
		switch k {
		case dialog.KindAwaitingCaptcha:
			st.Expected = "7G3K"
		case dialog.KindProduct:
			st.ProductID = 42
		case dialog.KindDepositAmount:
			st.Gateway = "stars"
		case dialog.KindDepositConfirm:
			st.Gateway = "stars"
			st.Amount = 1000
		}
		return st
	})
}

func genEvent() gopter.Gen {
	return gen.OneGenOf(
		gen.OneConstOf(dialog.CommandStart, dialog.CommandReferral, "unknown").Map(func(c string) dialog.Event {
			return dialog.Event{Kind: dialog.EventCommand, Command: c, Verified: true}
		}),
		genAction().Map(func(a dialog.Action) dialog.Event {
			return dialog.Event{Kind: dialog.EventAction, Action: a, Verified: true}
		}),
		genAction().Map(func(a dialog.Action) dialog.Event {
			return dialog.Event{Kind: dialog.EventAction, Action: a}
		}),
		gen.AlphaString().Map(func(s string) dialog.Event {
			return dialog.Event{Kind: dialog.EventText, Text: s, Verified: true}
		}),
		gen.Const(dialog.Event{}),
	)
}
