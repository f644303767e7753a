package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"telegram-storefront-bot/internal/dialog"
	"telegram-storefront-bot/internal/domain/model"
	"telegram-storefront-bot/internal/domain/ports/adapter"
	"telegram-storefront-bot/internal/infra/i18n"
)

// Preset deposit amounts offered by the wizard.
var depositAmounts = []int64{500, 1000, 2000, 5000}

// screenData carries effect results the pure state machine cannot know.
type screenData struct {
	challenge *model.CaptchaChallenge
	order     *model.Order
	user      *model.BotUser
}

// Views resolves a screen kind plus the current state into concrete
// content: localized text, optional image, inline keyboard. All backend
// reads happen here; a read failure degrades to a generic error screen
// rather than crashing the session.
type Views struct {
	backend adapter.BackendAPI
	tr      *i18n.Translator
	log     *zerolog.Logger
}

func NewViews(backend adapter.BackendAPI, tr *i18n.Translator, logger *zerolog.Logger) *Views {
	return &Views{backend: backend, tr: tr, log: logger}
}

func (v *Views) Build(ctx context.Context, st *dialog.State, screen dialog.ScreenKind, data screenData) (model.Content, error) {
	switch screen {
	case dialog.ScreenCaptcha:
		return v.captcha(data)
	case dialog.ScreenMainMenu:
		return v.mainMenu(ctx, data)
	case dialog.ScreenCatalog:
		return v.catalog(ctx, st.CategoryID)
	case dialog.ScreenProduct:
		return v.product(ctx, st.ProductID, data)
	case dialog.ScreenDepositGateways:
		return v.depositGateways(ctx)
	case dialog.ScreenDepositAmounts:
		return v.depositAmounts()
	case dialog.ScreenDepositConfirm:
		return v.depositConfirm(st)
	case dialog.ScreenBalance:
		return v.balance(ctx, data)
	case dialog.ScreenOrders:
		return v.orders(ctx, data)
	case dialog.ScreenSubscriptions:
		return v.subscriptions(ctx, data)
	case dialog.ScreenReferral:
		return v.referral(ctx, data)
	case dialog.ScreenReferralTokenPrompt:
		return v.content(v.tr.T("referral.token_prompt"), v.backRow()), nil
	case dialog.ScreenSupport:
		return v.content(v.tr.T("support.text"), v.backRow()), nil
	}
	return model.Content{}, fmt.Errorf("no view for screen %d", screen)
}

// ErrorContent is the generic inline-error screen.
func (v *Views) ErrorContent() model.Content {
	return v.content(v.tr.T("error.generic"), v.backRow())
}

func (v *Views) captcha(data screenData) (model.Content, error) {
	if data.challenge == nil {
		return model.Content{}, fmt.Errorf("captcha screen without challenge")
	}
	kb := model.Keyboard{}
	row := []model.Button{}
	for _, opt := range data.challenge.Options {
		row = append(row, model.Button{
			Text:   opt,
			Action: dialog.Action{Kind: dialog.ActAnswerCaptcha, Answer: opt}.Encode(),
		})
		if len(row) == 3 {
			kb = append(kb, row)
			row = nil
		}
	}
	if len(row) > 0 {
		kb = append(kb, row)
	}
	return model.Content{
		Text:     v.tr.T("captcha.prompt"),
		Image:    data.challenge.Image,
		Keyboard: kb,
	}, nil
}

func (v *Views) mainMenu(ctx context.Context, data screenData) (model.Content, error) {
	settings, err := v.backend.GetSettings(ctx)
	if err != nil {
		v.log.Warn().Err(err).Msg("settings unavailable, rendering default menu")
		settings = model.Settings{}
	}

	name := ""
	if data.user != nil {
		name = data.user.Username
	}
	text := v.tr.T("welcome.default", name)
	if settings.WelcomeMessage != "" {
		text = strings.ReplaceAll(settings.WelcomeMessage, "{username}", name)
	}

	kb := model.Keyboard{
		model.Row(model.Button{Text: v.tr.T("menu.catalog"), Action: dialog.Action{Kind: dialog.ActToCategory}.Encode()}),
		model.Row(model.Button{Text: v.tr.T("menu.balance"), Action: dialog.Action{Kind: dialog.ActToBalance}.Encode()}),
		model.Row(model.Button{Text: v.tr.T("menu.orders"), Action: dialog.Action{Kind: dialog.ActToOrders}.Encode()}),
		model.Row(model.Button{Text: v.tr.T("menu.subscriptions"), Action: dialog.Action{Kind: dialog.ActToSubscriptions}.Encode()}),
		model.Row(model.Button{Text: v.tr.T("menu.deposit"), Action: dialog.Action{Kind: dialog.ActToDepositGateways}.Encode()}),
	}
	if settings.ReferralEnabled {
		kb = append(kb, model.Row(model.Button{Text: v.tr.T("menu.referral"), Action: dialog.Action{Kind: dialog.ActToReferral}.Encode()}))
	}
	kb = append(kb, model.Row(model.Button{Text: v.tr.T("menu.support"), Action: dialog.Action{Kind: dialog.ActToSupport}.Encode()}))

	return model.Content{Text: text, Keyboard: kb}, nil
}

func (v *Views) catalog(ctx context.Context, categoryID int64) (model.Content, error) {
	categories, err := v.backend.GetCategories(ctx, categoryID)
	if err != nil {
		return model.Content{}, fmt.Errorf("catalog categories: %w", err)
	}
	products, err := v.backend.GetProducts(ctx, categoryID)
	if err != nil {
		return model.Content{}, fmt.Errorf("catalog products: %w", err)
	}

	kb := model.Keyboard{}
	for _, c := range categories {
		kb = append(kb, model.Row(model.Button{
			Text:   c.Name,
			Action: dialog.Action{Kind: dialog.ActToCategory, CategoryID: c.ID}.Encode(),
		}))
	}
	for _, p := range products {
		kb = append(kb, model.Row(model.Button{
			Text:   v.tr.T("catalog.product_row", p.Name, p.Price),
			Action: dialog.Action{Kind: dialog.ActToProduct, ProductID: p.ID}.Encode(),
		}))
	}

	back := dialog.Action{Kind: dialog.ActToMainMenu}.Encode()
	if categoryID != 0 {
		back = dialog.Action{Kind: dialog.ActToCategory}.Encode()
	}
	kb = append(kb, model.Row(model.Button{Text: v.tr.T("menu.back"), Action: back}))

	text := v.tr.T("catalog.title")
	if len(categories) == 0 && len(products) == 0 {
		text = v.tr.T("catalog.empty")
	}
	return model.Content{Text: text, Keyboard: kb}, nil
}

func (v *Views) product(ctx context.Context, productID int64, data screenData) (model.Content, error) {
	p, err := v.backend.GetProduct(ctx, productID)
	if err != nil {
		return v.content(v.tr.T("product.not_found"), v.backRow()), nil
	}

	if data.order != nil {
		kb := model.Keyboard{v.backRow()}
		return model.Content{Text: v.tr.T("product.purchased", data.order.ID), Keyboard: kb}, nil
	}

	c := model.Content{
		Text: v.tr.T("product.caption", p.Name, p.Description, p.Price),
		Keyboard: model.Keyboard{
			model.Row(model.Button{
				Text:   v.tr.T("product.buy"),
				Action: dialog.Action{Kind: dialog.ActBuy, ProductID: p.ID}.Encode(),
			}),
			model.Row(model.Button{
				Text:   v.tr.T("menu.back"),
				Action: dialog.Action{Kind: dialog.ActToCategory, CategoryID: p.CategoryID}.Encode(),
			}),
		},
	}
	if p.ImageID != "" {
		img, err := v.backend.GetImage(ctx, p.ImageID)
		if err != nil {
			v.log.Warn().Err(err).Str("image_id", p.ImageID).Msg("product image fetch failed")
		} else {
			c.Image = img
		}
	}
	return c, nil
}

func (v *Views) depositGateways(ctx context.Context) (model.Content, error) {
	gateways, err := v.backend.GetPaymentGateways(ctx)
	if err != nil {
		return model.Content{}, fmt.Errorf("payment gateways: %w", err)
	}
	settings, err := v.backend.GetSettings(ctx)
	if err != nil {
		v.log.Warn().Err(err).Msg("settings unavailable, rendering plain gateway list")
		settings = model.Settings{}
	}

	type row struct {
		gateway string
		label   string
		bonus   float64
	}
	rows := make([]row, 0, len(gateways))
	for _, g := range gateways {
		rows = append(rows, row{gateway: g, label: settings.GatewayLabel(g), bonus: settings.GatewayBonuses[g]})
	}
	// Best bonus first, then stable by label.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].bonus != rows[j].bonus {
			return rows[i].bonus > rows[j].bonus
		}
		return rows[i].label < rows[j].label
	})

	kb := model.Keyboard{}
	for _, r := range rows {
		label := r.label
		if r.bonus > 0 {
			label = v.tr.T("deposit.gateway_bonus", r.label, r.bonus)
		}
		kb = append(kb, model.Row(model.Button{
			Text:   label,
			Action: dialog.Action{Kind: dialog.ActSelectGateway, Gateway: r.gateway}.Encode(),
		}))
	}
	kb = append(kb, v.backRow())
	return model.Content{Text: v.tr.T("deposit.select_gateway"), Keyboard: kb}, nil
}

func (v *Views) depositAmounts() (model.Content, error) {
	kb := model.Keyboard{}
	for _, amount := range depositAmounts {
		kb = append(kb, model.Row(model.Button{
			Text:   fmt.Sprintf("%d", amount),
			Action: dialog.Action{Kind: dialog.ActSelectAmount, Amount: amount}.Encode(),
		}))
	}
	kb = append(kb, model.Row(model.Button{
		Text:   v.tr.T("menu.back"),
		Action: dialog.Action{Kind: dialog.ActToDepositGateways}.Encode(),
	}))
	return model.Content{Text: v.tr.T("deposit.select_amount"), Keyboard: kb}, nil
}

func (v *Views) depositConfirm(st *dialog.State) (model.Content, error) {
	if st.Invoice == nil {
		// Invoice creation failed; offer the explicit retry.
		kb := model.Keyboard{
			model.Row(model.Button{
				Text:   v.tr.T("deposit.retry"),
				Action: dialog.Action{Kind: dialog.ActSelectAmount, Amount: st.Amount}.Encode(),
			}),
			v.backRow(),
		}
		return model.Content{Text: v.tr.T("deposit.invoice_failed"), Keyboard: kb}, nil
	}

	var b strings.Builder
	b.WriteString(v.tr.T("deposit.invoice_ready", st.Amount, st.Invoice.OrderID))
	if len(st.Invoice.Details) > 0 {
		keys := make([]string, 0, len(st.Invoice.Details))
		for k := range st.Invoice.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.WriteString("\n")
			b.WriteString(v.tr.T("deposit.details_row", k, st.Invoice.Details[k]))
		}
	}

	kb := model.Keyboard{}
	if st.Invoice.PayURL != "" {
		kb = append(kb, model.Row(model.Button{Text: v.tr.T("deposit.pay"), URL: st.Invoice.PayURL}))
	}
	kb = append(kb, v.backRow())
	return model.Content{Text: b.String(), Keyboard: kb}, nil
}

func (v *Views) balance(ctx context.Context, data screenData) (model.Content, error) {
	balance, err := v.backend.GetBalance(ctx, data.user.TelegramID)
	if err != nil {
		return model.Content{}, fmt.Errorf("balance: %w", err)
	}
	kb := model.Keyboard{
		model.Row(model.Button{Text: v.tr.T("menu.deposit"), Action: dialog.Action{Kind: dialog.ActToDepositGateways}.Encode()}),
		v.backRow(),
	}
	return model.Content{Text: v.tr.T("balance.text", balance), Keyboard: kb}, nil
}

func (v *Views) orders(ctx context.Context, data screenData) (model.Content, error) {
	orders, err := v.backend.GetOrders(ctx, data.user.TelegramID)
	if err != nil {
		return model.Content{}, fmt.Errorf("orders: %w", err)
	}
	if len(orders) == 0 {
		return v.content(v.tr.T("orders.empty"), v.backRow()), nil
	}
	var b strings.Builder
	b.WriteString(v.tr.T("orders.title"))
	for _, o := range orders {
		b.WriteString("\n")
		b.WriteString(v.tr.T("orders.row", o.ProductName, o.Status, o.Price))
	}
	return v.content(b.String(), v.backRow()), nil
}

func (v *Views) subscriptions(ctx context.Context, data screenData) (model.Content, error) {
	subs, err := v.backend.GetSubscriptions(ctx, data.user.TelegramID)
	if err != nil {
		return model.Content{}, fmt.Errorf("subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return v.content(v.tr.T("subscriptions.empty"), v.backRow()), nil
	}
	var b strings.Builder
	b.WriteString(v.tr.T("subscriptions.title"))
	for _, s := range subs {
		b.WriteString("\n")
		b.WriteString(v.tr.T("subscriptions.row", s.ProductName, s.ExpiresAt.Format("2006-01-02")))
	}
	return v.content(b.String(), v.backRow()), nil
}

func (v *Views) referral(ctx context.Context, data screenData) (model.Content, error) {
	stats, err := v.backend.GetReferralStats(ctx, data.user.TelegramID)
	if err != nil {
		return model.Content{}, fmt.Errorf("referral stats: %w", err)
	}
	return v.content(v.tr.T("referral.stats", stats.InvitedCount, stats.Earned), v.backRow()), nil
}

func (v *Views) content(text string, rows ...[]model.Button) model.Content {
	return model.Content{Text: text, Keyboard: model.Keyboard(rows)}
}

func (v *Views) backRow() []model.Button {
	return model.Row(model.Button{
		Text:   v.tr.T("menu.to_main"),
		Action: dialog.Action{Kind: dialog.ActToMainMenu}.Encode(),
	})
}
