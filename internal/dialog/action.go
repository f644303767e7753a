package dialog

import (
	"fmt"
	"strconv"
	"strings"
)

// ActionKind enumerates every button action the bot can render.
type ActionKind int

const (
	ActAnswerCaptcha ActionKind = iota
	ActSelectGateway
	ActSelectAmount
	ActToCategory
	ActToProduct
	ActBuy
	ActToMainMenu
	ActToDepositGateways
	ActToBalance
	ActToOrders
	ActToSubscriptions
	ActToReferral
	ActToSupport
)

// Action is a decoded button token.
type Action struct {
	Kind       ActionKind
	Answer     string // AnswerCaptcha
	Gateway    string // SelectGateway
	Amount     int64  // SelectAmount
	CategoryID int64  // ToCategory, 0 = catalog root
	ProductID  int64  // ToProduct, Buy
}

// Token tags. Kept short: the serialized form rides inside a button
// payload with a 64-byte ceiling.
const (
	tagCaptcha       = "cap"
	tagGateway       = "gw"
	tagAmount        = "amt"
	tagCategory      = "cat"
	tagProduct       = "prd"
	tagBuy           = "buy"
	tokMainMenu      = "menu"
	tokDepositGates  = "gws"
	tokBalance       = "bal"
	tokOrders        = "ord"
	tokSubscriptions = "sub"
	tokReferral      = "ref"
	tokSupport       = "sup"
)

// Encode serializes the action into its button-payload form. Encoding is
// deterministic: tag, then payload, colon-separated.
func (a Action) Encode() string {
	switch a.Kind {
	case ActAnswerCaptcha:
		return tagCaptcha + ":" + a.Answer
	case ActSelectGateway:
		return tagGateway + ":" + a.Gateway
	case ActSelectAmount:
		return tagAmount + ":" + strconv.FormatInt(a.Amount, 10)
	case ActToCategory:
		return tagCategory + ":" + strconv.FormatInt(a.CategoryID, 10)
	case ActToProduct:
		return tagProduct + ":" + strconv.FormatInt(a.ProductID, 10)
	case ActBuy:
		return tagBuy + ":" + strconv.FormatInt(a.ProductID, 10)
	case ActToMainMenu:
		return tokMainMenu
	case ActToDepositGateways:
		return tokDepositGates
	case ActToBalance:
		return tokBalance
	case ActToOrders:
		return tokOrders
	case ActToSubscriptions:
		return tokSubscriptions
	case ActToReferral:
		return tokReferral
	case ActToSupport:
		return tokSupport
	}
	return ""
}

// DecodeAction parses a raw button payload. It never guesses: anything
// that is not an exact tag with a well-formed payload is rejected, and
// the caller drops the event silently (button payloads arrive from
// outside the trust boundary).
func DecodeAction(raw string) (Action, bool) {
	switch raw {
	case tokMainMenu:
		return Action{Kind: ActToMainMenu}, true
	case tokDepositGates:
		return Action{Kind: ActToDepositGateways}, true
	case tokBalance:
		return Action{Kind: ActToBalance}, true
	case tokOrders:
		return Action{Kind: ActToOrders}, true
	case tokSubscriptions:
		return Action{Kind: ActToSubscriptions}, true
	case tokReferral:
		return Action{Kind: ActToReferral}, true
	case tokSupport:
		return Action{Kind: ActToSupport}, true
	}

	tag, payload, ok := strings.Cut(raw, ":")
	if !ok || payload == "" {
		return Action{}, false
	}

	switch tag {
	case tagCaptcha:
		return Action{Kind: ActAnswerCaptcha, Answer: payload}, true
	case tagGateway:
		return Action{Kind: ActSelectGateway, Gateway: payload}, true
	case tagAmount:
		n, err := strconv.ParseInt(payload, 10, 64)
		if err != nil || n <= 0 {
			return Action{}, false
		}
		return Action{Kind: ActSelectAmount, Amount: n}, true
	case tagCategory:
		n, err := strconv.ParseInt(payload, 10, 64)
		if err != nil || n < 0 {
			return Action{}, false
		}
		return Action{Kind: ActToCategory, CategoryID: n}, true
	case tagProduct:
		n, err := strconv.ParseInt(payload, 10, 64)
		if err != nil || n <= 0 {
			return Action{}, false
		}
		return Action{Kind: ActToProduct, ProductID: n}, true
	case tagBuy:
		n, err := strconv.ParseInt(payload, 10, 64)
		if err != nil || n <= 0 {
			return Action{}, false
		}
		return Action{Kind: ActBuy, ProductID: n}, true
	}
	return Action{}, false
}

func (k ActionKind) String() string {
	switch k {
	case ActAnswerCaptcha:
		return "answer_captcha"
	case ActSelectGateway:
		return "select_gateway"
	case ActSelectAmount:
		return "select_amount"
	case ActToCategory:
		return "to_category"
	case ActToProduct:
		return "to_product"
	case ActBuy:
		return "buy"
	case ActToMainMenu:
		return "to_main_menu"
	case ActToDepositGateways:
		return "to_deposit_gateways"
	case ActToBalance:
		return "to_balance"
	case ActToOrders:
		return "to_orders"
	case ActToSubscriptions:
		return "to_subscriptions"
	case ActToReferral:
		return "to_referral"
	case ActToSupport:
		return "to_support"
	}
	return fmt.Sprintf("action(%d)", int(k))
}
