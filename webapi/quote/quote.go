package quote

import (
	"github.com/amirasaad/usdtgate/pkg/app"
	"github.com/amirasaad/usdtgate/pkg/validation"
	"github.com/amirasaad/usdtgate/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the quote, validation, price and config endpoints.
func Routes(r fiber.Router, a *app.App) {
	api := r.Group("/api")
	api.Get("/config", GetConfig(a))
	api.Get("/quote", GetQuote(a))
	api.Post("/quote", PostQuote(a))
	api.Post("/validate", Validate(a))
	api.Get("/price", GetPrice(a))
}

// GetConfig returns a Fiber handler exposing the pricing constants.
func GetConfig(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pc := a.Engine.Config()
		dc := a.Deposits.Config()
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Config fetched", ConfigDTO{
			MinAmount:       pc.MinAmount().String(),
			MaxAmount:       pc.MaxAmount().String(),
			FeeRatePer500:   pc.FeeRatePer500().String(),
			DiscountPercent: pc.DiscountPercent().String(),
			DepositAddress:  dc.DepositAddress,
			DepositTimeout:  int64(dc.Timeout.Seconds()),
			DebounceMillis:  a.Config.DebounceDelay.Milliseconds(),
		})
	}
}

// GetQuote returns a Fiber handler rendering the quote for ?amount=.
func GetQuote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return renderQuote(c, a, c.Query("amount"))
	}
}

// PostQuote returns a Fiber handler rendering the quote for a JSON body.
func PostQuote(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[QuoteRequest](c)
		if input == nil {
			return err // error response already written
		}
		return renderQuote(c, a, input.Amount)
	}
}

func renderQuote(c *fiber.Ctx, a *app.App, raw string) error {
	view := a.Quotes.Build(raw)
	if m := a.Deps.Metrics; m != nil {
		m.ObserveQuote(view.Priced)
	}
	return common.SuccessResponseJSON(c, fiber.StatusOK, "Quote rendered", view)
}

// Validate returns a Fiber handler checking all form fields. It always
// answers 200; the result carries per-field states.
func Validate(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[ValidateRequest](c)
		if input == nil {
			return err
		}
		res := a.Validator.Form(validation.Form{
			Amount:        input.Amount,
			Email:         input.Email,
			WalletAddress: input.WalletAddress,
		})
		if m := a.Deps.Metrics; m != nil {
			m.ObserveForm(res)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Form validated", res)
	}
}

// GetPrice returns a Fiber handler with the current simulated prices.
func GetPrice(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if a.Deps.Feed == nil {
			return common.ProblemDetailsJSON(c, "Price feed unavailable", nil, fiber.StatusServiceUnavailable)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Prices fetched", toPriceDTO(a.Deps.Feed.Current()))
	}
}
