package deposit

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/usdtgate/pkg/app"
	"github.com/amirasaad/usdtgate/pkg/deposit"
	"github.com/amirasaad/usdtgate/pkg/validation"
	"github.com/amirasaad/usdtgate/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers HTTP routes for the deposit session flow.
func Routes(r fiber.Router, a *app.App) {
	g := r.Group("/api/deposits")
	g.Post("/preview", Preview(a))
	g.Post("/", Start(a))
	g.Get("/:id", Get(a))
	g.Post("/:id/check", Check(a))
	g.Post("/:id/cancel", Cancel(a))
}

// Preview returns a Fiber handler summarising the deposit before it starts.
func Preview(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[PreviewRequest](c)
		if input == nil {
			return err // error response already written
		}
		res := a.Validator.Form(validation.Form{
			Amount:        input.Amount,
			Email:         input.Email,
			WalletAddress: input.WalletAddress,
		})
		if !res.Valid {
			return common.ProblemDetailsJSON(c, "Invalid purchase form", &deposit.FormError{Result: res})
		}
		amount, _ := validation.ParseAmount(input.Amount)
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deposit preview",
			toPreviewDTO(a.Engine.Compute(amount), strings.TrimSpace(input.Email), strings.TrimSpace(input.WalletAddress)))
	}
}

// Start returns a Fiber handler opening a deposit session.
func Start(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[StartRequest](c)
		if input == nil {
			return err
		}
		session, err := a.Deposits.Start(c.Context(), input.toService())
		if err != nil {
			var formErr *deposit.FormError
			switch {
			case errors.Is(err, deposit.ErrFiatUnavailable):
				return common.ProblemDetailsJSON(c, "Payment method unavailable", err, deposit.MsgFiatUnavailable)
			case errors.As(err, &formErr):
				if m := a.Deps.Metrics; m != nil {
					m.ObserveForm(formErr.Result)
				}
				return common.ProblemDetailsJSON(c, "Invalid purchase form", err)
			}
			a.Deps.Logger.Error("Failed to start deposit session", "error", err)
			return common.ProblemDetailsJSON(c, "Failed to start deposit session", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Deposit session started",
			a.Deposits.Snapshot(session))
	}
}

// Get returns a Fiber handler with the current session snapshot.
func Get(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snap, err := a.Deposits.Get(c.Context(), c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to get deposit session", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Deposit session fetched", snap)
	}
}

// Check returns a Fiber handler running the simulated payment check. The
// request blocks until the session completes.
func Check(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		start := time.Now()
		session, err := a.Deposits.Check(c.Context(), id)
		if err != nil {
			logLevel := slog.LevelWarn
			if common.ErrorToStatusCode(err) >= fiber.StatusInternalServerError {
				logLevel = slog.LevelError
			}
			a.Deps.Logger.Log(c.Context(), logLevel, "Payment check failed", "session_id", id, "error", err)
			return common.ProblemDetailsJSON(c, "Payment check failed", err)
		}
		if m := a.Deps.Metrics; m != nil {
			m.ObserveCheck(time.Since(start))
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, deposit.MsgCompleted, a.Deposits.Snapshot(session))
	}
}

// Cancel returns a Fiber handler canceling a pending session.
func Cancel(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, err := a.Deposits.Cancel(c.Context(), c.Params("id"))
		if err != nil {
			return common.ProblemDetailsJSON(c, "Failed to cancel deposit session", err)
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, deposit.MsgCanceled, a.Deposits.Snapshot(session))
	}
}
