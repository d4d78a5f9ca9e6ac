package cli

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/vendorconsole/internal/client/guard"
	"github.com/dmitrijs2005/vendorconsole/internal/client/login"
	"github.com/dmitrijs2005/vendorconsole/internal/common"
)

const phonePrompt = "Enter your 10-digit mobile number (empty to cancel)"

// Login runs the sign-in dialog: mobile number, then the one-time code,
// with resend and change-number available at the code prompt. On success
// the console opens the principal's home route.
func (a *App) Login(ctx context.Context) error {
	if target, ok := a.flow.Resume(); ok {
		printlnFn(login.MsgAlreadySignedIn)
		return a.Go(ctx, target)
	}

	for {
		ok, err := a.askPhone(ctx)
		if err != nil || !ok {
			return err
		}

		change, err := a.askCode(ctx)
		if err != nil {
			return err
		}
		if change {
			continue
		}

		if a.flow.Phase() == login.PhaseAuthenticated {
			return a.Go(ctx, a.flow.Landing())
		}
		return nil
	}
}

// askPhone prompts until a code has been sent. It returns false when the
// operator cancels.
func (a *App) askPhone(ctx context.Context) (bool, error) {
	for {
		raw, err := getSimpleText(a.reader, phonePrompt, a.out)
		if err != nil {
			return false, err
		}
		if raw == "" {
			return false, nil
		}

		// Keep only digits the way the phone field does, so "98765 43210"
		// works; anything over ten digits is left for validation to reject.
		phone := common.OnlyDigits(raw, 0)
		err = a.flow.SubmitPhone(ctx, phone)
		a.showNotice()
		if err == nil {
			return true, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
	}
}

// askCode prompts for the code until sign-in succeeds, the operator
// cancels, or asks to change the number (reported as true).
func (a *App) askCode(ctx context.Context) (bool, error) {
	for a.flow.Phase() == login.PhaseEnterOTP {
		printlnFn("Code sent to " + a.flow.Phone())

		in, err := readCode(a.reader, a.out)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(in) {
		case "":
			a.flow.ChangeNumber()
			return false, nil
		case "c", "change":
			a.flow.ChangeNumber()
			return true, nil
		case "r", "resend":
			_ = a.flow.Resend(ctx)
			a.showNotice()
		default:
			code := a.flow.Code()
			code.Clear()
			code.Paste(in)
			_ = a.flow.SubmitOTP(ctx, "")
			a.showNotice()
		}

		if ctx.Err() != nil {
			return false, ctx.Err()
		}
	}
	return false, nil
}

func (a *App) showNotice() {
	n, ok := a.flow.Notice()
	if !ok || n.Text == "" {
		return
	}
	if n.Level == login.LevelError {
		printlnFn("Error: " + n.Text)
		return
	}
	printlnFn(n.Text)
}

// Logout ends the session and removes the stored token.
func (a *App) Logout(ctx context.Context) error {
	a.endSession(ctx)
	printlnFn("Logged out")
	return a.Go(ctx, guard.LoginPath)
}

func (a *App) endSession(ctx context.Context) {
	a.sessions.Clear()
	a.flow.ChangeNumber()
	a.search, a.vendor = "", ""
	if err := a.tokens.Clear(ctx); err != nil {
		a.log.Warn(ctx, "error clearing token", "error", err)
	}
}
