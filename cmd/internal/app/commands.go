package app

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"tracker/cmd/identity"
	"tracker/cmd/internal/apiclient"
	"tracker/cmd/internal/session"
)

const usageText = `tracker - AI learning tracker client

Usage:
  tracker <command> [flags]

Commands:
  login      Sign in with a username or email
  register   Create a new account
  logout     Sign out and revoke the stored session
  whoami     Show the signed-in user
  profile    Show or update the extended profile
  passwd     Change the account password
  health     Check backend availability
  status     Show local session state

Environment:
  TRACKER_API_BASE_URL   Backend base URL (default http://127.0.0.1:8000/api)
  TRACKER_STATE_PATH     Credential database path
  TRACKER_VAULT_PASSPHRASE   Encrypt stored credentials at rest
`

// Dispatch runs one CLI command. Command output goes to out; logs stay on
// the logger's own writer.
func (a *App) Dispatch(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usageText)
		return nil
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return a.cmdLogin(ctx, rest, in, out)
	case "register":
		return a.cmdRegister(ctx, rest, in, out)
	case "logout":
		return a.cmdLogout(ctx, out)
	case "whoami":
		return a.cmdWhoami(ctx, out)
	case "profile":
		return a.cmdProfile(ctx, rest, out)
	case "passwd":
		return a.cmdPasswd(ctx, rest, in, out)
	case "health":
		return a.cmdHealth(ctx, out)
	case "status":
		return a.cmdStatus(ctx, out)
	case "help", "-h", "--help":
		fmt.Fprint(out, usageText)
		return nil
	default:
		fmt.Fprint(out, usageText)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *App) cmdLogin(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	user := fs.String("user", "", "username or email")
	pass := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r := bufio.NewReader(in)
	identifier, err := promptIfEmpty(r, out, *user, "Username or email: ")
	if err != nil {
		return err
	}
	password, err := promptIfEmpty(r, out, *pass, "Password: ")
	if err != nil {
		return err
	}

	if err := a.session.Login(ctx, session.Credentials{
		Identifier: identifier,
		Password:   password,
	}); err != nil {
		return renderAuthError(err)
	}

	u := a.session.CurrentUser()
	fmt.Fprintf(out, "Signed in as %s (%s)\n", u.DisplayName(), u.Email)
	return nil
}

func (a *App) cmdRegister(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	name := fs.String("name", "", "full name")
	username := fs.String("user", "", "username (derived from email when omitted)")
	email := fs.String("email", "", "email address")
	pass := fs.String("password", "", "password (prompted when omitted)")
	terms := fs.Bool("accept-terms", false, "accept the terms and conditions")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r := bufio.NewReader(in)
	fullName, err := promptIfEmpty(r, out, *name, "Full name: ")
	if err != nil {
		return err
	}
	address, err := promptIfEmpty(r, out, *email, "Email: ")
	if err != nil {
		return err
	}
	password, err := promptIfEmpty(r, out, *pass, "Password: ")
	if err != nil {
		return err
	}
	confirm, err := promptIfEmpty(r, out, "", "Confirm password: ")
	if err != nil {
		return err
	}

	outcome, err := a.session.Register(ctx, session.RegistrationForm{
		FullName:        fullName,
		Username:        *username,
		Email:           address,
		Password:        password,
		ConfirmPassword: confirm,
		AcceptedTerms:   *terms,
	})
	if err != nil {
		return renderAuthError(err)
	}

	switch outcome {
	case session.OutcomePendingVerification:
		fmt.Fprintln(out, "Account created. Check your email to verify it, then sign in.")
	default:
		u := a.session.CurrentUser()
		fmt.Fprintf(out, "Welcome, %s! You are signed in.\n", u.DisplayName())
	}
	return nil
}

func (a *App) cmdLogout(ctx context.Context, out io.Writer) error {
	a.session.Logout(ctx)
	fmt.Fprintln(out, "Signed out.")
	return nil
}

func (a *App) cmdWhoami(ctx context.Context, out io.Writer) error {
	st := a.session.VerifyOnStartup(ctx)
	if !st.Authenticated() {
		fmt.Fprintln(out, "Not signed in.")
		return nil
	}
	u := st.User
	fmt.Fprintf(out, "%s  %s <%s>\n", u.Avatar(), u.DisplayName(), u.Email)
	fmt.Fprintf(out, "username: %s\n", u.Username)
	if !u.JoinedAt.IsZero() {
		fmt.Fprintf(out, "joined:   %s\n", u.JoinedAt.Format("2006-01-02"))
	}
	return nil
}

func (a *App) cmdProfile(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	bio := fs.String("bio", "", "set biography")
	location := fs.String("location", "", "set location")
	website := fs.String("website", "", "set website URL")
	tone := fs.String("tone", "", "set preferred tone")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if st := a.session.VerifyOnStartup(ctx); !st.Authenticated() {
		return fmt.Errorf("not signed in")
	}

	user, profile, err := a.client.GetProfile(ctx)
	if err != nil {
		return err
	}
	if profile == nil {
		profile = &identity.Profile{}
	}

	changed := applyProfileFlags(profile, *bio, *location, *website, *tone)
	if changed {
		profile, err = a.client.UpdateProfile(ctx, *profile)
		if err != nil {
			return err
		}
		if err := a.store.SetCachedProfile(ctx, profile); err != nil {
			a.log.Warn("caching profile failed", "error", err.Error())
		}
		fmt.Fprintln(out, "Profile updated.")
	}

	fmt.Fprintf(out, "%s (%s)\n", user.DisplayName(), user.Username)
	printProfileField(out, "bio", profile.Bio)
	printProfileField(out, "location", profile.Location)
	printProfileField(out, "website", profile.Website)
	printProfileField(out, "tone", profile.PreferredTone)
	return nil
}

func applyProfileFlags(p *identity.Profile, bio, location, website, tone string) bool {
	changed := false
	if bio != "" {
		p.Bio, changed = bio, true
	}
	if location != "" {
		p.Location, changed = location, true
	}
	if website != "" {
		p.Website, changed = website, true
	}
	if tone != "" {
		p.PreferredTone, changed = tone, true
	}
	return changed
}

func printProfileField(out io.Writer, name, value string) {
	if value == "" {
		value = "-"
	}
	fmt.Fprintf(out, "%-9s %s\n", name+":", value)
}

func (a *App) cmdPasswd(ctx context.Context, args []string, in io.Reader, out io.Writer) error {
	fs := flag.NewFlagSet("passwd", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if st := a.session.VerifyOnStartup(ctx); !st.Authenticated() {
		return fmt.Errorf("not signed in")
	}

	r := bufio.NewReader(in)
	oldPass, err := promptIfEmpty(r, out, "", "Current password: ")
	if err != nil {
		return err
	}
	newPass, err := promptIfEmpty(r, out, "", "New password: ")
	if err != nil {
		return err
	}
	confirm, err := promptIfEmpty(r, out, "", "Confirm new password: ")
	if err != nil {
		return err
	}

	msg, err := a.client.ChangePassword(ctx, apiclient.ChangePasswordParams{
		OldPassword: oldPass,
		NewPassword: newPass,
		Confirm:     confirm,
	})
	if err != nil {
		return err
	}
	if msg == "" {
		msg = "Password changed."
	}
	fmt.Fprintln(out, msg)
	return nil
}

func (a *App) cmdHealth(ctx context.Context, out io.Writer) error {
	hs, err := a.client.Health(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "backend: %s", hs.Status)
	if hs.Message != "" {
		fmt.Fprintf(out, " (%s)", hs.Message)
	}
	fmt.Fprintln(out)
	return nil
}

func (a *App) cmdStatus(ctx context.Context, out io.Writer) error {
	st := a.session.VerifyOnStartup(ctx)

	fmt.Fprintf(out, "session:  %s\n", st.Phase)
	fmt.Fprintf(out, "store:    %s\n", storeMode(a.sealed))
	if st.Authenticated() {
		fmt.Fprintf(out, "user:     %s\n", st.User.Username)
	}
	return nil
}

func storeMode(sealed bool) string {
	if sealed {
		return "sealed"
	}
	return "plaintext"
}

// renderAuthError flattens a session error into the field-attributed line
// the terminal shows.
func renderAuthError(err error) error {
	return errors.New(session.Describe(err))
}

func promptIfEmpty(r *bufio.Reader, out io.Writer, value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Fprint(out, prompt)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
