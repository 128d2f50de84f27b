package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/sadopc/chop/internal/errkind"
)

var authEmail string

// authCmd manages the signed-in account
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the signed-in account",
	Long: `Sign in, sign up or sign out. The session is shared with the
interactive interface.

Available subcommands:
  signin  - Sign in with email and password
  signup  - Create an account with email and password
  google  - Sign in with Google in the browser
  signout - Forget the local session
  status  - Show who is signed in`,
}

var authSignInCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign in with email and password",
	Long: `Sign in with email and password. The password is read from the
first line of standard input.

Example:
  chop auth signin --email me@example.com`,
	Args: cobra.NoArgs,
	RunE: runAuthSignIn,
}

var authSignUpCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account with email and password",
	Long: `Create an account and sign in. The password is read from the first
line of standard input.`,
	Args: cobra.NoArgs,
	RunE: runAuthSignUp,
}

var authGoogleCmd = &cobra.Command{
	Use:   "google",
	Short: "Sign in with Google",
	Long: `Open the Google consent page in the browser and wait for the
redirect on a local port.`,
	Args: cobra.NoArgs,
	RunE: runAuthGoogle,
}

var authSignOutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out",
	Args:  cobra.NoArgs,
	RunE:  runAuthSignOut,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is signed in",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

const googleSignInTimeout = 5 * time.Minute

func init() {
	for _, c := range []*cobra.Command{authSignInCmd, authSignUpCmd} {
		c.Flags().StringVarP(&authEmail, "email", "e", "", "Account email")
		_ = c.MarkFlagRequired("email")
	}
	authCmd.AddCommand(authSignInCmd, authSignUpCmd, authGoogleCmd, authSignOutCmd, authStatusCmd)
}

func runAuthSignIn(cmd *cobra.Command, args []string) error {
	return runPasswordAuth(cmd, "Signed in", func(ctx context.Context, e *env, password string) error {
		return e.session.SignInEmail(ctx, strings.TrimSpace(authEmail), password)
	})
}

func runAuthSignUp(cmd *cobra.Command, args []string) error {
	return runPasswordAuth(cmd, "Account created", func(ctx context.Context, e *env, password string) error {
		return e.session.SignUpEmail(ctx, strings.TrimSpace(authEmail), password)
	})
}

func runPasswordAuth(cmd *cobra.Command, done string, fn func(context.Context, *env, string) error) error {
	password, err := readPassword(cmd)
	if err != nil {
		return err
	}

	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := commandContext(cmd)
	if err := e.session.Start(ctx); err != nil {
		e.log.Warn().Err(err).Msg("session not restored")
	}
	if err := fn(ctx, e, password); err != nil {
		return authFailure(e, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s as %s.\n", done, e.session.User().Name())
	return nil
}

// readPassword reads one line from stdin, prompting on stderr.
func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	fmt.Fprintln(cmd.ErrOrStderr())
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		if err != nil {
			return "", fmt.Errorf("reading password: %w", err)
		}
		return "", fmt.Errorf("password is required")
	}
	return line, nil
}

func runAuthGoogle(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithTimeout(commandContext(cmd), googleSignInTimeout)
	defer cancel()
	if err := e.session.Start(ctx); err != nil {
		e.log.Warn().Err(err).Msg("session not restored")
	}

	fmt.Fprintln(cmd.ErrOrStderr(), "Waiting for Google sign-in in your browser...")
	if err := e.session.SignInGoogle(ctx); err != nil {
		return authFailure(e, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", e.session.User().Name())
	return nil
}

func runAuthSignOut(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := commandContext(cmd)
	if err := e.session.Start(ctx); err != nil {
		e.log.Warn().Err(err).Msg("session not restored")
	}
	if e.session.User() == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
		return nil
	}
	if err := e.session.SignOut(ctx); err != nil {
		return authFailure(e, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd, false)
	if err != nil {
		return err
	}
	defer e.Close()

	if err := e.session.Start(commandContext(cmd)); err != nil {
		e.log.Warn().Err(err).Msg("session not restored")
	}

	out := cmd.OutOrStdout()
	user := e.session.User()
	if user == nil {
		fmt.Fprintln(out, "Not signed in.")
		return &exitError{code: 1}
	}

	fmt.Fprintf(out, "Signed in as %s\n", user.Name())
	if user.Email != "" && user.Email != user.Name() {
		fmt.Fprintf(out, "  email:    %s\n", user.Email)
	}
	fmt.Fprintf(out, "  provider: %s\n", user.ProviderID)
	if !user.SignedInAt.IsZero() {
		fmt.Fprintf(out, "  since:    %s\n", humanize.Time(user.SignedInAt))
	}
	if !user.ExpiresAt.IsZero() {
		fmt.Fprintf(out, "  token:    expires %s\n", humanize.Time(user.ExpiresAt))
	}
	return nil
}

// authFailure logs err and returns the user-facing message.
func authFailure(e *env, err error) error {
	e.log.Debug().Err(err).Str("kind", errkind.Of(err).String()).Msg("auth failed")
	return fmt.Errorf("%s", errkind.UserMessage(err))
}
