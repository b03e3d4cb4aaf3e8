package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/matzehuels/jiapu/pkg/api"
	"github.com/matzehuels/jiapu/pkg/errors"
	"github.com/matzehuels/jiapu/pkg/family"
	"github.com/matzehuels/jiapu/pkg/session"
)

// stdin is read for passwords and confirmations. Tests swap it.
var stdin = os.Stdin

// authCommand creates the auth command with subcommands.
func (c *CLI) authCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in to the family service",
		Long: `Register, sign in and manage your stored session.

The session token is kept in ~/.config/jiapu/session.json (or in redis when
session.backend = "redis") and sent with every request.`,
	}

	cmd.AddCommand(c.authSendCodeCommand())
	cmd.AddCommand(c.authRegisterCommand())
	cmd.AddCommand(c.authLoginCommand())
	cmd.AddCommand(c.authLogoutCommand())
	cmd.AddCommand(c.authWhoamiCommand())
	cmd.AddCommand(c.authProfileCommand())

	return cmd
}

func (c *CLI) authSendCodeCommand() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "send-code <email>",
		Short: "Email a verification code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			msg, err := client.SendCode(cmd.Context(), args[0], kind)
			if err != nil {
				return err
			}
			printSuccess("Verification code sent to %s", args[0])
			if msg != "" {
				printDetail("%s", msg)
			}
			printNextStep("Then run", "jiapu auth register --email "+args[0]+" --code <code>")
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "type", api.CodeRegister, "code purpose (register or reset_password)")
	return cmd
}

func (c *CLI) authRegisterCommand() *cobra.Command {
	var in api.RegisterInput
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if in.Password == "" {
				pw, err := readPassword("Password: ")
				if err != nil {
					return err
				}
				in.Password = pw
			}
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			resp, err := client.Register(cmd.Context(), in)
			if err != nil {
				return err
			}
			printSuccess("Registered and signed in as %s", resp.User.Nickname)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Email, "email", "", "email address")
	cmd.Flags().StringVar(&in.Nickname, "nickname", "", "display name")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&in.VerificationCode, "code", "", "verification code from send-code")
	cmd.Flags().StringVar(&in.Password, "password", "", "password (prompted when omitted)")
	return cmd
}

func (c *CLI) authLoginCommand() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <email-or-username>",
		Short: "Sign in and store the session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.sessionStore()
			if err != nil {
				return err
			}
			if sess, _ := store.Get(cmd.Context()); sess != nil && sess.User != nil {
				printInfo("Already signed in as %s", sess.User.Nickname)
				printDetail("Run 'jiapu auth logout' first to switch accounts")
				return nil
			}
			if password == "" {
				if password, err = readPassword("Password: "); err != nil {
					return err
				}
			}
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			resp, err := client.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			printSuccess("Signed in as %s", resp.User.Nickname)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "password (prompted when omitted)")
	return cmd
}

func (c *CLI) authLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			if err := client.Logout(cmd.Context()); err != nil {
				return err
			}
			printSuccess("Signed out")
			return nil
		},
	}
}

func (c *CLI) authWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.sessionStore()
			if err != nil {
				return err
			}
			sess, err := session.Require(cmd.Context(), store)
			if err != nil {
				return notSignedIn(err)
			}
			printSuccess("Session")
			if u := sess.User; u != nil {
				printKeyValue("Nickname", u.Nickname)
				printKeyValue("Email", u.Email)
				if u.Role != "" {
					printKeyValue("Role", u.Role)
				}
			}
			printKeyValue("Signed in", sess.CreatedAt.Format("Jan 2, 2006"))
			if !sess.ExpiresAt.IsZero() {
				printKeyValue("Expires", sess.ExpiresAt.Format("Jan 2, 2006"))
			}
			return nil
		},
	}
}

func (c *CLI) authProfileCommand() *cobra.Command {
	var nickname, phone, avatar string
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.apiClient()
			if err != nil {
				return err
			}
			var upd api.ProfileUpdate
			if cmd.Flags().Changed("nickname") {
				upd.Nickname = &nickname
			}
			if cmd.Flags().Changed("phone") {
				upd.Phone = &phone
			}
			if cmd.Flags().Changed("avatar") {
				upd.Avatar = &avatar
			}

			updating := upd != (api.ProfileUpdate{})
			var user *family.User
			if updating {
				user, err = client.UpdateProfile(cmd.Context(), upd)
			} else {
				user, err = client.Profile(cmd.Context())
			}
			if err != nil {
				return err
			}
			if updating {
				printSuccess("Profile updated")
			}
			printKeyValue("Nickname", user.Nickname)
			printKeyValue("Email", user.Email)
			printKeyValue("Phone", orDash(user.Phone))
			printKeyValue("Avatar", orDash(user.Avatar))
			return nil
		},
	}
	cmd.Flags().StringVar(&nickname, "nickname", "", "new display name")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone number")
	cmd.Flags().StringVar(&avatar, "avatar", "", "new avatar URL (see 'jiapu upload')")
	return cmd
}

// =============================================================================
// Helpers
// =============================================================================

func notSignedIn(err error) error {
	return errors.Wrap(errors.ErrCodeUnauthorized, err, "not signed in (run 'jiapu auth login' first)")
}

// readPassword prompts on stderr and reads without echo from a terminal,
// or reads one line from a pipe.
func readPassword(prompt string) (string, error) {
	if term.IsTerminal(stdin.Fd()) {
		fmt.Fprint(os.Stderr, prompt)
		pw, err := term.ReadPassword(stdin.Fd())
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "password is required")
	}
	return strings.TrimRight(line, "\r\n"), nil
}
