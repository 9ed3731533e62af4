package cmd

import (
	"fmt"

	"github.com/rustyeddy/quantdesk/auth"
	"github.com/rustyeddy/quantdesk/config"
	"github.com/spf13/cobra"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage the local user profile",
}

var authSignupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a profile",
	Args:  cobra.NoArgs,
	RunE:  runAuthSignup,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check email and password",
	Args:  cobra.NoArgs,
	RunE:  runAuthLogin,
}

var authUnlockCmd = &cobra.Command{
	Use:   "unlock",
	Short: "Log in, lock the session and unlock it with the PIN",
	Args:  cobra.NoArgs,
	RunE:  runAuthUnlock,
}

var authResetCmd = &cobra.Command{
	Use:   "reset <email-or-mobile>",
	Short: "Reset the password",
	Args:  cobra.ExactArgs(1),
	RunE:  runAuthReset,
}

var (
	authEmail      string
	authPassword   string
	authConfirm    string
	authPIN        string
	authConfirmPIN string
	authMobile     string
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSignupCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authUnlockCmd)
	authCmd.AddCommand(authResetCmd)

	authCmd.PersistentFlags().StringVar(&authEmail, "email", "", "email address")
	authCmd.PersistentFlags().StringVar(&authPassword, "password", "", "password")
	authCmd.PersistentFlags().StringVar(&authPIN, "pin", "", "4 digit PIN")
	authSignupCmd.Flags().StringVar(&authConfirmPIN, "confirm-pin", "", "repeat the PIN")
	authSignupCmd.Flags().StringVar(&authMobile, "mobile", "", "mobile number")
	authResetCmd.Flags().StringVar(&authConfirm, "confirm", "", "repeat the new password")
}

func openAuth() (*auth.Store, error) {
	s, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return auth.Open(s.Auth.Path)
}

func runAuthSignup(cmd *cobra.Command, args []string) error {
	st, err := openAuth()
	if err != nil {
		return err
	}
	p, err := st.SignUp(auth.Registration{
		Email:      authEmail,
		Password:   authPassword,
		PIN:        authPIN,
		ConfirmPIN: authConfirmPIN,
		Mobile:     authMobile,
	})
	if err != nil {
		return err
	}
	fmt.Printf("✓ Welcome, %s\n", p.Email)
	return nil
}

func runAuthLogin(cmd *cobra.Command, args []string) error {
	st, err := openAuth()
	if err != nil {
		return err
	}
	sess, err := st.Login(authEmail, authPassword)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Logged in as %s\n", sess.Profile().Email)
	return nil
}

func runAuthUnlock(cmd *cobra.Command, args []string) error {
	st, err := openAuth()
	if err != nil {
		return err
	}
	sess, err := st.Login(authEmail, authPassword)
	if err != nil {
		return err
	}
	sess.Lock()
	if err := sess.Unlock(authPIN); err != nil {
		return err
	}
	fmt.Println("✓ Unlocked")
	return nil
}

func runAuthReset(cmd *cobra.Command, args []string) error {
	st, err := openAuth()
	if err != nil {
		return err
	}
	if err := st.ResetPassword(args[0], authPassword, authConfirm); err != nil {
		return err
	}
	fmt.Println("✓ Password reset successfully")
	return nil
}
