package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"

	"github.com/acml/acmlctl/internal/members"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login [username]",
	Short: "Authenticate against the platform and store the session",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Drop the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	RunE:  runWhoami,
}

var changePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change the password of the logged-in user",
	RunE:  runChangePassword,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(changePasswordCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	var username string
	if len(args) == 1 {
		username = args[0]
	} else {
		username, err = promptLine("Nom d'utilisateur: ")
		if err != nil {
			return err
		}
	}

	password, err := promptPassword("Mot de passe: ")
	if err != nil {
		return err
	}

	u, err := a.auth.Login(cmd.Context(), username, password)
	if err != nil {
		return err
	}
	slog.Info("logged in", "username", u.Username)

	fmt.Printf("Connecté en tant que %s\n", u.FullName())
	if u.MustChangePassword {
		fmt.Println("Votre mot de passe doit être changé: exécutez 'acmlctl change-password'")
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.auth.Logout(); err != nil {
		return err
	}
	fmt.Println("Session fermée")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	u, err := a.guard.Require()
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", u.FullName(), u.Username)
	if u.Email != "" {
		fmt.Println(u.Email)
	}
	if u.IsStaff {
		fmt.Println("Administrateur")
	}
	return nil
}

func runChangePassword(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.guard.Require(); err != nil {
		return err
	}

	password, err := promptPassword("Nouveau mot de passe: ")
	if err != nil {
		return err
	}
	confirmPassword, err := promptPassword("Confirmer le mot de passe: ")
	if err != nil {
		return err
	}

	if err := a.members.ChangePassword(cmd.Context(), password, confirmPassword); err != nil {
		return err
	}
	fmt.Println("Mot de passe changé")
	return nil
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Submit a membership request (lands in the approval queue)",
	RunE:  runRegister,
}

var registerFlags struct {
	email      string
	firstName  string
	lastName   string
	phone      string
	postalCode string
}

func init() {
	registerCmd.Flags().StringVar(&registerFlags.email, "email", "", "email address")
	registerCmd.Flags().StringVar(&registerFlags.firstName, "first-name", "", "first name")
	registerCmd.Flags().StringVar(&registerFlags.lastName, "last-name", "", "last name")
	registerCmd.Flags().StringVar(&registerFlags.phone, "phone", "", "phone number (10 digits)")
	registerCmd.Flags().StringVar(&registerFlags.postalCode, "postal-code", "", "postal code")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	password, err := promptPassword("Mot de passe: ")
	if err != nil {
		return err
	}
	confirmPassword, err := promptPassword("Confirmer le mot de passe: ")
	if err != nil {
		return err
	}

	m, err := a.members.Register(cmd.Context(), members.RegisterInput{
		Email:      registerFlags.email,
		FirstName:  registerFlags.firstName,
		LastName:   registerFlags.lastName,
		Phone:      registerFlags.phone,
		PostalCode: registerFlags.postalCode,
		Password:   password,
	}, confirmPassword)
	if err != nil {
		return err
	}

	fmt.Printf("Demande d'adhésion soumise (%s). Un administrateur doit l'approuver.\n", shortID(m.ID))
	return nil
}

func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(data), nil
}
