package users

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/mail"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/telbook/telbook/internal/config"
	"github.com/telbook/telbook/internal/db/bunx"
	"github.com/telbook/telbook/internal/db/models"
	"github.com/telbook/telbook/internal/repository"
)

var (
	emailFlag    string
	nameFlag     string
	passwordFlag string
	stdinFlag    bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if emailFlag == "" {
			return fmt.Errorf("--email flag is required")
		}

		if nameFlag == "" {
			return fmt.Errorf("--name flag is required")
		}

		password := passwordFlag
		if stdinFlag {
			scanner := bufio.NewScanner(os.Stdin)
			fmt.Print("Enter password: ")
			if scanner.Scan() {
				password = scanner.Text()
			}
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
		}

		if password == "" {
			return fmt.Errorf("password is required (use --password or --stdin)")
		}

		if _, err := mail.ParseAddress(emailFlag); err != nil {
			return fmt.Errorf("invalid email format: %w", err)
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := bunx.NewDB(cfg.DatabaseURL, cfg.MaxDBConnections)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer bunx.Close(db)

		ctx := context.Background()
		userRepo := repository.NewBunUserRepository(db)

		existing, err := userRepo.GetByEmail(ctx, emailFlag)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("user with email %q already exists", emailFlag)
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user := &models.User{
			Email:        emailFlag,
			Name:         nameFlag,
			PasswordHash: string(hashedPassword),
		}

		if err := userRepo.Create(ctx, user); err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}

		fmt.Println("User created successfully!")
		fmt.Println("----------------------------------------")
		fmt.Printf("User ID: %d\n", user.ID)
		fmt.Printf("Email: %s\n", user.Email)
		fmt.Printf("Name: %s\n", user.Name)
		fmt.Println("----------------------------------------")

		return nil
	},
}
