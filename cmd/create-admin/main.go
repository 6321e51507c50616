package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/XAdnanAhmedX/JusticeHammer/config"
	"github.com/XAdnanAhmedX/JusticeHammer/db"
	"github.com/XAdnanAhmedX/JusticeHammer/models"
	"github.com/XAdnanAhmedX/JusticeHammer/services"
)

// create-admin provisions an ADMIN account. Admins cannot self-register
// through the public registration endpoint.
func main() {
	cfg := config.Load()

	databases, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect databases: %v", err)
	}
	defer databases.Close()

	if err := databases.Migrate(&models.User{}, &models.Session{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Admin Account ===")
	fmt.Println()

	fmt.Print("Name: ")
	name, _ := reader.ReadString('\n')
	name = strings.TrimSpace(name)

	fmt.Print("Email: ")
	email, _ := reader.ReadString('\n')
	email = strings.TrimSpace(strings.ToLower(email))

	fmt.Print("District (optional): ")
	district, _ := reader.ReadString('\n')
	district = strings.TrimSpace(district)

	fmt.Print("Password: ")
	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		log.Fatalf("Failed to read password: %v", err)
	}
	password := string(passwordBytes)
	fmt.Println()

	if name == "" || email == "" || password == "" {
		log.Fatal("Name, email, and password are required")
	}
	if len(password) < services.MinPasswordLength {
		log.Fatalf("Password must be at least %d characters long", services.MinPasswordLength)
	}

	var existing models.User
	if err := databases.Primary.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Fatalf("User with email %s already exists", email)
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	admin := &models.User{
		Email:        email,
		Name:         name,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
		Verified:     true,
	}
	if district != "" {
		admin.District = &district
	}

	if err := databases.Primary.Create(admin).Error; err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("\nAdmin account created (id=%d, email=%s)\n", admin.ID, admin.Email)
}
