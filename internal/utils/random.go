package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/millbrook-pd/roster/backend/internal/domain"
)

var commonFirstNames = []string{
	"James", "Maria", "David", "Angela", "Robert", "Dana", "Michael", "Karen",
	"Luis", "Patricia", "Kevin", "Denise", "Marcus", "Teresa", "Frank", "Nicole",
	"Derek", "Sandra", "Tony", "Rachel",
}

var commonLastNames = []string{
	"Alvarez", "Brooks", "Carter", "Delgado", "Ellis", "Fraser", "Grant",
	"Hughes", "Ingram", "Jennings", "Kowalski", "Lombardi", "Murphy", "Novak",
	"Okafor", "Petersen", "Quinn", "Ramirez", "Sullivan", "Torres",
}

func GenerateRandomOfficerName() (string, string) {
	first := commonFirstNames[rand.Intn(len(commonFirstNames))]
	last := commonLastNames[rand.Intn(len(commonLastNames))]
	return first, last
}

var digits = "0123456789"

// GenerateUsernameFromName builds a login like "jalvarez382" from a name.
func GenerateUsernameFromName(firstName, lastName string) string {
	username := strings.ToLower(firstName[:1] + lastName)

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

var userRoles = []domain.Role{
	domain.RoleAdmin,
	domain.RoleScheduler,
	domain.RoleViewer,
}

func GenerateRandomRole() domain.Role {
	return userRoles[rand.Intn(len(userRoles))]
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	firstName, lastName := GenerateRandomOfficerName()
	username := GenerateUsernameFromName(firstName, lastName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     firstName + " " + lastName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

func GenerateRandomBadgeNumber() string {
	return fmt.Sprintf("%04d", rand.Intn(10000))
}

// GenerateRandomHireDate picks a hire date between 1 and maxYears years ago.
func GenerateRandomHireDate(maxYears int) time.Time {
	days := rand.Intn(maxYears*365-365) + 365
	return time.Now().UTC().AddDate(0, 0, -days).Truncate(24 * time.Hour)
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	password := make([]rune, length)
	for i := range password {
		password[i] = letters[rand.Intn(len(letters))]
	}
	return string(password)
}
