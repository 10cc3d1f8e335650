package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/saltriver-hospitality/staff-roster/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonFirstNames = []string{
	"Ava", "Ben", "Chloe", "Daniel", "Ella", "Finn", "Grace", "Harry", "Isla", "Jack",
	"Kate", "Liam", "Mia", "Noah", "Olivia", "Paul", "Quinn", "Rosa", "Sam", "Tara",
}
var commonLastNames = []string{
	"Adams", "Brown", "Clark", "Davis", "Evans", "Foster", "Green", "Hughes", "Irwin", "Jones",
	"Khumalo", "Lewis", "Moore", "Naidoo", "Owens", "Parker", "Quill", "Reed", "Smith", "Turner",
}

func GenerateRandomFullName() string {
	first := commonFirstNames[rand.Intn(len(commonFirstNames))]
	last := commonLastNames[rand.Intn(len(commonLastNames))]
	return first + " " + last
}

var staffRoles = []domain.Role{
	domain.RoleHostess,
	domain.RoleBartender,
	domain.RoleWaiter,
	domain.RoleSkuller,
	domain.RoleManager,
}

// GenerateRandomRoles returns one staff role, occasionally two, which keeps
// seeded data exercising the multi-role paths.
func GenerateRandomRoles() []domain.Role {
	first := staffRoles[rand.Intn(len(staffRoles))]
	roles := []domain.Role{first}
	if rand.Intn(5) == 0 {
		second := staffRoles[rand.Intn(len(staffRoles))]
		if second != first {
			roles = append(roles, second)
		}
	}
	return roles
}

var digits = "0123456789"

func GenerateUsernameFromFullName(fullName string) string {
	parts := strings.Fields(strings.ToLower(fullName))
	username := ""
	if len(parts) > 0 {
		username = parts[0][:1]
	}
	if len(parts) > 1 {
		username += parts[len(parts)-1]
	}

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Roles:        GenerateRandomRoles(),
		IsActive:     true,
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

// GenerateRandomDateSubset picks a non-empty random subset of dates with a
// Fisher-Yates shuffle.
func GenerateRandomDateSubset(dates []time.Time) []time.Time {
	datesCopy := append([]time.Time{}, dates...)

	for i := len(datesCopy) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		datesCopy[i], datesCopy[j] = datesCopy[j], datesCopy[i]
	}

	n := rand.Intn(len(datesCopy)) + 1
	return datesCopy[:n]
}

var selectable = []domain.ShiftType{domain.ShiftDay, domain.ShiftNight, domain.ShiftDouble}

func GenerateRandomShiftSelection() []domain.ShiftType {
	return []domain.ShiftType{selectable[rand.Intn(len(selectable))]}
}
