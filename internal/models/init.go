package models

import (
	"strings"

	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/constants"
	"github.com/juanpabloglobalsys98/inlaze-repo-sub001/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdviser creates the first management account on an empty table.
func InitDefaultAdviser(email, password string) error {
	var count int64
	DB.Model(&Adviser{}).Count(&count)
	if count > 0 {
		return nil
	}

	if strings.TrimSpace(email) == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adviser := Adviser{
		Email:        email,
		FullName:     "Default Management",
		PasswordHash: string(hash),
		Role:         constants.AdviserRoleManagement,
	}
	if err := DB.Create(&adviser).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_adviser_created_with_default_password", "email", email)
		logger.Warnw("default_adviser_password_change_required", "email", email)
	} else {
		logger.Warnw("default_adviser_created", "email", email, "password_hidden", true)
	}
	return nil
}
