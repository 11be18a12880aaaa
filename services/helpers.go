package services

import (
	"fmt"
	"strings"

	"github.com/Dosada05/sport-events/models"
)

// --- Общие хелперы ---

func sanitizeUser(user *models.User) {
	if user != nil {
		user.PasswordHash = "" // Важно для безопасности
	}
}

func sanitizeUsers(users []models.User) {
	for i := range users {
		users[i].PasswordHash = ""
	}
}

// GetExtensionFromContentType подбирает расширение файла по content type
// загружаемого изображения.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			// Убираем возможные суффиксы типа "+xml" (например, "image/svg+xml")
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type: %q", contentType)
	}
}
