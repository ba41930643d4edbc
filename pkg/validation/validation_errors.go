package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to the French labels shown to users.
var FieldLabels = map[string]string{
	"FormType":    "Type de formulaire",
	"FormData":    "Données du formulaire",
	"Company":     "Entreprise",
	"Name":        "Nom du contact",
	"FullName":    "Nom et prénom",
	"Email":       "Email",
	"Phone":       "Téléphone",
	"RequestType": "Objet de la demande",
	"Urgency":     "Urgence",
	"Status":      "Statut",
	"Details":     "Détails",
	"Message":     "Message",
	"Attach":      "Pièce jointe",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: %s", label, MsgRequired)
	case "min":
		return fmt.Sprintf("%s: Minimum %s caractères requis", label, param)
	case "max":
		return fmt.Sprintf("%s: Maximum %s caractères autorisés", label, param)
	case "oneof":
		return fmt.Sprintf("%s: doit être l'une des valeurs suivantes: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s: Adresse email invalide", label)
	case "file":
		return fmt.Sprintf("%s: fichier introuvable", label)
	default:
		return fmt.Sprintf("%s: Format invalide (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return fieldName
}
