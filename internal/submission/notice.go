package submission

import (
	"fmt"
	"time"

	"mecahub-backend/internal/domain"
	"mecahub-backend/pkg/ratelimit"
)

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeInfo    NoticeLevel = "info"
	NoticeError   NoticeLevel = "error"
)

// Notice is what the user sees: a short title and one sentence.
type Notice struct {
	Level       NoticeLevel `json:"level"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
}

var (
	noticeValidation = Notice{
		Level:       NoticeError,
		Title:       "Formulaire incomplet",
		Description: "Veuillez corriger les champs signalés.",
	}
	noticeHardFailure = Notice{
		Level:       NoticeError,
		Title:       "Erreur lors de l'envoi",
		Description: "Veuillez réessayer ultérieurement.",
	}
	noticeHandledManually = Notice{
		Level:       NoticeInfo,
		Title:       "Demande enregistrée",
		Description: "Votre demande a bien été enregistrée et sera traitée manuellement par notre équipe.",
	}
)

// RateLimitMessage is the sentence shown when the form limiter refuses a submission.
func RateLimitMessage(wait time.Duration) string {
	return fmt.Sprintf("Trop de tentatives. Réessayez dans %d secondes.", ratelimit.RetrySeconds(wait))
}

func rateLimitedNotice(wait time.Duration) Notice {
	return Notice{
		Level:       NoticeError,
		Title:       "Trop de tentatives",
		Description: RateLimitMessage(wait),
	}
}

func uploadFailedNotice(t domain.FormType) Notice {
	if t == domain.FormJob {
		return Notice{
			Level:       NoticeInfo,
			Title:       "CV non joint",
			Description: "Votre CV n'a pas pu être envoyé, votre candidature sera transmise sans pièce jointe.",
		}
	}
	return Notice{
		Level:       NoticeInfo,
		Title:       "Fichier non joint",
		Description: "Votre fichier n'a pas pu être envoyé, votre demande sera transmise sans pièce jointe.",
	}
}

func successNotice(t domain.FormType) Notice {
	if t == domain.FormJob {
		return Notice{
			Level:       NoticeSuccess,
			Title:       "Candidature envoyée !",
			Description: "Nous étudierons votre profil et reviendrons vers vous rapidement.",
		}
	}
	return Notice{
		Level:       NoticeSuccess,
		Title:       "Demande envoyée !",
		Description: "Nous vous contacterons dans les plus brefs délais.",
	}
}
