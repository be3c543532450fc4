package utils

import "fmt"

const (
	LangEnglish = "en"
	LangFrench  = "fr"
	LangArabic  = "ar"
)

var translations = map[string]map[string]string{
	LangEnglish: {
		"booking_confirmed":      "Booking Confirmed!",
		"booking_await":          "We eagerly await your visit, %s.",
		"feedback_high_rating":   "Thank you! Would you share your experience on Google?",
		"feedback_google_btn":    "Leave a review",
		"feedback_low_rating":    "We are sorry. Tell the manager what went wrong.",
		"feedback_thank_you":     "Thank you, your message was sent to the manager.",
		"feedback_comment_empty": "Please tell us what went wrong.",
	},
	LangFrench: {
		"booking_confirmed":      "Réservation confirmée !",
		"booking_await":          "Nous attendons votre visite avec impatience, %s.",
		"feedback_high_rating":   "Merci ! Partageriez-vous votre expérience sur Google ?",
		"feedback_google_btn":    "Laisser un avis",
		"feedback_low_rating":    "Nous sommes désolés. Dites au responsable ce qui n'a pas été.",
		"feedback_thank_you":     "Merci, votre message a été transmis au responsable.",
		"feedback_comment_empty": "Dites-nous ce qui n'a pas été.",
	},
	LangArabic: {
		"booking_confirmed":      "تم تأكيد الحجز!",
		"booking_await":          "نحن بانتظار زيارتكم، %s.",
		"feedback_high_rating":   "شكراً لك! هل تشاركنا تجربتك على جوجل؟",
		"feedback_google_btn":    "اترك تقييماً",
		"feedback_low_rating":    "نأسف لذلك. أخبر المدير بما حدث.",
		"feedback_thank_you":     "شكراً لك، تم إرسال رسالتك إلى المدير.",
		"feedback_comment_empty": "أخبرنا بما حدث من فضلك.",
	},
}

// T returns the translation for key, falling back to English, then to the key.
func T(lang, key string, args ...interface{}) string {
	msg, ok := translations[lang][key]
	if !ok {
		msg, ok = translations[LangEnglish][key]
	}
	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
