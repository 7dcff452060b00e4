package guard

// Reason says why a query was blocked.
type Reason string

const (
	ReasonInjection  Reason = "injection_detected"
	ReasonOutOfScope Reason = "out_of_scope_topic"
	ReasonComingSoon Reason = "coming_soon_sport"
)

// Verdict is the admission decision for one incoming query. It is produced
// once per query and consumed immediately by the caller.
type Verdict struct {
	Allowed bool
	Reason  Reason
	// Message is the user-facing reply for a blocked query.
	Message string
}

const (
	msgInjection       = "A sua pergunta não é válida para este chatbot."
	msgComingSoon      = "Esse desporto estará disponível em breve."
	msgSportNotAllowed = "Esse desporto não está disponível nesta aplicação."
	msgOutOfScope      = "Esta aplicação só responde a perguntas sobre futebol."
)

func allowed() Verdict {
	return Verdict{Allowed: true}
}

func blocked(reason Reason, message string) Verdict {
	return Verdict{Reason: reason, Message: message}
}
